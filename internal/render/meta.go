package render

import (
	"animedex/internal/domain/media"
	"animedex/internal/extract"
)

// MetaRows lays out the six enrichment blocks in display order. Missing
// blocks and missing values read media.NotAvailable.
func MetaRows(m *media.Meta) []MetaRow {
	if m == nil {
		m = &media.Meta{}
	}
	na := media.NotAvailable
	rows := make([]MetaRow, 0, 6)

	r := MetaRow{Label: "Filler", Value: na}
	if f := m.Filler; f != nil {
		r.Value = "Canon " + extract.Show(f.CanonEpisodes) +
			" · Filler " + extract.Show(f.FillerEpisodes) +
			" · Mixed " + extract.Show(f.MixedEpisodes)
		r.SourceURL = extract.SourceLink(f.SourceURL)
	}
	rows = append(rows, r)

	r = MetaRow{Label: "Seasons", Value: na}
	if s := m.Seasons; s != nil {
		r.Value = extract.Show(s.TotalSeasons)
		r.SourceURL = extract.SourceLink(s.SourceURL)
	}
	rows = append(rows, r)

	r = MetaRow{Label: "Manga", Value: na}
	if mg := m.Manga; mg != nil {
		r.Value = "Volumes " + extract.Show(mg.Volumes) + " · Chapters " + extract.Show(mg.Chapters)
		r.SourceURL = extract.SourceLink(mg.SourceURL)
	}
	rows = append(rows, r)

	r = MetaRow{Label: "Adaptation", Value: na}
	if a := m.Adaptation; a != nil {
		r.Value = "Chapters adapted " + extract.Show(a.MangaChaptersAdapted) +
			" · Difference " + extract.ShowPercent(a.DifferencePercent)
		r.SourceURL = extract.SourceLink(a.SourceURL)
	}
	rows = append(rows, r)

	r = MetaRow{Label: "Studio", Value: na}
	if s := m.Studio; s != nil {
		r.Value = extract.Show(s.Studios)
		r.SourceURL = extract.SourceLink(s.SourceURL)
	}
	rows = append(rows, r)

	r = MetaRow{Label: "Creator", Value: na}
	if c := m.Creator; c != nil {
		r.Value = extract.Show(c.Name)
		if c.Role != nil {
			r.Value += " (" + extract.Show(c.Role) + ")"
		}
		r.SourceURL = extract.SourceLink(c.SourceURL)
	}
	rows = append(rows, r)

	return rows
}
