package media

// Meta is the optional enrichment block stored under a record's "meta" field.
// Every block and every field may be missing; nil means "not available".
type Meta struct {
	Filler     *Filler     `json:"filler,omitempty"`
	Seasons    *Seasons    `json:"seasons,omitempty"`
	Manga      *Manga      `json:"manga,omitempty"`
	Adaptation *Adaptation `json:"adaptation,omitempty"`
	Studio     *Studio     `json:"studio,omitempty"`
	Creator    *Creator    `json:"creator,omitempty"`
}

type Filler struct {
	CanonEpisodes         *float64 `json:"canonEpisodes"`
	FillerEpisodes        *float64 `json:"fillerEpisodes"`
	MixedEpisodes         *float64 `json:"mixedEpisodes"`
	TotalEpisodesVerified *float64 `json:"totalEpisodesVerified"`
	Note                  *string  `json:"note"`
	SourceURL             *string  `json:"sourceUrl"`
}

type Seasons struct {
	TotalSeasons *float64 `json:"totalSeasons"`
	Note         *string  `json:"note"`
	SourceURL    *string  `json:"sourceUrl"`
}

type Manga struct {
	Volumes   *float64 `json:"volumes"`
	Chapters  *float64 `json:"chapters"`
	Note      *string  `json:"note"`
	SourceURL *string  `json:"sourceUrl"`
}

type Adaptation struct {
	MangaChaptersAdapted *float64 `json:"mangaChaptersAdapted"`
	AnimeEpisodes        *float64 `json:"animeEpisodes"`
	DifferencePercent    *float64 `json:"differencePercent"`
	Summary              *string  `json:"summary"`
	SourceURL            *string  `json:"sourceUrl"`
}

type Studio struct {
	Studios   []string `json:"studios"`
	SourceURL *string  `json:"sourceUrl"`
}

type Creator struct {
	Name      *string `json:"name"`
	Role      *string `json:"role"`
	SourceURL *string `json:"sourceUrl"`
}
