package extract

import (
	"net/url"

	"animedex/internal/domain/media"
)

const (
	youtubeEmbed  = "https://www.youtube.com/embed/"
	youtubeSearch = "https://www.youtube.com/results?search_query="
)

// TrailerURL returns an embeddable player URL when the record has a YouTube
// trailer id; otherwise a search for "<title> trailer". The bool reports
// whether the URL is embeddable.
func TrailerURL(a media.Record) (string, bool) {
	if id := TrailerID(a); id != "" {
		return youtubeEmbed + url.PathEscape(id) + "?autoplay=1", true
	}
	return youtubeSearch + url.QueryEscape(Title(a)+" trailer"), false
}
