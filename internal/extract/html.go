package extract

import (
	"regexp"
	"strings"
)

var (
	reBreak    = regexp.MustCompile(`(?i)<br\s*/?>`)
	reParaEnd  = regexp.MustCompile(`(?i)</p>`)
	reTag      = regexp.MustCompile(`<[^>]+>`)
	reNewlines = regexp.MustCompile(`\n{3,}`)
)

// StripHTML turns an HTML description into plain text: <br> and </p> become
// newlines, every other tag is dropped, and runs of 3+ newlines collapse to 2.
func StripHTML(s string) string {
	s = reBreak.ReplaceAllString(s, "\n")
	s = reParaEnd.ReplaceAllString(s, "\n")
	s = reTag.ReplaceAllString(s, "")
	s = reNewlines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
