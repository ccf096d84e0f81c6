package media

// Record is one catalog entry exactly as decoded from the data source.
// No shape is guaranteed; read it through the extract package.
type Record = map[string]any

const (
	UnknownType  = "—"
	Untitled     = "Untitled"
	NoSynopsis   = "No description."
	NotAvailable = "Not available"
)

// View is the canonical reading of a Record. It is derived on demand and never stored.
type View struct {
	Key       string   `json:"key"`
	Title     string   `json:"title"`
	Year      int      `json:"year"`
	Type      string   `json:"type"`
	Episodes  int      `json:"episodes"`
	Genres    []string `json:"genres"`
	Mood      []string `json:"mood"`
	Synopsis  string   `json:"synopsis"`
	CoverURL  string   `json:"coverUrl,omitempty"`
	SiteURL   string   `json:"siteUrl,omitempty"`
	TrailerID string   `json:"trailerId,omitempty"`
	Meta      *Meta    `json:"meta,omitempty"`
}

func (v View) HasYear() bool { return v.Year > 0 }
