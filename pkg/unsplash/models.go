package unsplash

// Photo represents a single photo record returned by the Unsplash API.
// Only ID and URLs are required by the pipeline; the remaining fields
// are passed through so batch files keep the useful parts of the
// upstream payload.
type Photo struct {
	ID             string            `json:"id"`
	CreatedAt      string            `json:"created_at,omitempty"`
	Width          int               `json:"width,omitempty"`
	Height         int               `json:"height,omitempty"`
	Color          string            `json:"color,omitempty"`
	Description    string            `json:"description,omitempty"`
	AltDescription string            `json:"alt_description,omitempty"`
	Likes          int               `json:"likes,omitempty"`
	URLs           map[string]string `json:"urls"`
	Links          *Links            `json:"links,omitempty"`
	User           *User             `json:"user,omitempty"`
}

// Links holds the API and HTML locations of a photo
type Links struct {
	Self     string `json:"self,omitempty"`
	HTML     string `json:"html,omitempty"`
	Download string `json:"download,omitempty"`
}

// User represents the photographer
type User struct {
	ID       string `json:"id,omitempty"`
	Username string `json:"username,omitempty"`
	Name     string `json:"name,omitempty"`
}

// URL returns the download URL for the given quality tier and whether
// the tier exists for this photo
func (p *Photo) URL(quality string) (string, bool) {
	u, ok := p.URLs[quality]
	return u, ok && u != ""
}
