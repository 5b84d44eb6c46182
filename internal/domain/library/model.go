package library

import "time"

// Content kinds
const (
	KindArticle     = "article"
	KindVideo       = "video"
	KindTestimonial = "testimonial"
)

// Translation holds translated fields for one target language.
type Translation struct {
	Title   string `json:"title,omitempty"`
	Body    string `json:"body,omitempty"`
	Summary string `json:"summary,omitempty"`
}

// Item is a library entry: an article, a video reference or a testimonial.
// Translations maps language code to translated fields; it is filled
// best-effort on create and never blocks the write.
type Item struct {
	ID           int64                  `json:"id"`
	Kind         string                 `json:"kind"`
	Title        string                 `json:"title"`
	Body         string                 `json:"body,omitempty"`
	Summary      string                 `json:"summary,omitempty"`
	URL          *string                `json:"url,omitempty"`
	Author       *string                `json:"author,omitempty"`
	Category     *string                `json:"category,omitempty"`
	Language     string                 `json:"language"`
	Premium      bool                   `json:"premium"`
	Translations map[string]Translation `json:"translations,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}
