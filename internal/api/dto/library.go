package dto

// LibraryItemRequest is the library item create/update payload
type LibraryItemRequest struct {
	Kind     string  `json:"kind" validate:"required,oneof=article video testimonial"`
	Title    string  `json:"title" validate:"required,max=255"`
	Body     string  `json:"body,omitempty"`
	Summary  string  `json:"summary,omitempty"`
	URL      *string `json:"url,omitempty" validate:"omitempty,url"`
	Author   *string `json:"author,omitempty"`
	Category *string `json:"category,omitempty"`
	Language string  `json:"language,omitempty"`
	Premium  bool    `json:"premium"`
}
