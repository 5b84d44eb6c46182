package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// LibraryService handles content library API calls
type LibraryService struct {
	client *Client
}

// LibraryListOptions contains options for listing library items
type LibraryListOptions struct {
	ListOptions
	Kind string // article, video or testimonial; empty for all
}

// List retrieves a page of library items visible to the caller. Premium
// items are summarized unless the caller's plan or addons unlock them.
func (s *LibraryService) List(ctx context.Context, opts *LibraryListOptions) (*Paginated[LibraryItem], error) {
	query := url.Values{}
	if opts != nil {
		if opts.Page > 0 {
			query.Set("page", strconv.Itoa(opts.Page))
		}
		if opts.PageSize > 0 {
			query.Set("page_size", strconv.Itoa(opts.PageSize))
		}
		if opts.Kind != "" {
			query.Set("kind", opts.Kind)
		}
	}
	path := "/api/v1/library"
	if len(query) > 0 {
		path += "?" + query.Encode()
	}
	var page Paginated[LibraryItem]
	if err := s.client.doRequest(ctx, "GET", path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get retrieves a library item by ID
func (s *LibraryService) Get(ctx context.Context, id int64) (*LibraryItem, error) {
	var item LibraryItem
	if err := s.client.doRequest(ctx, "GET", fmt.Sprintf("/api/v1/library/%d", id), nil, &item); err != nil {
		return nil, err
	}
	return &item, nil
}
