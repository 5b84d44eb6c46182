package client

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// ProjectService handles five-phase project API calls
type ProjectService struct {
	client *Client
}

// CreateProjectRequest is the project creation payload
type CreateProjectRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Sector      *string `json:"sector,omitempty"`
	SuccessCase *string `json:"success_case,omitempty"`
}

// UpdateProjectRequest is the project update payload; nil fields are untouched
type UpdateProjectRequest struct {
	Name           *string `json:"name,omitempty"`
	Description    *string `json:"description,omitempty"`
	Sector         *string `json:"sector,omitempty"`
	SuccessCase    *string `json:"success_case,omitempty"`
	Status         *string `json:"status,omitempty"`
	CurrentPhase   *int    `json:"current_phase,omitempty"`
	CompletionRate *int    `json:"completion_rate,omitempty"`
}

// List retrieves a page of the caller's projects
func (s *ProjectService) List(ctx context.Context, opts *ListOptions) (*Paginated[Project], error) {
	path := "/api/v1/projects" + listQuery(opts)
	var page Paginated[Project]
	if err := s.client.doRequest(ctx, "GET", path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get retrieves a project by ID
func (s *ProjectService) Get(ctx context.Context, id int64) (*Project, error) {
	var p Project
	if err := s.client.doRequest(ctx, "GET", fmt.Sprintf("/api/v1/projects/%d", id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create creates a project
func (s *ProjectService) Create(ctx context.Context, req CreateProjectRequest) (*Project, error) {
	var p Project
	if err := s.client.doRequest(ctx, "POST", "/api/v1/projects", req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Update patches a project
func (s *ProjectService) Update(ctx context.Context, id int64, req UpdateProjectRequest) (*Project, error) {
	var p Project
	if err := s.client.doRequest(ctx, "PUT", fmt.Sprintf("/api/v1/projects/%d", id), req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete removes a project and its entities
func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	return s.client.doRequest(ctx, "DELETE", fmt.Sprintf("/api/v1/projects/%d", id), nil, nil)
}

func listQuery(opts *ListOptions) string {
	if opts == nil {
		return ""
	}
	query := url.Values{}
	if opts.Page > 0 {
		query.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.PageSize > 0 {
		query.Set("page_size", strconv.Itoa(opts.PageSize))
	}
	if len(query) == 0 {
		return ""
	}
	return "?" + query.Encode()
}
