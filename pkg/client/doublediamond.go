package client

import (
	"context"
	"fmt"
)

// DoubleDiamondService handles Double Diamond project API calls
type DoubleDiamondService struct {
	client *Client
}

// CreateDoubleDiamondRequest is the Double Diamond project creation payload
type CreateDoubleDiamondRequest struct {
	Name             string  `json:"name"`
	Description      *string `json:"description,omitempty"`
	Sector           string  `json:"sector"`
	SuccessCase      *string `json:"success_case,omitempty"`
	TargetAudience   *string `json:"target_audience,omitempty"`
	ProblemStatement *string `json:"problem_statement,omitempty"`
	Language         string  `json:"language,omitempty"`
}

// List retrieves a page of the caller's Double Diamond projects
func (s *DoubleDiamondService) List(ctx context.Context, opts *ListOptions) (*Paginated[DoubleDiamondProject], error) {
	path := "/api/v1/double-diamond" + listQuery(opts)
	var page Paginated[DoubleDiamondProject]
	if err := s.client.doRequest(ctx, "GET", path, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// Get retrieves a Double Diamond project by ID
func (s *DoubleDiamondService) Get(ctx context.Context, id int64) (*DoubleDiamondProject, error) {
	var p DoubleDiamondProject
	if err := s.client.doRequest(ctx, "GET", fmt.Sprintf("/api/v1/double-diamond/%d", id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Create creates a Double Diamond project
func (s *DoubleDiamondService) Create(ctx context.Context, req CreateDoubleDiamondRequest) (*DoubleDiamondProject, error) {
	var p DoubleDiamondProject
	if err := s.client.doRequest(ctx, "POST", "/api/v1/double-diamond", req, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Delete removes a Double Diamond project
func (s *DoubleDiamondService) Delete(ctx context.Context, id int64) error {
	return s.client.doRequest(ctx, "DELETE", fmt.Sprintf("/api/v1/double-diamond/%d", id), nil, nil)
}

// Generate runs one AI generation phase. Phase is one of
// discover, define, develop, deliver or dfv.
func (s *DoubleDiamondService) Generate(ctx context.Context, id int64, phase string) (*DoubleDiamondProject, error) {
	path := fmt.Sprintf("/api/v1/double-diamond/%d/generate/%s", id, phase)
	var p DoubleDiamondProject
	if err := s.client.doRequest(ctx, "POST", path, nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// Export converts a completed Double Diamond project into a five-phase
// project. An empty name keeps the source project's name.
func (s *DoubleDiamondService) Export(ctx context.Context, id int64, projectName string) (*ExportResult, error) {
	var body interface{}
	if projectName != "" {
		body = map[string]string{"project_name": projectName}
	}
	var result ExportResult
	if err := s.client.doRequest(ctx, "POST", fmt.Sprintf("/api/v1/double-diamond/%d/export", id), body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}
