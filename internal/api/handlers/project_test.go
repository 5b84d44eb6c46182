package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/designlab-hq/designlab/internal/api/middleware"
	"github.com/designlab-hq/designlab/internal/dedupe"
	"github.com/designlab-hq/designlab/internal/domain/project"
	"github.com/designlab-hq/designlab/internal/domain/user"
	"github.com/designlab-hq/designlab/internal/pkg/validator"
	"github.com/designlab-hq/designlab/internal/services"
	"github.com/designlab-hq/designlab/internal/testutil"
	"github.com/go-chi/chi/v5"
)

func newProjectHandlerFixture(t *testing.T) (*testutil.MockProjectRepo, *ProjectHandler) {
	t.Helper()
	repo := testutil.NewMockProjectRepo()
	teams := testutil.NewMockTeamRepo()
	guard := dedupe.New(3*time.Second, time.Minute)
	svc := services.NewProjectService(repo, teams, guard, testutil.NewLogger())
	handler := NewProjectHandler(svc, testutil.NewLogger(), validator.New())
	return repo, handler
}

func authedRequest(method, target string, body []byte, userID int64, role string) *http.Request {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewReader(body))
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	ctx := context.WithValue(req.Context(), middleware.UserIDKey, userID)
	ctx = context.WithValue(ctx, middleware.UserRoleKey, role)
	return req.WithContext(ctx)
}

func withURLParam(req *http.Request, key, value string) *http.Request {
	rctx, ok := req.Context().Value(chi.RouteCtxKey).(*chi.Context)
	if !ok || rctx == nil {
		rctx = chi.NewRouteContext()
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return req
}

func TestProjectHandler_Create(t *testing.T) {
	_, handler := newProjectHandlerFixture(t)

	body, _ := json.Marshal(map[string]string{"name": "Fintech Onboarding"})
	req := authedRequest(http.MethodPost, "/api/v1/projects", body, 1, user.RoleUser)
	rr := httptest.NewRecorder()

	handler.Create(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, http.StatusCreated, rr.Body.String())
	}

	var resp struct {
		Success bool            `json:"success"`
		Data    project.Project `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Success || resp.Data.Name != "Fintech Onboarding" {
		t.Errorf("unexpected response: %+v", resp)
	}
	if resp.Data.CurrentPhase != 1 {
		t.Errorf("new project phase = %d, want 1", resp.Data.CurrentPhase)
	}
}

func TestProjectHandler_CreateValidation(t *testing.T) {
	_, handler := newProjectHandlerFixture(t)

	body, _ := json.Marshal(map[string]string{"name": ""})
	req := authedRequest(http.MethodPost, "/api/v1/projects", body, 1, user.RoleUser)
	rr := httptest.NewRecorder()

	handler.Create(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestProjectHandler_CreateDuplicate(t *testing.T) {
	_, handler := newProjectHandlerFixture(t)

	body, _ := json.Marshal(map[string]string{"name": "My App"})
	first := authedRequest(http.MethodPost, "/api/v1/projects", body, 1, user.RoleUser)
	rr := httptest.NewRecorder()
	handler.Create(rr, first)
	if rr.Code != http.StatusCreated {
		t.Fatalf("first create status = %d", rr.Code)
	}

	// Same name resubmitted immediately is rejected
	body2, _ := json.Marshal(map[string]string{"name": "  my app "})
	second := authedRequest(http.MethodPost, "/api/v1/projects", body2, 1, user.RoleUser)
	rr2 := httptest.NewRecorder()
	handler.Create(rr2, second)

	if rr2.Code != http.StatusConflict {
		t.Fatalf("duplicate status = %d, want %d (body %s)", rr2.Code, http.StatusConflict, rr2.Body.String())
	}
	var resp struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rr2.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Error.Code != "DUPLICATE_SUBMISSION" {
		t.Errorf("error code = %q, want DUPLICATE_SUBMISSION", resp.Error.Code)
	}
}

func TestProjectHandler_GetOwnership(t *testing.T) {
	repo, handler := newProjectHandlerFixture(t)

	p := &project.Project{UserID: 1, Name: "Owned", Status: project.StatusInProgress, CurrentPhase: 1}
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("seed project: %v", err)
	}

	tests := []struct {
		name       string
		callerID   int64
		callerRole string
		wantStatus int
	}{
		{"owner can read", 1, user.RoleUser, http.StatusOK},
		{"stranger gets not found", 2, user.RoleUser, http.StatusNotFound},
		{"admin can read", 2, user.RoleAdmin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := authedRequest(http.MethodGet, "/api/v1/projects/1", nil, tt.callerID, tt.callerRole)
			req = withURLParam(req, "id", "1")
			rr := httptest.NewRecorder()

			handler.Get(rr, req)

			if rr.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body %s)", rr.Code, tt.wantStatus, rr.Body.String())
			}
		})
	}
}

func TestProjectHandler_List(t *testing.T) {
	repo, handler := newProjectHandlerFixture(t)

	ctx := context.Background()
	for _, name := range []string{"One", "Two", "Three"} {
		if err := repo.Create(ctx, &project.Project{UserID: 1, Name: name, Status: project.StatusInProgress}); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
	if err := repo.Create(ctx, &project.Project{UserID: 9, Name: "Other", Status: project.StatusInProgress}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	req := authedRequest(http.MethodGet, "/api/v1/projects?page=1&page_size=2", nil, 1, user.RoleUser)
	rr := httptest.NewRecorder()

	handler.List(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rr.Code, rr.Body.String())
	}

	var resp struct {
		Data struct {
			Data       []project.Project `json:"data"`
			TotalItems int64             `json:"total_items"`
			TotalPages int               `json:"total_pages"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Data.Data) != 2 {
		t.Errorf("page size = %d, want 2", len(resp.Data.Data))
	}
	if resp.Data.TotalItems != 3 {
		t.Errorf("total = %d, want 3 (other users' projects must not leak)", resp.Data.TotalItems)
	}
	if resp.Data.TotalPages != 2 {
		t.Errorf("pages = %d, want 2", resp.Data.TotalPages)
	}
}
