package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/designlab-hq/designlab/internal/dedupe"
	"github.com/designlab-hq/designlab/internal/domain/project"
	"github.com/designlab-hq/designlab/internal/domain/user"
	"github.com/designlab-hq/designlab/internal/pkg/validator"
	"github.com/designlab-hq/designlab/internal/services"
	"github.com/designlab-hq/designlab/internal/testutil"
)

func newEntityHandlerFixture(t *testing.T) (*testutil.MockProjectRepo, *testutil.MockEntityRepo, *EntityHandler) {
	t.Helper()
	projects := testutil.NewMockProjectRepo()
	entities := testutil.NewMockEntityRepo()
	teams := testutil.NewMockTeamRepo()
	guard := dedupe.New(3*time.Second, time.Minute)
	svc := services.NewProjectService(projects, teams, guard, testutil.NewLogger())
	handler := NewEntityHandler(svc, entities, testutil.NewLogger(), validator.New())
	return projects, entities, handler
}

func seedProject(t *testing.T, repo *testutil.MockProjectRepo, ownerID int64) *project.Project {
	t.Helper()
	p := &project.Project{UserID: ownerID, Name: "Seed", Status: project.StatusInProgress, CurrentPhase: 1}
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("seed project: %v", err)
	}
	return p
}

func TestEntityHandler_CreatePersona(t *testing.T) {
	projects, _, handler := newEntityHandlerFixture(t)
	p := seedProject(t, projects, 1)

	body, _ := json.Marshal(map[string]interface{}{
		"name":       "Ana, 34",
		"occupation": "Product manager",
		"goals":      []string{"ship faster"},
	})
	req := authedRequest(http.MethodPost, "/api/v1/projects/1/personas", body, 1, user.RoleUser)
	req = withURLParam(req, "id", "1")
	rr := httptest.NewRecorder()

	handler.CreatePersona(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("status = %d (body %s)", rr.Code, rr.Body.String())
	}

	var resp struct {
		Data project.Persona `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Data.ProjectID != p.ID {
		t.Errorf("persona project = %d, want %d", resp.Data.ProjectID, p.ID)
	}
}

func TestEntityHandler_CreatePersonaRejectsStranger(t *testing.T) {
	projects, _, handler := newEntityHandlerFixture(t)
	seedProject(t, projects, 1)

	body, _ := json.Marshal(map[string]string{"name": "Ana"})
	req := authedRequest(http.MethodPost, "/api/v1/projects/1/personas", body, 7, user.RoleUser)
	req = withURLParam(req, "id", "1")
	rr := httptest.NewRecorder()

	handler.CreatePersona(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusNotFound)
	}
}

func TestEntityHandler_DvfDerivation(t *testing.T) {
	tests := []struct {
		name        string
		d, f, v     float64
		wantOverall float64
		wantRec     string
	}{
		{"high scores proceed", 4, 4, 5, 4.3, project.RecommendProceed},
		{"boundary proceeds at four", 4, 4, 4, 4.0, project.RecommendProceed},
		{"middling modifies", 3, 3, 3, 3.0, project.RecommendModify},
		{"just under stop threshold", 2, 2, 3, 2.3, project.RecommendStop},
		{"low scores stop", 1, 2, 2, 1.7, project.RecommendStop},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			projects, _, handler := newEntityHandlerFixture(t)
			seedProject(t, projects, 1)

			body, _ := json.Marshal(map[string]interface{}{
				"item_name":    "Concierge MVP",
				"desirability": tt.d,
				"feasibility":  tt.f,
				"viability":    tt.v,
			})
			req := authedRequest(http.MethodPost, "/api/v1/projects/1/dvf-assessments", body, 1, user.RoleUser)
			req = withURLParam(req, "id", "1")
			rr := httptest.NewRecorder()

			handler.CreateDvfAssessment(rr, req)

			if rr.Code != http.StatusCreated {
				t.Fatalf("status = %d (body %s)", rr.Code, rr.Body.String())
			}

			var resp struct {
				Data project.DvfAssessment `json:"data"`
			}
			if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if resp.Data.OverallScore != tt.wantOverall {
				t.Errorf("overall = %v, want %v", resp.Data.OverallScore, tt.wantOverall)
			}
			if resp.Data.Recommendation != tt.wantRec {
				t.Errorf("recommendation = %q, want %q", resp.Data.Recommendation, tt.wantRec)
			}
		})
	}
}

func TestEntityHandler_DeleteMissingEntity(t *testing.T) {
	projects, _, handler := newEntityHandlerFixture(t)
	seedProject(t, projects, 1)

	req := authedRequest(http.MethodDelete, "/api/v1/projects/1/personas/99", nil, 1, user.RoleUser)
	req = withURLParam(req, "id", "1")
	req = withURLParam(req, "entityID", "99")
	rr := httptest.NewRecorder()

	handler.DeletePersona(rr, req)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d (body %s)", rr.Code, http.StatusNotFound, rr.Body.String())
	}
}
