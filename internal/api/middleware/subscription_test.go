package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/designlab-hq/designlab/internal/domain/doublediamond"
	"github.com/designlab-hq/designlab/internal/domain/project"
	"github.com/designlab-hq/designlab/internal/domain/user"
	"github.com/designlab-hq/designlab/internal/testutil"
)

func ddProjectFor(userID int64) *doublediamond.Project {
	return &doublediamond.Project{UserID: userID, Name: "dd", Sector: "saude", Language: "pt-BR"}
}

type guardFixture struct {
	users    *testutil.MockUserRepo
	plans    *testutil.MockPlanRepo
	projects *testutil.MockProjectRepo
	entities *testutil.MockEntityRepo
	dd       *testutil.MockDDRepo
	guard    *SubscriptionGuard
}

func newGuardFixture() *guardFixture {
	f := &guardFixture{
		users:    testutil.NewMockUserRepo(),
		plans:    testutil.NewMockPlanRepo(),
		projects: testutil.NewMockProjectRepo(),
		entities: testutil.NewMockEntityRepo(),
		dd:       testutil.NewMockDDRepo(),
	}
	f.guard = NewSubscriptionGuard(f.users, f.plans, f.projects, f.entities, f.dd, testutil.NewLogger())
	return f
}

func (f *guardFixture) seedUser(t *testing.T, planID, role string) *user.User {
	t.Helper()
	u := &user.User{
		Email:        planID + "-" + role + "@example.com",
		Username:     planID + role,
		PasswordHash: "x",
		Role:         role,
		PlanID:       planID,
	}
	if err := f.users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func authedRequest(userID int64, role string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/projects", nil)
	ctx := context.WithValue(r.Context(), UserIDKey, userID)
	ctx = context.WithValue(ctx, UserRoleKey, role)
	return r.WithContext(ctx)
}

func runGuard(mw func(http.Handler) http.Handler, r *http.Request) (*httptest.ResponseRecorder, *bool) {
	reached := false
	handler := mw(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
		w.WriteHeader(http.StatusCreated)
	}))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, r)
	return rec, &reached
}

func decodeGuardRejection(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code    string                 `json:"code"`
			Message string                 `json:"message"`
			Details map[string]interface{} `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Success {
		t.Fatal("expected success=false")
	}
	if body.Error.Code != "LIMIT_EXCEEDED" {
		t.Fatalf("code = %s, want LIMIT_EXCEEDED", body.Error.Code)
	}
	return body.Error.Details
}

func TestGuard_ProjectSlotAtCeiling(t *testing.T) {
	f := newGuardFixture()
	u := f.seedUser(t, "free", "user")

	// free allows 1 project; seed one
	f.projects.Create(context.Background(), &project.Project{UserID: u.ID, Name: "existing"})

	rec, reached := runGuard(f.guard.RequireProjectSlot, authedRequest(u.ID, u.Role))

	if *reached {
		t.Fatal("handler ran despite ceiling")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	details := decodeGuardRejection(t, rec)
	if details["upgrade_required"] != true {
		t.Fatal("expected upgrade_required flag")
	}
	if details["limit"] != float64(1) {
		t.Fatalf("limit = %v, want 1", details["limit"])
	}
}

func TestGuard_ProjectSlotUnderCeiling(t *testing.T) {
	f := newGuardFixture()
	u := f.seedUser(t, "pro", "user")

	rec, reached := runGuard(f.guard.RequireProjectSlot, authedRequest(u.ID, u.Role))

	if !*reached {
		t.Fatal("handler did not run")
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
}

func TestGuard_AdminBypassesProjectCeiling(t *testing.T) {
	f := newGuardFixture()
	u := f.seedUser(t, "free", "admin")
	f.projects.Create(context.Background(), &project.Project{UserID: u.ID, Name: "existing"})

	_, reached := runGuard(f.guard.RequireProjectSlot, authedRequest(u.ID, u.Role))

	if !*reached {
		t.Fatal("admin should bypass the ceiling")
	}
}

func TestGuard_CustomOverrideRaisesProjectCeiling(t *testing.T) {
	f := newGuardFixture()
	u := f.seedUser(t, "free", "user")
	f.users.UpdateCustomLimits(context.Background(), u.ID, user.CustomLimits{
		MaxProjects: testutil.IntPtr(5),
	})
	f.projects.Create(context.Background(), &project.Project{UserID: u.ID, Name: "existing"})

	_, reached := runGuard(f.guard.RequireProjectSlot, authedRequest(u.ID, u.Role))

	if !*reached {
		t.Fatal("override should raise the ceiling above current usage")
	}
}

func TestGuard_DoubleDiamondSlot(t *testing.T) {
	f := newGuardFixture()
	u := f.seedUser(t, "free", "user")

	// free allows 1 DD project
	_, reached := runGuard(f.guard.RequireDoubleDiamondSlot, authedRequest(u.ID, u.Role))
	if !*reached {
		t.Fatal("first project should pass")
	}

	f.dd.Create(context.Background(), ddProjectFor(u.ID))

	rec, reached := runGuard(f.guard.RequireDoubleDiamondSlot, authedRequest(u.ID, u.Role))
	if *reached {
		t.Fatal("second project should be rejected")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	decodeGuardRejection(t, rec)
}

func TestGuard_CollaborationGate(t *testing.T) {
	f := newGuardFixture()

	free := f.seedUser(t, "free", "user")
	rec, reached := runGuard(f.guard.RequireCollaboration, authedRequest(free.ID, free.Role))
	if *reached {
		t.Fatal("free plan should not have collaboration")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}
	details := decodeGuardRejection(t, rec)
	if _, hasLimit := details["limit"]; hasLimit {
		t.Fatal("feature gate rejection should carry no numeric limit")
	}

	pro := f.seedUser(t, "pro", "user")
	_, reached = runGuard(f.guard.RequireCollaboration, authedRequest(pro.ID, pro.Role))
	if !*reached {
		t.Fatal("pro plan includes collaboration")
	}
}

func TestGuard_PersonaSlotScopedToProject(t *testing.T) {
	f := newGuardFixture()
	u := f.seedUser(t, "free", "user")

	p := &project.Project{UserID: u.ID, Name: "personas"}
	f.projects.Create(context.Background(), p)

	// free allows 3 personas per project
	for i := 0; i < 3; i++ {
		f.entities.CreatePersona(context.Background(), &project.Persona{
			ProjectID: p.ID, Name: "p" + strconv.Itoa(i),
		})
	}

	r := authedRequest(u.ID, u.Role)
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", strconv.FormatInt(p.ID, 10))
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

	rec, reached := runGuard(f.guard.RequirePersonaSlot, r)
	if *reached {
		t.Fatal("fourth persona should be rejected")
	}
	if rec.Code != http.StatusForbidden {
		t.Fatalf("status = %d, want 403", rec.Code)
	}

	// a different project is unaffected
	p2 := &project.Project{UserID: u.ID, Name: "fresh"}
	f.projects.Create(context.Background(), p2)

	r2 := authedRequest(u.ID, u.Role)
	rctx2 := chi.NewRouteContext()
	rctx2.URLParams.Add("id", strconv.FormatInt(p2.ID, 10))
	r2 = r2.WithContext(context.WithValue(r2.Context(), chi.RouteCtxKey, rctx2))

	_, reached = runGuard(f.guard.RequirePersonaSlot, r2)
	if !*reached {
		t.Fatal("fresh project should accept personas")
	}
}

func TestGuard_MissingIdentityRejected(t *testing.T) {
	f := newGuardFixture()

	r := httptest.NewRequest(http.MethodPost, "/projects", nil)
	rec, reached := runGuard(f.guard.RequireProjectSlot, r)

	if *reached {
		t.Fatal("handler ran without identity")
	}
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}
