package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/designlab-hq/designlab/internal/domain/doublediamond"
	"github.com/designlab-hq/designlab/internal/domain/plan"
	"github.com/designlab-hq/designlab/internal/domain/user"
	"github.com/designlab-hq/designlab/internal/pkg/errors"
	"github.com/designlab-hq/designlab/internal/testutil"
)

type exportFixture struct {
	dd       *testutil.MockDDRepo
	projects *testutil.MockProjectRepo
	entities *testutil.MockEntityRepo
	users    *testutil.MockUserRepo
	plans    *testutil.MockPlanRepo
	svc      *ExportService
}

func newExportFixture(t *testing.T) *exportFixture {
	t.Helper()
	f := &exportFixture{
		dd:       testutil.NewMockDDRepo(),
		projects: testutil.NewMockProjectRepo(),
		entities: testutil.NewMockEntityRepo(),
		users:    testutil.NewMockUserRepo(),
		plans:    testutil.NewMockPlanRepo(),
	}
	f.svc = NewExportService(f.dd, f.projects, f.entities, f.users, f.plans, testutil.NewLogger())
	return f
}

func (f *exportFixture) seedUser(t *testing.T, role, planID string) *user.User {
	t.Helper()
	u := &user.User{Email: fmt.Sprintf("u%d@example.com", len(f.users.Users)+1), Role: role, PlanID: planID}
	if err := f.users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func (f *exportFixture) seedCompletedDD(t *testing.T, userID int64) *doublediamond.Project {
	t.Helper()
	desc := "instant bookings"
	p := &doublediamond.Project{
		UserID:      userID,
		Name:        "QuickBook journey",
		Description: &desc,
		Sector:      "services",
		DiscoverEmpathyMap: &doublediamond.EmpathyMap{
			Says: []string{"too slow"}, Thinks: []string{"must be faster"},
			Does: []string{"calls ahead"}, Feels: []string{"frustrated"},
		},
		DefinePovStatements: []doublediamond.PovStatement{
			{User: "cliente ocupado", Need: "agendar em segundos", Insight: "tempo vale mais"},
			{User: "lojista", Need: "agenda cheia", Insight: "ociosidade custa caro",
				FullStatement: "lojista precisa de agenda cheia"},
		},
		DefineHmwQuestions:   []string{"How might we book instantly?"},
		DevelopSelectedIdeas: []doublediamond.Idea{{Title: "One-tap booking", Description: "single screen", Category: "core"}},
		DeliverMvpConcept: &doublediamond.MvpConcept{
			Name:         "QuickBook",
			Description:  "Instant booking app",
			CoreFeatures: []string{"one-tap booking", "price board"},
		},
		DeliverTestPlan: &doublediamond.TestPlanDraft{
			Objectives:      []string{"validate flow", "measure drop-off"},
			Methods:         []string{"usability test", "interview"},
			Participants:    8,
			DurationMinutes: 30,
		},
		DfvDesirabilityScore: testutil.Float64Ptr(80),
		DfvFeasibilityScore:  testutil.Float64Ptr(60),
		DfvViabilityScore:    testutil.Float64Ptr(100),
		IsCompleted:          true,
	}
	if err := f.dd.Create(context.Background(), p); err != nil {
		t.Fatalf("seed dd project: %v", err)
	}
	return p
}

func TestExport_MapsAllEntities(t *testing.T) {
	f := newExportFixture(t)
	u := f.seedUser(t, user.RoleUser, plan.Pro)
	dd := f.seedCompletedDD(t, u.ID)

	result, err := f.svc.Export(context.Background(), dd.ID, "", u.ID)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	for _, step := range result.Steps {
		if !step.OK {
			t.Errorf("step %q failed: %s", step.Name, step.Error)
		}
	}

	created, err := f.projects.GetByID(context.Background(), result.ProjectID)
	if err != nil {
		t.Fatalf("created project: %v", err)
	}
	if created.Name != dd.Name {
		t.Errorf("project name = %q, want DD name fallback", created.Name)
	}
	if created.CurrentPhase != 1 || created.CompletionRate != 0 {
		t.Errorf("new project starts at phase %d / %d%%, want 1 / 0", created.CurrentPhase, created.CompletionRate)
	}

	if len(f.entities.EmpathyMaps) != 1 {
		t.Errorf("empathy maps = %d, want 1", len(f.entities.EmpathyMaps))
	}
	if len(f.entities.PovStatements) != 2 {
		t.Fatalf("pov statements = %d, want 2", len(f.entities.PovStatements))
	}
	if got := f.entities.PovStatements[0].FullStatement; got != "cliente ocupado precisa agendar em segundos porque tempo vale mais" {
		t.Errorf("synthesized full statement = %q", got)
	}
	if got := f.entities.PovStatements[1].FullStatement; got != "lojista precisa de agenda cheia" {
		t.Errorf("existing full statement = %q, want kept as-is", got)
	}

	if len(f.entities.HmwQuestions) != 1 {
		t.Fatalf("hmw questions = %d, want 1", len(f.entities.HmwQuestions))
	}
	if q := f.entities.HmwQuestions[0]; q.Scope != "product" || q.Priority != "medium" {
		t.Errorf("hmw defaults = %q/%q, want product/medium", q.Scope, q.Priority)
	}

	if len(f.entities.Ideas) != 1 {
		t.Errorf("ideas = %d, want 1 (selected ideas only)", len(f.entities.Ideas))
	}

	if len(f.entities.Prototypes) != 1 {
		t.Fatalf("prototypes = %d, want 1", len(f.entities.Prototypes))
	}
	wantDesc := "Instant booking app\n\nRecursos principais: one-tap booking, price board"
	if got := *f.entities.Prototypes[0].Description; got != wantDesc {
		t.Errorf("prototype description = %q, want %q", got, wantDesc)
	}

	if len(f.entities.TestPlans) != 1 {
		t.Fatalf("test plans = %d, want 1", len(f.entities.TestPlans))
	}
	tp := f.entities.TestPlans[0]
	if tp.Objective != "validate flow; measure drop-off" {
		t.Errorf("objective = %q, want joined objectives", tp.Objective)
	}
	if *tp.Methodology != "usability test; interview" {
		t.Errorf("methodology = %q, want joined methods", *tp.Methodology)
	}
	if tp.Participants != 8 || tp.DurationMinutes != 30 {
		t.Errorf("participants/duration = %d/%d, want 8/30", tp.Participants, tp.DurationMinutes)
	}

	if len(f.dd.Exports) != 1 {
		t.Fatalf("export rows = %d, want 1", len(f.dd.Exports))
	}
	row := f.dd.Exports[0]
	if row.Status != doublediamond.ExportStatusCompleted || row.ExportType != doublediamond.ExportTypeFull {
		t.Errorf("export row = %q/%q, want completed/full", row.Status, row.ExportType)
	}
	if row.ExportedProjectID == nil || *row.ExportedProjectID != created.ID {
		t.Errorf("export row project id = %v, want %d", row.ExportedProjectID, created.ID)
	}
}

func TestExport_DvfRescale(t *testing.T) {
	tests := []struct {
		name               string
		d, fScore, v       float64
		wantD, wantF, wantV float64
		wantOverall        float64
		wantRecommendation string
	}{
		{
			name: "proceed at boundary",
			d:    80, fScore: 60, v: 100,
			wantD: 4.0, wantF: 3.0, wantV: 5.0,
			wantOverall:        4.0,
			wantRecommendation: "proceed",
		},
		{
			name: "modify in the middle",
			d:    60, fScore: 60, v: 60,
			wantD: 3.0, wantF: 3.0, wantV: 3.0,
			wantOverall:        3.0,
			wantRecommendation: "modify",
		},
		{
			name: "stop below threshold",
			d:    40, fScore: 40, v: 40,
			wantD: 2.0, wantF: 2.0, wantV: 2.0,
			wantOverall:        2.0,
			wantRecommendation: "stop",
		},
		{
			name: "one decimal rounding",
			d:    85, fScore: 85, v: 85,
			wantD: 4.3, wantF: 4.3, wantV: 4.3,
			wantOverall:        4.3,
			wantRecommendation: "proceed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newExportFixture(t)
			u := f.seedUser(t, user.RoleUser, plan.Pro)
			dd := f.seedCompletedDD(t, u.ID)

			stored, _ := f.dd.GetForUser(context.Background(), dd.ID, u.ID)
			stored.DfvDesirabilityScore = &tt.d
			stored.DfvFeasibilityScore = &tt.fScore
			stored.DfvViabilityScore = &tt.v
			if err := f.dd.Update(context.Background(), stored); err != nil {
				t.Fatalf("seed update: %v", err)
			}

			if _, err := f.svc.Export(context.Background(), dd.ID, "", u.ID); err != nil {
				t.Fatalf("Export: %v", err)
			}

			if len(f.entities.DvfAssessments) != 1 {
				t.Fatalf("dvf assessments = %d, want 1", len(f.entities.DvfAssessments))
			}
			a := f.entities.DvfAssessments[0]
			if a.Desirability != tt.wantD || a.Feasibility != tt.wantF || a.Viability != tt.wantV {
				t.Errorf("scores = %v/%v/%v, want %v/%v/%v",
					a.Desirability, a.Feasibility, a.Viability, tt.wantD, tt.wantF, tt.wantV)
			}
			if a.OverallScore != tt.wantOverall {
				t.Errorf("overall = %v, want %v", a.OverallScore, tt.wantOverall)
			}
			if a.Recommendation != tt.wantRecommendation {
				t.Errorf("recommendation = %q, want %q", a.Recommendation, tt.wantRecommendation)
			}
		})
	}
}

func TestExport_DvfSkippedWhenScoresMissing(t *testing.T) {
	f := newExportFixture(t)
	u := f.seedUser(t, user.RoleUser, plan.Pro)
	dd := f.seedCompletedDD(t, u.ID)

	stored, _ := f.dd.GetForUser(context.Background(), dd.ID, u.ID)
	stored.DfvViabilityScore = nil
	if err := f.dd.Update(context.Background(), stored); err != nil {
		t.Fatalf("seed update: %v", err)
	}

	result, err := f.svc.Export(context.Background(), dd.ID, "", u.ID)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if len(f.entities.DvfAssessments) != 0 {
		t.Errorf("dvf assessments = %d, want 0 with incomplete scores", len(f.entities.DvfAssessments))
	}
	for _, step := range result.Steps {
		if step.Name == "dvf_assessment" && !step.OK {
			t.Errorf("skipping DVF is not a failure: %s", step.Error)
		}
	}
}

func TestExport_TestPlanDefaults(t *testing.T) {
	f := newExportFixture(t)
	u := f.seedUser(t, user.RoleUser, plan.Pro)
	dd := f.seedCompletedDD(t, u.ID)

	stored, _ := f.dd.GetForUser(context.Background(), dd.ID, u.ID)
	stored.DeliverTestPlan = &doublediamond.TestPlanDraft{
		Objectives: []string{"validate"},
		Methods:    []string{"test"},
		// zero values as left by tolerant decoding of malformed counts
		Participants:    0,
		DurationMinutes: 0,
	}
	if err := f.dd.Update(context.Background(), stored); err != nil {
		t.Fatalf("seed update: %v", err)
	}

	if _, err := f.svc.Export(context.Background(), dd.ID, "", u.ID); err != nil {
		t.Fatalf("Export: %v", err)
	}
	tp := f.entities.TestPlans[0]
	if tp.Participants != 5 || tp.DurationMinutes != 60 {
		t.Errorf("defaults = %d/%d, want 5/60", tp.Participants, tp.DurationMinutes)
	}
}

func TestExport_PartialFailureStillSucceeds(t *testing.T) {
	f := newExportFixture(t)
	u := f.seedUser(t, user.RoleUser, plan.Pro)
	dd := f.seedCompletedDD(t, u.ID)

	f.entities.FailOn["CreateTestPlan"] = fmt.Errorf("malformed test plan payload")

	result, err := f.svc.Export(context.Background(), dd.ID, "", u.ID)
	if err != nil {
		t.Fatalf("Export must succeed despite a soft step failure: %v", err)
	}

	var sawFailure bool
	for _, step := range result.Steps {
		if step.Name == "test_plan" {
			sawFailure = !step.OK
		} else if !step.OK {
			t.Errorf("unexpected failed step %q: %s", step.Name, step.Error)
		}
	}
	if !sawFailure {
		t.Error("test_plan step not reported as failed")
	}

	// Everything else landed.
	if len(f.entities.PovStatements) != 2 || len(f.entities.Prototypes) != 1 {
		t.Errorf("other entities dropped with the failing step")
	}
	if len(f.dd.Exports) != 1 {
		t.Errorf("export row missing after partial failure")
	}
}

func TestExport_CeilingEnforced(t *testing.T) {
	f := newExportFixture(t)
	u := f.seedUser(t, user.RoleUser, plan.Free)
	dd := f.seedCompletedDD(t, u.ID)
	ctx := context.Background()

	// Free plan allows 2 exports per month.
	for i := 0; i < 2; i++ {
		if _, err := f.svc.Export(ctx, dd.ID, "", u.ID); err != nil {
			t.Fatalf("export %d: %v", i+1, err)
		}
	}

	_, err := f.svc.Export(ctx, dd.ID, "", u.ID)
	if err == nil {
		t.Fatal("expected ceiling rejection on third export")
	}
	appErr, ok := err.(*errors.AppError)
	if !ok || appErr.Code != errors.ErrCodeLimitExceeded {
		t.Fatalf("error = %v, want LIMIT_EXCEEDED", err)
	}
	details, _ := appErr.Details.(map[string]interface{})
	if details["upgrade_required"] != true {
		t.Errorf("details = %v, want upgrade_required", appErr.Details)
	}
}

func TestExport_CeilingResetsNextMonth(t *testing.T) {
	f := newExportFixture(t)
	u := f.seedUser(t, user.RoleUser, plan.Free)
	dd := f.seedCompletedDD(t, u.ID)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := f.svc.Export(ctx, dd.ID, "", u.ID); err != nil {
			t.Fatalf("export %d: %v", i+1, err)
		}
	}

	f.svc.now = func() time.Time { return time.Now().AddDate(0, 1, 0) }
	if _, err := f.svc.Export(ctx, dd.ID, "", u.ID); err != nil {
		t.Fatalf("export in next month: %v", err)
	}
}

func TestExport_AdminBypassesCeiling(t *testing.T) {
	f := newExportFixture(t)
	admin := f.seedUser(t, user.RoleAdmin, plan.Free)
	dd := f.seedCompletedDD(t, admin.ID)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		if _, err := f.svc.Export(ctx, dd.ID, "", admin.ID); err != nil {
			t.Fatalf("admin export %d: %v", i+1, err)
		}
	}
}

func TestExport_CustomOverrideRaisesCeiling(t *testing.T) {
	f := newExportFixture(t)
	u := f.seedUser(t, user.RoleUser, plan.Free)
	dd := f.seedCompletedDD(t, u.ID)
	ctx := context.Background()

	f.users.Users[u.ID].CustomMaxDoubleDiamondExports = testutil.IntPtr(4)

	for i := 0; i < 4; i++ {
		if _, err := f.svc.Export(ctx, dd.ID, "", u.ID); err != nil {
			t.Fatalf("export %d under override: %v", i+1, err)
		}
	}
	if _, err := f.svc.Export(ctx, dd.ID, "", u.ID); err == nil {
		t.Fatal("expected rejection past the override ceiling")
	}
}

func TestExport_CustomName(t *testing.T) {
	f := newExportFixture(t)
	u := f.seedUser(t, user.RoleUser, plan.Pro)
	dd := f.seedCompletedDD(t, u.ID)

	result, err := f.svc.Export(context.Background(), dd.ID, "  Renamed Project  ", u.ID)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	created, _ := f.projects.GetByID(context.Background(), result.ProjectID)
	if created.Name != "Renamed Project" {
		t.Errorf("name = %q, want trimmed requested name", created.Name)
	}
}

func TestExport_ForeignProjectRejected(t *testing.T) {
	f := newExportFixture(t)
	owner := f.seedUser(t, user.RoleUser, plan.Pro)
	other := f.seedUser(t, user.RoleUser, plan.Pro)
	dd := f.seedCompletedDD(t, owner.ID)

	_, err := f.svc.Export(context.Background(), dd.ID, "", other.ID)
	if err == nil {
		t.Fatal("expected not found for foreign caller")
	}
	appErr, ok := err.(*errors.AppError)
	if !ok || appErr.Code != errors.ErrCodeNotFound {
		t.Fatalf("error = %v, want NOT_FOUND", err)
	}
	if len(f.projects.Projects) != 0 {
		t.Errorf("project shell created despite ownership failure")
	}
}
