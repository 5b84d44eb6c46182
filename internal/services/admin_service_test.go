package services

import (
	"context"
	"testing"
	"time"

	"github.com/designlab-hq/designlab/internal/domain/doublediamond"
	"github.com/designlab-hq/designlab/internal/domain/plan"
	"github.com/designlab-hq/designlab/internal/domain/project"
	"github.com/designlab-hq/designlab/internal/domain/user"
	"github.com/designlab-hq/designlab/internal/testutil"
)

type adminFixture struct {
	users    *testutil.MockUserRepo
	plans    *testutil.MockPlanRepo
	projects *testutil.MockProjectRepo
	dd       *testutil.MockDDRepo
	svc      *AdminService
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()
	f := &adminFixture{
		users:    testutil.NewMockUserRepo(),
		plans:    testutil.NewMockPlanRepo(),
		projects: testutil.NewMockProjectRepo(),
		dd:       testutil.NewMockDDRepo(),
	}
	f.svc = NewAdminService(f.users, f.plans, f.projects, f.dd, testutil.NewLogger())
	return f
}

func TestAdmin_Dashboard(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	for i, planID := range []string{plan.Free, plan.Free, plan.Pro} {
		u := &user.User{Email: string(rune('a'+i)) + "@example.com", PlanID: planID}
		if err := f.users.Create(ctx, u); err != nil {
			t.Fatalf("seed user: %v", err)
		}
	}
	for _, st := range []string{project.StatusInProgress, project.StatusInProgress, project.StatusCompleted} {
		if err := f.projects.Create(ctx, &project.Project{UserID: 1, Name: st, Status: st, CurrentPhase: 2}); err != nil {
			t.Fatalf("seed project: %v", err)
		}
	}
	if err := f.dd.Create(ctx, &doublediamond.Project{UserID: 1, Name: "dd", CurrentPhase: doublediamond.PhaseDefine}); err != nil {
		t.Fatalf("seed dd: %v", err)
	}
	if err := f.dd.CreateExport(ctx, &doublediamond.Export{
		UserID: 1, DoubleDiamondProjectID: 1,
		Status: doublediamond.ExportStatusCompleted, ExportType: doublediamond.ExportTypeFull,
		CreatedAt: time.Now().Add(-24 * time.Hour),
	}); err != nil {
		t.Fatalf("seed export: %v", err)
	}
	if err := f.dd.CreateExport(ctx, &doublediamond.Export{
		UserID: 1, DoubleDiamondProjectID: 1,
		Status: doublediamond.ExportStatusCompleted, ExportType: doublediamond.ExportTypeFull,
		CreatedAt: time.Now().AddDate(0, 0, -40),
	}); err != nil {
		t.Fatalf("seed old export: %v", err)
	}

	d, err := f.svc.GetDashboard(ctx)
	if err != nil {
		t.Fatalf("GetDashboard: %v", err)
	}
	if d.UsersByPlan[plan.Free] != 2 || d.UsersByPlan[plan.Pro] != 1 {
		t.Errorf("users by plan = %v", d.UsersByPlan)
	}
	if d.ProjectsByStatus[project.StatusInProgress] != 2 {
		t.Errorf("projects by status = %v", d.ProjectsByStatus)
	}
	if d.ProjectsByPhase[2] != 3 {
		t.Errorf("projects by phase = %v", d.ProjectsByPhase)
	}
	if d.DoubleDiamondsByPhase[doublediamond.PhaseDefine] != 1 {
		t.Errorf("dd by phase = %v", d.DoubleDiamondsByPhase)
	}
	if d.ExportsLast30Days != 1 {
		t.Errorf("exports last 30 days = %d, want 1 (old export excluded)", d.ExportsLast30Days)
	}
}

func TestAdmin_GrantAddon(t *testing.T) {
	f := newAdminFixture(t)
	ctx := context.Background()

	u := &user.User{Email: "grantee@example.com", PlanID: plan.Free}
	if err := f.users.Create(ctx, u); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	t.Run("bounded grant", func(t *testing.T) {
		addon, err := f.svc.GrantAddon(ctx, u.ID, GrantAddonRequest{AddonKey: plan.AddonExportPro, Days: 30})
		if err != nil {
			t.Fatalf("GrantAddon: %v", err)
		}
		if addon.Source != plan.AddonSourceAdmin {
			t.Errorf("source = %q, want admin", addon.Source)
		}
		if addon.PeriodEnd == nil {
			t.Fatal("bounded grant has nil period end")
		}
		if !addon.ActiveAt(time.Now()) {
			t.Error("fresh grant not active")
		}
		if addon.ActiveAt(time.Now().AddDate(0, 0, 31)) {
			t.Error("grant active past its period end")
		}
	})

	t.Run("open-ended grant", func(t *testing.T) {
		addon, err := f.svc.GrantAddon(ctx, u.ID, GrantAddonRequest{AddonKey: plan.AddonAITurbo})
		if err != nil {
			t.Fatalf("GrantAddon: %v", err)
		}
		if addon.PeriodEnd != nil {
			t.Errorf("period end = %v, want nil", addon.PeriodEnd)
		}
	})

	t.Run("unknown key rejected", func(t *testing.T) {
		if _, err := f.svc.GrantAddon(ctx, u.ID, GrantAddonRequest{AddonKey: "not_a_key"}); err == nil {
			t.Error("expected rejection of unknown addon key")
		}
	})

	t.Run("revoke", func(t *testing.T) {
		addon, err := f.svc.GrantAddon(ctx, u.ID, GrantAddonRequest{AddonKey: plan.AddonCollabAdvanced})
		if err != nil {
			t.Fatalf("GrantAddon: %v", err)
		}
		if err := f.svc.RevokeAddon(ctx, addon.ID); err != nil {
			t.Fatalf("RevokeAddon: %v", err)
		}
		addons, _ := f.svc.ListUserAddons(ctx, u.ID)
		for _, a := range addons {
			if a.ID == addon.ID && a.Status != plan.AddonStatusCanceled {
				t.Errorf("revoked addon status = %q", a.Status)
			}
		}
	})
}
