package services

import (
	"context"
	"testing"
	"time"

	"github.com/designlab-hq/designlab/internal/domain/plan"
	"github.com/designlab-hq/designlab/internal/domain/user"
	"github.com/designlab-hq/designlab/internal/testutil"
)

func TestUser_SetCustomLimits(t *testing.T) {
	repo := testutil.NewMockUserRepo()
	svc := NewUserService(repo, testutil.NewLogger())
	ctx := context.Background()

	u := &user.User{Email: "limits@example.com", PlanID: plan.Free}
	if err := repo.Create(ctx, u); err != nil {
		t.Fatalf("seed: %v", err)
	}

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return base }

	t.Run("trial days become an end date", func(t *testing.T) {
		err := svc.SetCustomLimits(ctx, u.ID, user.CustomLimits{
			MaxProjects: testutil.IntPtr(50),
		}, 14)
		if err != nil {
			t.Fatalf("SetCustomLimits: %v", err)
		}
		got, _ := svc.GetCustomLimits(ctx, u.ID)
		if got.MaxProjects == nil || *got.MaxProjects != 50 {
			t.Errorf("max projects = %v, want 50", got.MaxProjects)
		}
		want := base.AddDate(0, 0, 14)
		if got.TrialEndsAt == nil || !got.TrialEndsAt.Equal(want) {
			t.Errorf("trial ends = %v, want %v", got.TrialEndsAt, want)
		}
	})

	t.Run("zero trial days leaves override permanent", func(t *testing.T) {
		err := svc.SetCustomLimits(ctx, u.ID, user.CustomLimits{
			AIChatLimit: testutil.IntPtr(100),
		}, 0)
		if err != nil {
			t.Fatalf("SetCustomLimits: %v", err)
		}
		got, _ := svc.GetCustomLimits(ctx, u.ID)
		if got.TrialEndsAt != nil {
			t.Errorf("trial ends = %v, want nil (permanent)", got.TrialEndsAt)
		}
		if got.MaxProjects != nil {
			t.Errorf("max projects = %v, want cleared by full replace", got.MaxProjects)
		}
	})

	t.Run("unknown user rejected", func(t *testing.T) {
		if err := svc.SetCustomLimits(ctx, 9999, user.CustomLimits{}, 0); err == nil {
			t.Error("expected not found")
		}
	})
}

func TestUser_ClearExpiredCustomLimits(t *testing.T) {
	repo := testutil.NewMockUserRepo()
	ctx := context.Background()

	expired := &user.User{Email: "expired@example.com", PlanID: plan.Free}
	active := &user.User{Email: "active@example.com", PlanID: plan.Free}
	permanent := &user.User{Email: "permanent@example.com", PlanID: plan.Free}
	for _, u := range []*user.User{expired, active, permanent} {
		if err := repo.Create(ctx, u); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	past := time.Now().Add(-time.Hour)
	future := time.Now().Add(time.Hour)
	repo.Users[expired.ID].CustomMaxProjects = testutil.IntPtr(5)
	repo.Users[expired.ID].CustomLimitsTrialEndsAt = &past
	repo.Users[active.ID].CustomMaxProjects = testutil.IntPtr(5)
	repo.Users[active.ID].CustomLimitsTrialEndsAt = &future
	repo.Users[permanent.ID].CustomMaxProjects = testutil.IntPtr(5)

	n, err := repo.ClearExpiredCustomLimits(ctx, time.Now())
	if err != nil {
		t.Fatalf("ClearExpiredCustomLimits: %v", err)
	}
	if n != 1 {
		t.Errorf("cleared = %d, want 1", n)
	}
	if repo.Users[expired.ID].CustomMaxProjects != nil {
		t.Error("expired override not cleared")
	}
	if repo.Users[active.ID].CustomMaxProjects == nil {
		t.Error("active trial override cleared")
	}
	if repo.Users[permanent.ID].CustomMaxProjects == nil {
		t.Error("permanent override cleared")
	}
}
