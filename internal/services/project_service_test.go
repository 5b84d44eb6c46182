package services

import (
	"context"
	"testing"
	"time"

	"github.com/designlab-hq/designlab/internal/dedupe"
	"github.com/designlab-hq/designlab/internal/domain/project"
	"github.com/designlab-hq/designlab/internal/domain/team"
	"github.com/designlab-hq/designlab/internal/domain/user"
	"github.com/designlab-hq/designlab/internal/pkg/errors"
	"github.com/designlab-hq/designlab/internal/testutil"
)

func newProjectFixture(t *testing.T) (*testutil.MockProjectRepo, *testutil.MockTeamRepo, project.Service) {
	t.Helper()
	repo := testutil.NewMockProjectRepo()
	teams := testutil.NewMockTeamRepo()
	guard := dedupe.New(3*time.Second, 5*time.Second)
	svc := NewProjectService(repo, teams, guard, testutil.NewLogger())
	return repo, teams, svc
}

func TestProject_CreateRejectsRapidDuplicate(t *testing.T) {
	repo, _, svc := newProjectFixture(t)
	ctx := context.Background()

	if _, err := svc.Create(ctx, &project.Project{UserID: 1, Name: "My App"}); err != nil {
		t.Fatalf("first create: %v", err)
	}

	// Same name modulo whitespace and case counts as the same submission.
	_, err := svc.Create(ctx, &project.Project{UserID: 1, Name: "  my app  "})
	if err == nil {
		t.Fatal("expected duplicate rejection")
	}
	appErr, ok := err.(*errors.AppError)
	if !ok || appErr.Code != errors.ErrCodeDuplicateSubmission {
		t.Fatalf("error = %v, want DUPLICATE_SUBMISSION", err)
	}
	if len(repo.Projects) != 1 {
		t.Errorf("projects stored = %d, want 1", len(repo.Projects))
	}

	// A different user with the same name passes.
	if _, err := svc.Create(ctx, &project.Project{UserID: 2, Name: "My App"}); err != nil {
		t.Errorf("other user's create: %v", err)
	}
}

func TestProject_CreateDefaults(t *testing.T) {
	_, _, svc := newProjectFixture(t)
	p, err := svc.Create(context.Background(), &project.Project{UserID: 1, Name: "Fresh"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.Status != project.StatusInProgress || p.CurrentPhase != project.FirstPhase {
		t.Errorf("defaults = %q/%d, want in_progress/1", p.Status, p.CurrentPhase)
	}
}

func TestProject_GetAccess(t *testing.T) {
	repo, teams, svc := newProjectFixture(t)
	ctx := context.Background()

	p := &project.Project{UserID: 1, Name: "Shared"}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("seed: %v", err)
	}
	if err := teams.CreateMember(ctx, &team.Member{ProjectID: p.ID, UserID: 3, Role: team.RoleViewer}); err != nil {
		t.Fatalf("seed member: %v", err)
	}

	tests := []struct {
		name     string
		callerID int64
		role     string
		wantErr  bool
	}{
		{"owner", 1, user.RoleUser, false},
		{"admin", 99, user.RoleAdmin, false},
		{"team member", 3, user.RoleUser, false},
		{"stranger", 4, user.RoleUser, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Get(ctx, p.ID, tt.callerID, tt.role)
			if (err != nil) != tt.wantErr {
				t.Errorf("Get err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestProject_ResolveEffectiveOwner(t *testing.T) {
	repo, _, svc := newProjectFixture(t)
	ctx := context.Background()

	p := &project.Project{UserID: 7, Name: "Owned"}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("seed: %v", err)
	}

	tests := []struct {
		name      string
		callerID  int64
		role      string
		wantOwner int64
		wantErr   bool
	}{
		{"owner acts as self", 7, user.RoleUser, 7, false},
		{"admin acts as true owner", 1, user.RoleAdmin, 7, false},
		{"stranger rejected", 2, user.RoleUser, 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			owner, err := svc.ResolveEffectiveOwner(ctx, p.ID, tt.callerID, tt.role)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if owner != tt.wantOwner {
				t.Errorf("owner = %d, want %d", owner, tt.wantOwner)
			}
		})
	}
}

func TestProject_AdminDeleteUsesOwnerPath(t *testing.T) {
	repo, _, svc := newProjectFixture(t)
	ctx := context.Background()

	p := &project.Project{UserID: 7, Name: "Doomed"}
	if err := repo.Create(ctx, p); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if err := svc.Delete(ctx, p.ID, 1, user.RoleAdmin); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	if len(repo.Projects) != 0 {
		t.Errorf("project not deleted")
	}
}
