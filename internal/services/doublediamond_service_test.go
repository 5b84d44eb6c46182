package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/designlab-hq/designlab/internal/domain/doublediamond"
	"github.com/designlab-hq/designlab/internal/pkg/errors"
	"github.com/designlab-hq/designlab/internal/testutil"
)

func newDDFixture(t *testing.T) (*testutil.MockDDRepo, *testutil.ScriptedGenerator, doublediamond.Service) {
	t.Helper()
	repo := testutil.NewMockDDRepo()
	gen := testutil.NewScriptedGenerator()
	svc := NewDoubleDiamondService(repo, gen, testutil.NewLogger())
	return repo, gen, svc
}

func seedDDProject(t *testing.T, svc doublediamond.Service, userID int64) *doublediamond.Project {
	t.Helper()
	p, err := svc.Create(context.Background(), &doublediamond.Project{
		UserID: userID,
		Name:   "Pet grooming marketplace",
		Sector: "pet services",
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return p
}

func TestDoubleDiamond_CreateInitializesDiscover(t *testing.T) {
	_, _, svc := newDDFixture(t)
	p := seedDDProject(t, svc, 1)

	if p.CurrentPhase != doublediamond.PhaseDiscover {
		t.Errorf("current phase = %q, want discover", p.CurrentPhase)
	}
	if p.DiscoverStatus != doublediamond.StatusInProgress {
		t.Errorf("discover status = %q, want in_progress", p.DiscoverStatus)
	}
	if p.DefineStatus != doublediamond.StatusPending {
		t.Errorf("define status = %q, want pending", p.DefineStatus)
	}
	if p.CompletionPercentage != 0 {
		t.Errorf("completion = %d, want 0", p.CompletionPercentage)
	}
	if p.Language != "pt-BR" {
		t.Errorf("language = %q, want pt-BR default", p.Language)
	}
}

func TestDoubleDiamond_FullPipeline(t *testing.T) {
	repo, _, svc := newDDFixture(t)
	p := seedDDProject(t, svc, 1)
	ctx := context.Background()

	p, err := svc.GenerateDiscover(ctx, p.ID, 1, doublediamond.DiscoverRequest{})
	if err != nil {
		t.Fatalf("GenerateDiscover: %v", err)
	}
	if p.CurrentPhase != doublediamond.PhaseDefine || p.CompletionPercentage != 25 {
		t.Errorf("after discover: phase=%q completion=%d, want define/25", p.CurrentPhase, p.CompletionPercentage)
	}
	if p.DiscoverStatus != doublediamond.StatusCompleted {
		t.Errorf("discover status = %q, want completed", p.DiscoverStatus)
	}

	p, err = svc.GenerateDefine(ctx, p.ID, 1)
	if err != nil {
		t.Fatalf("GenerateDefine: %v", err)
	}
	if p.CurrentPhase != doublediamond.PhaseDevelop || p.CompletionPercentage != 50 {
		t.Errorf("after define: phase=%q completion=%d, want develop/50", p.CurrentPhase, p.CompletionPercentage)
	}

	p, err = svc.GenerateDevelop(ctx, p.ID, 1)
	if err != nil {
		t.Fatalf("GenerateDevelop: %v", err)
	}
	if p.CurrentPhase != doublediamond.PhaseDeliver || p.CompletionPercentage != 75 {
		t.Errorf("after develop: phase=%q completion=%d, want deliver/75", p.CurrentPhase, p.CompletionPercentage)
	}

	p, err = svc.GenerateDeliver(ctx, p.ID, 1)
	if err != nil {
		t.Fatalf("GenerateDeliver: %v", err)
	}
	if !p.IsCompleted || p.CompletionPercentage != 100 {
		t.Errorf("after deliver: completed=%v completion=%d, want true/100", p.IsCompleted, p.CompletionPercentage)
	}

	p, err = svc.GenerateDFV(ctx, p.ID, 1)
	if err != nil {
		t.Fatalf("GenerateDFV: %v", err)
	}
	if p.DfvDesirabilityScore == nil || *p.DfvDesirabilityScore != 80 {
		t.Errorf("dfv desirability = %v, want 80", p.DfvDesirabilityScore)
	}
	if p.GenerationCount != 5 {
		t.Errorf("generation count = %d, want 5", p.GenerationCount)
	}

	stored, err := repo.GetForUser(ctx, p.ID, 1)
	if err != nil {
		t.Fatalf("GetForUser: %v", err)
	}
	if stored.GenerationCount != 5 {
		t.Errorf("stored generation count = %d, want 5", stored.GenerationCount)
	}
}

func TestDoubleDiamond_PhaseOrderEnforced(t *testing.T) {
	tests := []struct {
		name    string
		run     func(ctx context.Context, svc doublediamond.Service, id int64) error
		missing string
	}{
		{
			name: "define without discover",
			run: func(ctx context.Context, svc doublediamond.Service, id int64) error {
				_, err := svc.GenerateDefine(ctx, id, 1)
				return err
			},
			missing: "discover_pain_points",
		},
		{
			name: "develop without define",
			run: func(ctx context.Context, svc doublediamond.Service, id int64) error {
				_, err := svc.GenerateDevelop(ctx, id, 1)
				return err
			},
			missing: "define_selected_pov",
		},
		{
			name: "deliver without develop",
			run: func(ctx context.Context, svc doublediamond.Service, id int64) error {
				_, err := svc.GenerateDeliver(ctx, id, 1)
				return err
			},
			missing: "develop_selected_ideas",
		},
		{
			name: "dfv without deliver",
			run: func(ctx context.Context, svc doublediamond.Service, id int64) error {
				_, err := svc.GenerateDFV(ctx, id, 1)
				return err
			},
			missing: "deliver_mvp_concept",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, gen, svc := newDDFixture(t)
			p := seedDDProject(t, svc, 1)
			updatesBefore := repo.UpdateCalls

			err := tt.run(context.Background(), svc, p.ID)
			if err == nil {
				t.Fatal("expected precondition error, got nil")
			}
			appErr, ok := err.(*errors.AppError)
			if !ok || appErr.Code != errors.ErrCodePreconditionFailed {
				t.Fatalf("error = %v, want PRECONDITION_FAILED", err)
			}
			details, _ := appErr.Details.(map[string]interface{})
			if details["missing"] != tt.missing {
				t.Errorf("missing = %v, want %q", details["missing"], tt.missing)
			}
			if len(gen.Calls) != 0 {
				t.Errorf("generator called %v, want no calls", gen.Calls)
			}
			if repo.UpdateCalls != updatesBefore {
				t.Errorf("project persisted on precondition failure")
			}
		})
	}
}

func TestDoubleDiamond_GeneratorFailureNothingPersisted(t *testing.T) {
	repo, gen, svc := newDDFixture(t)
	p := seedDDProject(t, svc, 1)
	ctx := context.Background()

	if _, err := svc.GenerateDiscover(ctx, p.ID, 1, doublediamond.DiscoverRequest{}); err != nil {
		t.Fatalf("GenerateDiscover: %v", err)
	}

	gen.DefineErr = fmt.Errorf("model timeout")
	_, err := svc.GenerateDefine(ctx, p.ID, 1)
	if err == nil {
		t.Fatal("expected error from failing generator")
	}
	appErr, ok := err.(*errors.AppError)
	if !ok || appErr.Code != errors.ErrCodeExternalService {
		t.Fatalf("error = %v, want EXTERNAL_SERVICE_ERROR", err)
	}

	stored, _ := repo.GetForUser(ctx, p.ID, 1)
	if stored.DefineStatus != doublediamond.StatusInProgress {
		t.Errorf("define status = %q, want in_progress (unchanged)", stored.DefineStatus)
	}
	if stored.GenerationCount != 1 {
		t.Errorf("generation count = %d, want 1 (discover only)", stored.GenerationCount)
	}
	if len(stored.DefinePovStatements) != 0 {
		t.Errorf("define outputs persisted despite generator failure")
	}
}

func TestDoubleDiamond_DefineSelectsFirstPovAndHmw(t *testing.T) {
	_, gen, svc := newDDFixture(t)
	p := seedDDProject(t, svc, 1)
	ctx := context.Background()

	if _, err := svc.GenerateDiscover(ctx, p.ID, 1, doublediamond.DiscoverRequest{}); err != nil {
		t.Fatalf("GenerateDiscover: %v", err)
	}
	p, err := svc.GenerateDefine(ctx, p.ID, 1)
	if err != nil {
		t.Fatalf("GenerateDefine: %v", err)
	}

	if p.DefineSelectedPov == nil || p.DefineSelectedPov.User != gen.DefineOut.PovStatements[0].User {
		t.Errorf("selected POV = %+v, want first generated statement", p.DefineSelectedPov)
	}
	if p.DefineSelectedHmw == nil || *p.DefineSelectedHmw != gen.DefineOut.HmwQuestions[0] {
		t.Errorf("selected HMW = %v, want first generated question", p.DefineSelectedHmw)
	}
}

func TestDoubleDiamond_DevelopSelectsFirstThreeIdeas(t *testing.T) {
	tests := []struct {
		name      string
		ideas     []doublediamond.Idea
		wantCount int
	}{
		{
			name: "more than three",
			ideas: []doublediamond.Idea{
				{Title: "a"}, {Title: "b"}, {Title: "c"}, {Title: "d"}, {Title: "e"},
			},
			wantCount: 3,
		},
		{
			name:      "fewer than three",
			ideas:     []doublediamond.Idea{{Title: "a"}, {Title: "b"}},
			wantCount: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, gen, svc := newDDFixture(t)
			p := seedDDProject(t, svc, 1)
			ctx := context.Background()

			gen.DevelopOut.Ideas = tt.ideas

			if _, err := svc.GenerateDiscover(ctx, p.ID, 1, doublediamond.DiscoverRequest{}); err != nil {
				t.Fatalf("GenerateDiscover: %v", err)
			}
			if _, err := svc.GenerateDefine(ctx, p.ID, 1); err != nil {
				t.Fatalf("GenerateDefine: %v", err)
			}
			p, err := svc.GenerateDevelop(ctx, p.ID, 1)
			if err != nil {
				t.Fatalf("GenerateDevelop: %v", err)
			}

			if len(p.DevelopSelectedIdeas) != tt.wantCount {
				t.Fatalf("selected ideas = %d, want %d", len(p.DevelopSelectedIdeas), tt.wantCount)
			}
			for i, idea := range p.DevelopSelectedIdeas {
				if idea.Title != tt.ideas[i].Title {
					t.Errorf("selected[%d] = %q, want %q (positional)", i, idea.Title, tt.ideas[i].Title)
				}
			}
		})
	}
}

func TestDoubleDiamond_DeliverRepairsMissingSelection(t *testing.T) {
	repo, gen, svc := newDDFixture(t)
	p := seedDDProject(t, svc, 1)
	ctx := context.Background()

	// Simulate an older row: develop ideas present, selection missing.
	stored, _ := repo.GetForUser(ctx, p.ID, 1)
	stored.DevelopIdeas = []doublediamond.Idea{
		{Title: "a"}, {Title: "b"}, {Title: "c"}, {Title: "d"},
	}
	stored.DevelopSelectedIdeas = nil
	if err := repo.Update(ctx, stored); err != nil {
		t.Fatalf("seed update: %v", err)
	}

	p, err := svc.GenerateDeliver(ctx, p.ID, 1)
	if err != nil {
		t.Fatalf("GenerateDeliver: %v", err)
	}

	if len(p.DevelopSelectedIdeas) != 3 {
		t.Fatalf("repaired selection = %d ideas, want 3", len(p.DevelopSelectedIdeas))
	}
	if p.DevelopSelectedIdeas[0].Title != "a" || p.DevelopSelectedIdeas[2].Title != "c" {
		t.Errorf("repaired selection = %+v, want first three develop ideas", p.DevelopSelectedIdeas)
	}
	if len(gen.LastDeliverIn.SelectedIdeas) != 3 {
		t.Errorf("generator received %d ideas, want the repaired 3", len(gen.LastDeliverIn.SelectedIdeas))
	}

	// The repair is persisted even before the generator runs.
	stored, _ = repo.GetForUser(ctx, p.ID, 1)
	if len(stored.DevelopSelectedIdeas) != 3 {
		t.Errorf("stored selection = %d ideas, want 3", len(stored.DevelopSelectedIdeas))
	}
}

func TestDoubleDiamond_DeliverRepairImpossibleWithoutIdeas(t *testing.T) {
	_, gen, svc := newDDFixture(t)
	p := seedDDProject(t, svc, 1)

	_, err := svc.GenerateDeliver(context.Background(), p.ID, 1)
	if err == nil {
		t.Fatal("expected precondition error, got nil")
	}
	appErr, ok := err.(*errors.AppError)
	if !ok || appErr.Code != errors.ErrCodePreconditionFailed {
		t.Fatalf("error = %v, want PRECONDITION_FAILED", err)
	}
	if len(gen.Calls) != 0 {
		t.Errorf("generator called %v, want no calls", gen.Calls)
	}
}

func TestDoubleDiamond_DFVRepeatableWithoutAdvancing(t *testing.T) {
	repo, gen, svc := newDDFixture(t)
	p := seedDDProject(t, svc, 1)
	ctx := context.Background()

	for _, step := range []func() error{
		func() error { _, err := svc.GenerateDiscover(ctx, p.ID, 1, doublediamond.DiscoverRequest{}); return err },
		func() error { _, err := svc.GenerateDefine(ctx, p.ID, 1); return err },
		func() error { _, err := svc.GenerateDevelop(ctx, p.ID, 1); return err },
		func() error { _, err := svc.GenerateDeliver(ctx, p.ID, 1); return err },
	} {
		if err := step(); err != nil {
			t.Fatalf("pipeline step: %v", err)
		}
	}

	first, err := svc.GenerateDFV(ctx, p.ID, 1)
	if err != nil {
		t.Fatalf("GenerateDFV (1st): %v", err)
	}
	gen.DFVOut.DesirabilityScore = 55
	second, err := svc.GenerateDFV(ctx, p.ID, 1)
	if err != nil {
		t.Fatalf("GenerateDFV (2nd): %v", err)
	}

	if *second.DfvDesirabilityScore != 55 {
		t.Errorf("second DFV desirability = %v, want overwritten 55", *second.DfvDesirabilityScore)
	}
	if second.CompletionPercentage != first.CompletionPercentage || second.CompletionPercentage != 100 {
		t.Errorf("completion moved across DFV reruns: %d -> %d", first.CompletionPercentage, second.CompletionPercentage)
	}
	if second.CurrentPhase != doublediamond.PhaseDeliver {
		t.Errorf("current phase = %q, want deliver (DFV never advances)", second.CurrentPhase)
	}
	if second.GenerationCount != first.GenerationCount+1 {
		t.Errorf("generation count = %d, want %d", second.GenerationCount, first.GenerationCount+1)
	}

	stored, _ := repo.GetForUser(ctx, p.ID, 1)
	if stored.DfvAnalysis == nil {
		t.Error("DFV analysis not persisted")
	}
}

func TestDoubleDiamond_RerunEarlierPhaseKeepsPointers(t *testing.T) {
	_, gen, svc := newDDFixture(t)
	p := seedDDProject(t, svc, 1)
	ctx := context.Background()

	if _, err := svc.GenerateDiscover(ctx, p.ID, 1, doublediamond.DiscoverRequest{}); err != nil {
		t.Fatalf("GenerateDiscover: %v", err)
	}
	if _, err := svc.GenerateDefine(ctx, p.ID, 1); err != nil {
		t.Fatalf("GenerateDefine: %v", err)
	}

	gen.DiscoverOut.PainPoints = []string{"rewritten pain point"}
	p, err := svc.GenerateDiscover(ctx, p.ID, 1, doublediamond.DiscoverRequest{})
	if err != nil {
		t.Fatalf("GenerateDiscover rerun: %v", err)
	}

	if p.DiscoverPainPoints[0] != "rewritten pain point" {
		t.Errorf("rerun did not overwrite discover outputs")
	}
	if p.CurrentPhase != doublediamond.PhaseDevelop {
		t.Errorf("current phase = %q, want develop (no regression)", p.CurrentPhase)
	}
	if p.CompletionPercentage != 50 {
		t.Errorf("completion = %d, want 50 (no regression)", p.CompletionPercentage)
	}
	if p.GenerationCount != 3 {
		t.Errorf("generation count = %d, want 3", p.GenerationCount)
	}
}

func TestDoubleDiamond_DiscoverOverridesPersisted(t *testing.T) {
	repo, _, svc := newDDFixture(t)
	p := seedDDProject(t, svc, 1)
	ctx := context.Background()

	_, err := svc.GenerateDiscover(ctx, p.ID, 1, doublediamond.DiscoverRequest{
		Sector:         "healthcare",
		TargetAudience: "clinic owners",
		Language:       "en-US",
	})
	if err != nil {
		t.Fatalf("GenerateDiscover: %v", err)
	}

	stored, _ := repo.GetForUser(ctx, p.ID, 1)
	if stored.Sector != "healthcare" {
		t.Errorf("sector = %q, want override persisted", stored.Sector)
	}
	if stored.TargetAudience == nil || *stored.TargetAudience != "clinic owners" {
		t.Errorf("target audience = %v, want override persisted", stored.TargetAudience)
	}
	if stored.Language != "en-US" {
		t.Errorf("language = %q, want override persisted", stored.Language)
	}
}

func TestDoubleDiamond_OwnershipScoped(t *testing.T) {
	_, _, svc := newDDFixture(t)
	p := seedDDProject(t, svc, 1)

	_, err := svc.GenerateDiscover(context.Background(), p.ID, 2, doublediamond.DiscoverRequest{})
	if err == nil {
		t.Fatal("expected not found for foreign user")
	}
	appErr, ok := err.(*errors.AppError)
	if !ok || appErr.Code != errors.ErrCodeNotFound {
		t.Fatalf("error = %v, want NOT_FOUND", err)
	}
}
