package services

import (
	"context"

	"github.com/designlab-hq/designlab/internal/domain/doublediamond"
	"github.com/designlab-hq/designlab/internal/pkg/errors"
	"github.com/designlab-hq/designlab/internal/pkg/logger"
	"github.com/designlab-hq/designlab/internal/pkg/metrics"
)

// phaseRank orders the diamond phases; the current-phase pointer and the
// completion percentage only ever move forward through this order.
var phaseRank = map[string]int{
	doublediamond.PhaseDiscover: 1,
	doublediamond.PhaseDefine:   2,
	doublediamond.PhaseDevelop:  3,
	doublediamond.PhaseDeliver:  4,
}

// DoubleDiamondService implements doublediamond.Service: the four-phase
// generation pipeline plus the repeatable DFV analysis. Content synthesis
// is delegated to the Generator; this service owns precondition validation,
// input assembly, output persistence and phase bookkeeping.
//
// A generator failure surfaces as-is and nothing of that phase is
// persisted; re-invoking the phase route is the retry path.
type DoubleDiamondService struct {
	repo   doublediamond.Repository
	gen    doublediamond.Generator
	logger *logger.Logger
}

// NewDoubleDiamondService creates a new Double Diamond service
func NewDoubleDiamondService(repo doublediamond.Repository, gen doublediamond.Generator, log *logger.Logger) doublediamond.Service {
	return &DoubleDiamondService{
		repo:   repo,
		gen:    gen,
		logger: log,
	}
}

// Create creates a DD project in the discover phase.
func (s *DoubleDiamondService) Create(ctx context.Context, p *doublediamond.Project) (*doublediamond.Project, error) {
	p.CurrentPhase = doublediamond.PhaseDiscover
	p.DiscoverStatus = doublediamond.StatusInProgress
	p.DefineStatus = doublediamond.StatusPending
	p.DevelopStatus = doublediamond.StatusPending
	p.DeliverStatus = doublediamond.StatusPending
	p.CompletionPercentage = 0
	if p.Language == "" {
		p.Language = "pt-BR"
	}

	if err := s.repo.Create(ctx, p); err != nil {
		s.logger.ErrorWithErr(err, "Failed to create double diamond project")
		return nil, err
	}

	s.logger.WithFields(map[string]interface{}{
		"dd_project_id": p.ID,
		"user_id":       p.UserID,
	}).Info("Double diamond project created")

	return p, nil
}

// Get retrieves a project owned by userID.
func (s *DoubleDiamondService) Get(ctx context.Context, id, userID int64) (*doublediamond.Project, error) {
	return s.repo.GetForUser(ctx, id, userID)
}

// List retrieves a user's projects.
func (s *DoubleDiamondService) List(ctx context.Context, userID int64, limit, offset int) ([]*doublediamond.Project, int64, error) {
	return s.repo.ListByUser(ctx, userID, limit, offset)
}

// Delete removes a project owned by userID.
func (s *DoubleDiamondService) Delete(ctx context.Context, id, userID int64) error {
	deleted, err := s.repo.Delete(ctx, id, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return errors.NotFound("Double diamond project")
	}
	return nil
}

// CountForUser counts a user's projects, for ceiling checks.
func (s *DoubleDiamondService) CountForUser(ctx context.Context, userID int64) (int, error) {
	return s.repo.CountByUser(ctx, userID)
}

// GenerateDiscover runs the discover phase. Request values override the
// stored project fields; whatever the request omits is resolved from the
// project row.
func (s *DoubleDiamondService) GenerateDiscover(ctx context.Context, id, userID int64, req doublediamond.DiscoverRequest) (*doublediamond.Project, error) {
	p, err := s.repo.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	in := doublediamond.DiscoverInput{
		Sector:   p.Sector,
		Language: p.Language,
	}
	if p.SuccessCase != nil {
		in.SuccessCase = *p.SuccessCase
	}
	if p.TargetAudience != nil {
		in.TargetAudience = *p.TargetAudience
	}
	if p.ProblemStatement != nil {
		in.ProblemStatement = *p.ProblemStatement
	}
	if req.Sector != "" {
		in.Sector = req.Sector
		p.Sector = req.Sector
	}
	if req.SuccessCase != "" {
		in.SuccessCase = req.SuccessCase
		p.SuccessCase = &req.SuccessCase
	}
	if req.TargetAudience != "" {
		in.TargetAudience = req.TargetAudience
		p.TargetAudience = &req.TargetAudience
	}
	if req.ProblemStatement != "" {
		in.ProblemStatement = req.ProblemStatement
		p.ProblemStatement = &req.ProblemStatement
	}
	if req.Language != "" {
		in.Language = req.Language
		p.Language = req.Language
	}

	out, err := s.gen.Discover(ctx, in)
	if err != nil {
		s.logger.ErrorWithErr(err, "Discover generation failed")
		metrics.GenerationsTotal.WithLabelValues(doublediamond.PhaseDiscover, "failure").Inc()
		return nil, errors.ExternalService("AI generation", err)
	}

	p.DiscoverPainPoints = out.PainPoints
	p.DiscoverInsights = out.Insights
	p.DiscoverUserNeeds = out.UserNeeds
	p.DiscoverEmpathyMap = &out.EmpathyMap
	p.DiscoverStatus = doublediamond.StatusCompleted
	s.advance(p, doublediamond.PhaseDefine, doublediamond.CompletionDiscover)
	p.GenerationCount++

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.logGeneration(p, doublediamond.PhaseDiscover)
	return p, nil
}

// GenerateDefine runs the define phase on the discover outputs. The first
// generated POV and HMW become the selected ones.
func (s *DoubleDiamondService) GenerateDefine(ctx context.Context, id, userID int64) (*doublediamond.Project, error) {
	p, err := s.repo.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if len(p.DiscoverPainPoints) == 0 {
		return nil, errors.PreconditionFailed(
			"Complete the Discover phase first: pain points are missing", "discover_pain_points")
	}
	if len(p.DiscoverUserNeeds) == 0 {
		return nil, errors.PreconditionFailed(
			"Complete the Discover phase first: user needs are missing", "discover_user_needs")
	}
	if len(p.DiscoverInsights) == 0 {
		return nil, errors.PreconditionFailed(
			"Complete the Discover phase first: insights are missing", "discover_insights")
	}

	out, err := s.gen.Define(ctx, doublediamond.DefineInput{
		PainPoints: p.DiscoverPainPoints,
		UserNeeds:  p.DiscoverUserNeeds,
		Insights:   p.DiscoverInsights,
		Language:   p.Language,
	})
	if err != nil {
		s.logger.ErrorWithErr(err, "Define generation failed")
		metrics.GenerationsTotal.WithLabelValues(doublediamond.PhaseDefine, "failure").Inc()
		return nil, errors.ExternalService("AI generation", err)
	}

	p.DefinePovStatements = out.PovStatements
	p.DefineHmwQuestions = out.HmwQuestions
	// Auto-selection is positional: index 0 of each list.
	if len(out.PovStatements) > 0 {
		selected := out.PovStatements[0]
		p.DefineSelectedPov = &selected
	}
	if len(out.HmwQuestions) > 0 {
		selected := out.HmwQuestions[0]
		p.DefineSelectedHmw = &selected
	}
	p.DefineStatus = doublediamond.StatusCompleted
	s.advance(p, doublediamond.PhaseDevelop, doublediamond.CompletionDefine)
	p.GenerationCount++

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.logGeneration(p, doublediamond.PhaseDefine)
	return p, nil
}

// GenerateDevelop runs the develop phase on the selected POV/HMW. The first
// three generated ideas become the selected ideas.
func (s *DoubleDiamondService) GenerateDevelop(ctx context.Context, id, userID int64) (*doublediamond.Project, error) {
	p, err := s.repo.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if p.DefineSelectedPov == nil {
		return nil, errors.PreconditionFailed(
			"Complete the Define phase first: no POV statement selected", "define_selected_pov")
	}
	if p.DefineSelectedHmw == nil {
		return nil, errors.PreconditionFailed(
			"Complete the Define phase first: no HMW question selected", "define_selected_hmw")
	}

	out, err := s.gen.Develop(ctx, doublediamond.DevelopInput{
		SelectedPov: *p.DefineSelectedPov,
		SelectedHmw: *p.DefineSelectedHmw,
		Sector:      p.Sector,
		Language:    p.Language,
	})
	if err != nil {
		s.logger.ErrorWithErr(err, "Develop generation failed")
		metrics.GenerationsTotal.WithLabelValues(doublediamond.PhaseDevelop, "failure").Inc()
		return nil, errors.ExternalService("AI generation", err)
	}

	p.DevelopIdeas = out.Ideas
	p.DevelopCrossPollinatedIdeas = out.CrossPollinatedIdeas
	p.DevelopSelectedIdeas = firstIdeas(out.Ideas, 3)
	p.DevelopStatus = doublediamond.StatusCompleted
	s.advance(p, doublediamond.PhaseDeliver, doublediamond.CompletionDevelop)
	p.GenerationCount++

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.logGeneration(p, doublediamond.PhaseDevelop)
	return p, nil
}

// GenerateDeliver runs the deliver phase on the selected ideas.
//
// Auto-repair: when no selected ideas were persisted but develop ideas
// exist, the first three are re-derived and saved before the precondition
// re-check. This recovers projects written by an older data-entry path.
func (s *DoubleDiamondService) GenerateDeliver(ctx context.Context, id, userID int64) (*doublediamond.Project, error) {
	p, err := s.repo.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if len(p.DevelopSelectedIdeas) == 0 && len(p.DevelopIdeas) > 0 {
		p.DevelopSelectedIdeas = firstIdeas(p.DevelopIdeas, 3)
		if err := s.repo.Update(ctx, p); err != nil {
			return nil, err
		}
		s.logger.WithFields(map[string]interface{}{
			"dd_project_id": p.ID,
		}).Warn("Repaired missing selected ideas from develop ideas")
	}

	if len(p.DevelopSelectedIdeas) == 0 {
		return nil, errors.PreconditionFailed(
			"Complete the Develop phase first: no ideas selected", "develop_selected_ideas")
	}

	out, err := s.gen.Deliver(ctx, doublediamond.DeliverInput{
		SelectedIdeas: p.DevelopSelectedIdeas,
		SelectedPov:   p.DefineSelectedPov,
		Sector:        p.Sector,
		Language:      p.Language,
	})
	if err != nil {
		s.logger.ErrorWithErr(err, "Deliver generation failed")
		metrics.GenerationsTotal.WithLabelValues(doublediamond.PhaseDeliver, "failure").Inc()
		return nil, errors.ExternalService("AI generation", err)
	}

	p.DeliverMvpConcept = &out.MvpConcept
	p.DeliverLogoSuggestions = out.LogoSuggestions
	p.DeliverLandingPage = &out.LandingPage
	p.DeliverSocialMediaLines = out.SocialMediaLines
	p.DeliverTestPlan = &out.TestPlan
	p.DeliverStatus = doublediamond.StatusCompleted
	if p.CompletionPercentage < doublediamond.CompletionDeliver {
		p.CompletionPercentage = doublediamond.CompletionDeliver
	}
	p.IsCompleted = true
	p.GenerationCount++

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.logGeneration(p, doublediamond.PhaseDeliver)
	return p, nil
}

// GenerateDFV runs the repeatable DFV analysis after deliver. It never
// advances the phase pointer or the completion percentage.
func (s *DoubleDiamondService) GenerateDFV(ctx context.Context, id, userID int64) (*doublediamond.Project, error) {
	p, err := s.repo.GetForUser(ctx, id, userID)
	if err != nil {
		return nil, err
	}

	if p.DeliverMvpConcept == nil {
		return nil, errors.PreconditionFailed(
			"Complete the Deliver phase first: no MVP concept", "deliver_mvp_concept")
	}

	out, err := s.gen.DFV(ctx, doublediamond.DFVInput{
		SelectedPov:   p.DefineSelectedPov,
		MvpConcept:    *p.DeliverMvpConcept,
		Sector:        p.Sector,
		SelectedIdeas: p.DevelopSelectedIdeas,
		Language:      p.Language,
	})
	if err != nil {
		s.logger.ErrorWithErr(err, "DFV generation failed")
		metrics.GenerationsTotal.WithLabelValues(doublediamond.PhaseDFV, "failure").Inc()
		return nil, errors.ExternalService("AI generation", err)
	}

	p.DfvDesirabilityScore = &out.DesirabilityScore
	p.DfvFeasibilityScore = &out.FeasibilityScore
	p.DfvViabilityScore = &out.ViabilityScore
	analysis := out.Analysis
	p.DfvAnalysis = &analysis
	p.GenerationCount++

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, err
	}

	s.logGeneration(p, doublediamond.PhaseDFV)
	return p, nil
}

// advance moves the phase pointer and completion forward, never backward;
// re-running an earlier phase overwrites outputs without regressing.
func (s *DoubleDiamondService) advance(p *doublediamond.Project, next string, completion int) {
	if phaseRank[next] > phaseRank[p.CurrentPhase] {
		p.CurrentPhase = next
		switch next {
		case doublediamond.PhaseDefine:
			p.DefineStatus = doublediamond.StatusInProgress
		case doublediamond.PhaseDevelop:
			p.DevelopStatus = doublediamond.StatusInProgress
		case doublediamond.PhaseDeliver:
			p.DeliverStatus = doublediamond.StatusInProgress
		}
	}
	if completion > p.CompletionPercentage {
		p.CompletionPercentage = completion
	}
}

func (s *DoubleDiamondService) logGeneration(p *doublediamond.Project, phase string) {
	metrics.GenerationsTotal.WithLabelValues(phase, "success").Inc()
	s.logger.WithFields(map[string]interface{}{
		"dd_project_id":    p.ID,
		"phase":            phase,
		"generation_count": p.GenerationCount,
		"completion":       p.CompletionPercentage,
	}).Info("Double diamond phase generated")
}

func firstIdeas(ideas []doublediamond.Idea, n int) []doublediamond.Idea {
	if len(ideas) < n {
		n = len(ideas)
	}
	selected := make([]doublediamond.Idea, n)
	copy(selected, ideas[:n])
	return selected
}
