package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/designlab-hq/designlab/internal/domain/doublediamond"
	"github.com/designlab-hq/designlab/internal/domain/plan"
	"github.com/designlab-hq/designlab/internal/domain/project"
	"github.com/designlab-hq/designlab/internal/domain/user"
	"github.com/designlab-hq/designlab/internal/limits"
	"github.com/designlab-hq/designlab/internal/pkg/errors"
	"github.com/designlab-hq/designlab/internal/pkg/logger"
	"github.com/designlab-hq/designlab/internal/pkg/metrics"
)

// ExportStep reports one sub-step of an export.
type ExportStep struct {
	Name  string `json:"name"`
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// ExportResult is the outcome of a Double Diamond export: the new five-phase
// project id plus per-step success/failure. A partially mapped export is
// still a successful export.
type ExportResult struct {
	ProjectID int64        `json:"project_id"`
	Steps     []ExportStep `json:"steps"`
}

// ExportService converts a completed Double Diamond project into the
// five-phase project entity graph. Ownership, the export ceiling and the
// project-shell creation are hard-failing; every mapping sub-step after
// that is independently fallible (no cross-entity transaction is assumed),
// so a mapping failure degrades the export instead of aborting it.
type ExportService struct {
	dd       doublediamond.Repository
	projects project.Repository
	entities project.EntityRepository
	users    user.Repository
	plans    plan.Repository
	logger   *logger.Logger

	// now is swappable for tests
	now func() time.Time
}

// NewExportService creates a new export service
func NewExportService(
	dd doublediamond.Repository,
	projects project.Repository,
	entities project.EntityRepository,
	users user.Repository,
	plans plan.Repository,
	log *logger.Logger,
) *ExportService {
	return &ExportService{
		dd:       dd,
		projects: projects,
		entities: entities,
		users:    users,
		plans:    plans,
		logger:   log,
		now:      time.Now,
	}
}

// Export converts the DD project into a new five-phase project for the
// caller. Admin callers skip the export ceiling.
func (s *ExportService) Export(ctx context.Context, ddProjectID int64, requestedName string, callerID int64) (*ExportResult, error) {
	dd, err := s.dd.GetForUser(ctx, ddProjectID, callerID)
	if err != nil {
		return nil, err
	}

	caller, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return nil, err
	}

	if !caller.IsAdmin() {
		if err := s.checkExportCeiling(ctx, caller); err != nil {
			return nil, err
		}
	}

	name := strings.TrimSpace(requestedName)
	if name == "" {
		name = dd.Name
	}
	shell := &project.Project{
		UserID:         callerID,
		Name:           name,
		Description:    dd.Description,
		Sector:         &dd.Sector,
		SuccessCase:    dd.SuccessCase,
		Status:         project.StatusInProgress,
		CurrentPhase:   project.FirstPhase,
		CompletionRate: 0,
	}
	if err := s.projects.Create(ctx, shell); err != nil {
		metrics.ExportsTotal.WithLabelValues("failure").Inc()
		return nil, err
	}

	result := &ExportResult{ProjectID: shell.ID}

	s.step(result, "empathy_map", func() error { return s.mapEmpathyMap(ctx, dd, shell.ID) })
	s.step(result, "pov_statements", func() error { return s.mapPovStatements(ctx, dd, shell.ID) })
	s.step(result, "hmw_questions", func() error { return s.mapHmwQuestions(ctx, dd, shell.ID) })
	s.step(result, "ideas", func() error { return s.mapIdeas(ctx, dd, shell.ID) })
	s.step(result, "prototype", func() error { return s.mapPrototype(ctx, dd, shell.ID) })
	s.step(result, "test_plan", func() error { return s.mapTestPlan(ctx, dd, shell.ID) })
	s.step(result, "dvf_assessment", func() error { return s.deriveDvf(ctx, dd, shell.ID) })
	s.step(result, "export_record", func() error {
		return s.dd.CreateExport(ctx, &doublediamond.Export{
			UserID:                 callerID,
			DoubleDiamondProjectID: dd.ID,
			ExportedProjectID:      &shell.ID,
			Status:                 doublediamond.ExportStatusCompleted,
			ExportType:             doublediamond.ExportTypeFull,
			CreatedAt:              s.now(),
		})
	})

	metrics.ExportsTotal.WithLabelValues("success").Inc()
	s.logger.WithFields(map[string]interface{}{
		"dd_project_id": dd.ID,
		"project_id":    shell.ID,
		"user_id":       callerID,
	}).Info("Double diamond project exported")

	return result, nil
}

func (s *ExportService) checkExportCeiling(ctx context.Context, caller *user.User) error {
	p, err := s.plans.GetPlan(ctx, caller.PlanID)
	if err != nil {
		return err
	}
	addons, err := s.plans.ListAddons(ctx, caller.ID)
	if err != nil {
		return err
	}
	snap := limits.Resolve(caller, p, addons, s.now())
	if snap.MaxDoubleDiamondExports == nil {
		return nil
	}

	used, err := s.dd.CountExportsInMonth(ctx, caller.ID, s.now())
	if err != nil {
		return err
	}
	if used >= *snap.MaxDoubleDiamondExports {
		return errors.LimitExceeded(
			fmt.Sprintf("You have reached your monthly export limit of %d. Upgrade your plan to export more projects.",
				*snap.MaxDoubleDiamondExports),
			*snap.MaxDoubleDiamondExports)
	}
	return nil
}

// step runs one soft sub-step: failures are logged and recorded, never
// propagated.
func (s *ExportService) step(result *ExportResult, name string, fn func() error) {
	if err := fn(); err != nil {
		s.logger.WithFields(map[string]interface{}{
			"project_id": result.ProjectID,
			"step":       name,
		}).ErrorWithErr(err, "Export step failed, continuing")
		result.Steps = append(result.Steps, ExportStep{Name: name, OK: false, Error: err.Error()})
		return
	}
	result.Steps = append(result.Steps, ExportStep{Name: name, OK: true})
}

func (s *ExportService) mapEmpathyMap(ctx context.Context, dd *doublediamond.Project, projectID int64) error {
	if dd.DiscoverEmpathyMap == nil {
		return nil
	}
	m := dd.DiscoverEmpathyMap
	return s.entities.CreateEmpathyMap(ctx, &project.EmpathyMap{
		ProjectID: projectID,
		Says:      orEmpty(m.Says),
		Thinks:    orEmpty(m.Thinks),
		Does:      orEmpty(m.Does),
		Feels:     orEmpty(m.Feels),
	})
}

func (s *ExportService) mapPovStatements(ctx context.Context, dd *doublediamond.Project, projectID int64) error {
	for _, pov := range dd.DefinePovStatements {
		full := pov.FullStatement
		if full == "" {
			full = fmt.Sprintf("%s precisa %s porque %s", pov.User, pov.Need, pov.Insight)
		}
		if err := s.entities.CreatePovStatement(ctx, &project.PovStatement{
			ProjectID:     projectID,
			User:          pov.User,
			Need:          pov.Need,
			Insight:       pov.Insight,
			FullStatement: full,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *ExportService) mapHmwQuestions(ctx context.Context, dd *doublediamond.Project, projectID int64) error {
	for _, q := range dd.DefineHmwQuestions {
		if err := s.entities.CreateHmwQuestion(ctx, &project.HmwQuestion{
			ProjectID: projectID,
			Question:  q,
			Scope:     "product",
			Priority:  "medium",
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *ExportService) mapIdeas(ctx context.Context, dd *doublediamond.Project, projectID int64) error {
	for _, idea := range dd.DevelopSelectedIdeas {
		desc := idea.Description
		cat := idea.Category
		if err := s.entities.CreateIdea(ctx, &project.Idea{
			ProjectID:   projectID,
			Title:       idea.Title,
			Description: &desc,
			Category:    &cat,
		}); err != nil {
			return err
		}
	}
	return nil
}

func (s *ExportService) mapPrototype(ctx context.Context, dd *doublediamond.Project, projectID int64) error {
	if dd.DeliverMvpConcept == nil {
		return nil
	}
	concept := dd.DeliverMvpConcept
	desc := concept.Description
	if len(concept.CoreFeatures) > 0 {
		desc += "\n\nRecursos principais: " + strings.Join(concept.CoreFeatures, ", ")
	}
	kind := "mvp"
	return s.entities.CreatePrototype(ctx, &project.Prototype{
		ProjectID:   projectID,
		Name:        concept.Name,
		Type:        &kind,
		Description: &desc,
	})
}

func (s *ExportService) mapTestPlan(ctx context.Context, dd *doublediamond.Project, projectID int64) error {
	if dd.DeliverTestPlan == nil {
		return nil
	}
	draft := dd.DeliverTestPlan
	methodology := strings.Join(draft.Methods, "; ")
	participants := int(draft.Participants)
	if participants <= 0 {
		participants = 5
	}
	duration := int(draft.DurationMinutes)
	if duration <= 0 {
		duration = 60
	}
	return s.entities.CreateTestPlan(ctx, &project.TestPlan{
		ProjectID:       projectID,
		Objective:       strings.Join(draft.Objectives, "; "),
		Methodology:     &methodology,
		Participants:    participants,
		DurationMinutes: duration,
	})
}

// deriveDvf rescales the DD 0-100 scores to the five-phase 0-5 scale and
// persists one assessment. Skipped unless all three scores are present.
func (s *ExportService) deriveDvf(ctx context.Context, dd *doublediamond.Project, projectID int64) error {
	if dd.DfvDesirabilityScore == nil || dd.DfvFeasibilityScore == nil || dd.DfvViabilityScore == nil {
		return nil
	}

	d := rescaleDvf(*dd.DfvDesirabilityScore)
	f := rescaleDvf(*dd.DfvFeasibilityScore)
	v := rescaleDvf(*dd.DfvViabilityScore)
	overall := round1((d + f + v) / 3)

	itemName := dd.Name
	if dd.DeliverMvpConcept != nil && dd.DeliverMvpConcept.Name != "" {
		itemName = dd.DeliverMvpConcept.Name
	}

	return s.entities.CreateDvfAssessment(ctx, &project.DvfAssessment{
		ProjectID:      projectID,
		ItemName:       itemName,
		Desirability:   d,
		Feasibility:    f,
		Viability:      v,
		OverallScore:   overall,
		Recommendation: dvfRecommendation(overall),
	})
}

// rescaleDvf converts a 0-100 score to the 0-5 scale, one decimal.
func rescaleDvf(score float64) float64 {
	return round1(score / 20)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func dvfRecommendation(overall float64) string {
	switch {
	case overall >= 4:
		return project.RecommendProceed
	case overall < 2.5:
		return project.RecommendStop
	default:
		return project.RecommendModify
	}
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
