package services

import (
	"context"
	"fmt"
	"time"

	"github.com/designlab-hq/designlab/internal/domain/assistant"
	"github.com/designlab-hq/designlab/internal/domain/plan"
	"github.com/designlab-hq/designlab/internal/domain/project"
	"github.com/designlab-hq/designlab/internal/domain/user"
	"github.com/designlab-hq/designlab/internal/limits"
	"github.com/designlab-hq/designlab/internal/pkg/errors"
	"github.com/designlab-hq/designlab/internal/pkg/logger"
)

// AssistantService implements assistant.Service.
//
// The chat quota is check-then-increment: the ceiling is read, the reply is
// generated, then the counter is bumped. Two concurrent requests racing the
// last slot can both pass the check; the counter still ends up correct and
// the overshoot is at most the request concurrency, which is acceptable for
// a soft usage quota.
type AssistantService struct {
	client   assistant.Client
	users    user.Repository
	plans    plan.Repository
	projects project.Repository
	entities project.EntityRepository
	logger   *logger.Logger

	now func() time.Time
}

// NewAssistantService creates a new assistant service
func NewAssistantService(
	client assistant.Client,
	users user.Repository,
	plans plan.Repository,
	projects project.Repository,
	entities project.EntityRepository,
	log *logger.Logger,
) assistant.Service {
	return &AssistantService{
		client:   client,
		users:    users,
		plans:    plans,
		projects: projects,
		entities: entities,
		logger:   log,
		now:      time.Now,
	}
}

// Chat runs one assistant turn under the caller's chat quota.
func (s *AssistantService) Chat(ctx context.Context, userID int64, req assistant.ChatRequest) (*assistant.ChatResponse, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	p, err := s.plans.GetPlan(ctx, u.PlanID)
	if err != nil {
		return nil, err
	}
	addons, err := s.plans.ListAddons(ctx, userID)
	if err != nil {
		return nil, err
	}
	snap := limits.Resolve(u, p, addons, s.now())

	if !limits.Allows(snap.AIChatLimit, u.AIChatUsed) {
		return nil, errors.LimitExceeded(
			fmt.Sprintf("You have used all %d AI chat messages on your plan. Upgrade for more.",
				*snap.AIChatLimit),
			*snap.AIChatLimit)
	}

	language := req.Language
	if language == "" {
		language = u.Language
	}

	reply, err := s.client.Chat(ctx, req.Messages, language)
	if err != nil {
		s.logger.ErrorWithErr(err, "Assistant chat failed")
		return nil, errors.ExternalService("AI assistant", err)
	}

	if err := s.users.IncrementAIChatUsed(ctx, userID); err != nil {
		// The reply was already produced; losing one usage tick is better
		// than failing the request.
		s.logger.ErrorWithErr(err, "Failed to record AI chat usage")
	}

	used := u.AIChatUsed + 1
	resp := &assistant.ChatResponse{
		Reply: reply,
		Used:  used,
		Limit: snap.AIChatLimit,
	}
	if snap.AIChatLimit != nil {
		remaining := *snap.AIChatLimit - used
		if remaining < 0 {
			remaining = 0
		}
		resp.Remaining = &remaining
	}
	return resp, nil
}

// GenerateMVP generates the full asset bundle for a project the caller owns
// and attaches each asset to the project. A failed asset write is logged and
// skipped; the generated content is still returned.
func (s *AssistantService) GenerateMVP(ctx context.Context, projectID, userID int64) ([]assistant.Asset, error) {
	p, err := s.projects.GetForOwner(ctx, projectID, userID)
	if err != nil {
		return nil, err
	}

	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	in := assistant.MVPInput{
		ProjectName: p.Name,
		Language:    u.Language,
	}
	if p.Description != nil {
		in.Description = *p.Description
	}
	if p.Sector != nil {
		in.Sector = *p.Sector
	}

	assets, err := s.client.GenerateMVP(ctx, in)
	if err != nil {
		s.logger.ErrorWithErr(err, "MVP generation failed")
		return nil, errors.ExternalService("AI generation", err)
	}

	for _, a := range assets {
		if err := s.entities.CreateAIAsset(ctx, &project.AIAsset{
			ProjectID: projectID,
			Kind:      a.Kind,
			Content:   a.Content,
		}); err != nil {
			s.logger.WithFields(map[string]interface{}{
				"project_id": projectID,
				"kind":       a.Kind,
			}).ErrorWithErr(err, "Failed to persist generated asset")
		}
	}

	s.logger.WithFields(map[string]interface{}{
		"project_id": projectID,
		"assets":     len(assets),
	}).Info("MVP assets generated")

	return assets, nil
}
