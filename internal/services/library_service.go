package services

import (
	"context"
	"time"

	"github.com/designlab-hq/designlab/internal/domain/library"
	"github.com/designlab-hq/designlab/internal/domain/plan"
	"github.com/designlab-hq/designlab/internal/domain/user"
	"github.com/designlab-hq/designlab/internal/limits"
	"github.com/designlab-hq/designlab/internal/pkg/errors"
	"github.com/designlab-hq/designlab/internal/pkg/logger"
)

// supportedLanguages are the translation targets for library content.
var supportedLanguages = []string{"pt-BR", "en-US", "es-ES"}

// LibraryService implements library.Service.
type LibraryService struct {
	repo       library.Repository
	translator library.Translator
	users      user.Repository
	plans      plan.Repository
	logger     *logger.Logger

	now func() time.Time
}

// NewLibraryService creates a new library service
func NewLibraryService(repo library.Repository, translator library.Translator, users user.Repository, plans plan.Repository, log *logger.Logger) *LibraryService {
	return &LibraryService{
		repo:       repo,
		translator: translator,
		users:      users,
		plans:      plans,
		logger:     log,
		now:        time.Now,
	}
}

func (s *LibraryService) premiumAccess(ctx context.Context, callerID int64) (limits.Snapshot, bool, error) {
	u, err := s.users.GetByID(ctx, callerID)
	if err != nil {
		return limits.Snapshot{}, false, err
	}
	p, err := s.plans.GetPlan(ctx, u.PlanID)
	if err != nil {
		return limits.Snapshot{}, false, err
	}
	addons, err := s.plans.ListAddons(ctx, callerID)
	if err != nil {
		return limits.Snapshot{}, false, err
	}
	snap := limits.Resolve(u, p, addons, s.now())
	premium := u.PlanID != plan.Free || snap.HasAddon(plan.AddonLibraryPremium)
	return snap, premium, nil
}

// Create stores an item and fills translations for the other supported
// languages. A translation failure is logged and skipped; the item is
// already persisted and stays readable in its source language.
func (s *LibraryService) Create(ctx context.Context, item *library.Item) (*library.Item, error) {
	if item.Language == "" {
		item.Language = "pt-BR"
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, err
	}

	item.Translations = make(map[string]library.Translation)
	for _, lang := range supportedLanguages {
		if lang == item.Language {
			continue
		}
		tr, err := s.translator.Translate(ctx, item, lang)
		if err != nil {
			s.logger.WithFields(map[string]interface{}{
				"item_id": item.ID,
				"lang":    lang,
			}).ErrorWithErr(err, "Translation failed, keeping source language only")
			continue
		}
		item.Translations[lang] = *tr
	}
	if len(item.Translations) > 0 {
		if err := s.repo.Update(ctx, item); err != nil {
			s.logger.ErrorWithErr(err, "Failed to store translations")
		}
	}

	return item, nil
}

// Get returns one item; premium items require premium library access.
func (s *LibraryService) Get(ctx context.Context, id, callerID int64) (*library.Item, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.Premium {
		_, premium, err := s.premiumAccess(ctx, callerID)
		if err != nil {
			return nil, err
		}
		if !premium {
			return nil, errors.FeatureLocked(
				"This content is part of the premium library. Upgrade your plan to read it.")
		}
	}
	return item, nil
}

// List returns items visible to the caller. Callers without premium access
// see non-premium items only, capped at the plan's article allowance.
func (s *LibraryService) List(ctx context.Context, callerID int64, kind string, limit, offset int) ([]*library.Item, int64, error) {
	snap, premium, err := s.premiumAccess(ctx, callerID)
	if err != nil {
		return nil, 0, err
	}

	if !premium && snap.LibraryArticlesCount != nil {
		allowance := *snap.LibraryArticlesCount
		if offset >= allowance {
			return []*library.Item{}, int64(allowance), nil
		}
		if offset+limit > allowance {
			limit = allowance - offset
		}
	}

	items, total, err := s.repo.List(ctx, kind, premium, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	if !premium && snap.LibraryArticlesCount != nil && total > int64(*snap.LibraryArticlesCount) {
		total = int64(*snap.LibraryArticlesCount)
	}
	return items, total, nil
}

// Update updates an item.
func (s *LibraryService) Update(ctx context.Context, item *library.Item) error {
	return s.repo.Update(ctx, item)
}

// Delete removes an item.
func (s *LibraryService) Delete(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return errors.NotFound("Library item")
	}
	return nil
}
