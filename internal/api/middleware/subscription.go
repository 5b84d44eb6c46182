package middleware

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/designlab-hq/designlab/internal/domain/doublediamond"
	"github.com/designlab-hq/designlab/internal/domain/plan"
	"github.com/designlab-hq/designlab/internal/domain/project"
	"github.com/designlab-hq/designlab/internal/domain/user"
	"github.com/designlab-hq/designlab/internal/limits"
	"github.com/designlab-hq/designlab/internal/pkg/errors"
	"github.com/designlab-hq/designlab/internal/pkg/logger"
	"github.com/designlab-hq/designlab/internal/pkg/utils"
)

// overridable in tests
var timeNow = time.Now

// SubscriptionGuard gates mutation routes behind plan ceilings. Each guard
// runs as Check then Proceed: resolve the caller's effective limits, count
// current usage, and short-circuit with an upgrade-required rejection when
// the ceiling is met. Admins bypass every numeric ceiling.
type SubscriptionGuard struct {
	users    user.Repository
	plans    plan.Repository
	projects project.Repository
	entities project.EntityRepository
	dd       doublediamond.Repository
	logger   *logger.Logger
}

// NewSubscriptionGuard creates a new subscription guard
func NewSubscriptionGuard(
	users user.Repository,
	plans plan.Repository,
	projects project.Repository,
	entities project.EntityRepository,
	dd doublediamond.Repository,
	log *logger.Logger,
) *SubscriptionGuard {
	return &SubscriptionGuard{
		users:    users,
		plans:    plans,
		projects: projects,
		entities: entities,
		dd:       dd,
		logger:   log,
	}
}

// snapshot resolves the caller's effective limits. Returns the user too so
// callers can branch on role.
func (g *SubscriptionGuard) snapshot(r *http.Request) (*user.User, limits.Snapshot, *errors.AppError) {
	userID, ok := GetUserID(r)
	if !ok {
		return nil, limits.Snapshot{}, errors.Unauthorized("Missing authentication token")
	}

	u, err := g.users.GetByID(r.Context(), userID)
	if err != nil {
		return nil, limits.Snapshot{}, asAppError(err, "Failed to load user")
	}

	p, err := g.plans.GetPlan(r.Context(), u.PlanID)
	if err != nil {
		return nil, limits.Snapshot{}, asAppError(err, "Failed to load plan")
	}

	addons, err := g.plans.ListAddons(r.Context(), u.ID)
	if err != nil {
		return nil, limits.Snapshot{}, asAppError(err, "Failed to load addons")
	}

	return u, limits.Resolve(u, p, addons, timeNow()), nil
}

// RequireProjectSlot rejects project creation when the caller is at their
// project ceiling.
func (g *SubscriptionGuard) RequireProjectSlot(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, snap, appErr := g.snapshot(r)
		if appErr != nil {
			utils.WriteError(w, appErr)
			return
		}
		if u.IsAdmin() {
			next.ServeHTTP(w, r)
			return
		}

		count, err := g.projects.CountByOwner(r.Context(), u.ID)
		if err != nil {
			utils.WriteError(w, asAppError(err, "Failed to count projects"))
			return
		}

		if !limits.Allows(snap.MaxProjects, count) {
			utils.WriteError(w, errors.LimitExceeded(
				fmt.Sprintf("Your plan allows up to %s projects. Upgrade to create more.",
					limits.Describe(snap.MaxProjects)),
				*snap.MaxProjects))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequirePersonaSlot rejects persona creation when the target project is at
// its per-project persona ceiling. Expects an {id} route param naming the
// project.
func (g *SubscriptionGuard) RequirePersonaSlot(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, snap, appErr := g.snapshot(r)
		if appErr != nil {
			utils.WriteError(w, appErr)
			return
		}
		if u.IsAdmin() {
			next.ServeHTTP(w, r)
			return
		}

		projectID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
		if err != nil {
			utils.WriteError(w, errors.BadRequest("Invalid project ID"))
			return
		}

		count, err := g.entities.CountPersonas(r.Context(), projectID)
		if err != nil {
			utils.WriteError(w, asAppError(err, "Failed to count personas"))
			return
		}

		if !limits.Allows(snap.MaxPersonasPerProject, count) {
			utils.WriteError(w, errors.LimitExceeded(
				fmt.Sprintf("Your plan allows up to %s personas per project. Upgrade to create more.",
					limits.Describe(snap.MaxPersonasPerProject)),
				*snap.MaxPersonasPerProject))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireDoubleDiamondSlot rejects Double Diamond project creation when the
// caller is at their ceiling.
func (g *SubscriptionGuard) RequireDoubleDiamondSlot(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, snap, appErr := g.snapshot(r)
		if appErr != nil {
			utils.WriteError(w, appErr)
			return
		}
		if u.IsAdmin() {
			next.ServeHTTP(w, r)
			return
		}

		count, err := g.dd.CountByUser(r.Context(), u.ID)
		if err != nil {
			utils.WriteError(w, asAppError(err, "Failed to count double diamond projects"))
			return
		}

		if !limits.Allows(snap.MaxDoubleDiamondProjects, count) {
			utils.WriteError(w, errors.LimitExceeded(
				fmt.Sprintf("Your plan allows up to %s Double Diamond projects. Upgrade to create more.",
					limits.Describe(snap.MaxDoubleDiamondProjects)),
				*snap.MaxDoubleDiamondProjects))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireCollaboration rejects when neither the plan nor an active addon
// grants collaboration. Feature gate, not a numeric ceiling.
func (g *SubscriptionGuard) RequireCollaboration(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, snap, appErr := g.snapshot(r)
		if appErr != nil {
			utils.WriteError(w, appErr)
			return
		}
		if u.IsAdmin() {
			next.ServeHTTP(w, r)
			return
		}

		if !snap.Collaboration {
			utils.WriteError(w, errors.FeatureLocked(
				"Collaboration is not included in your plan. Upgrade to invite team members."))
			return
		}

		next.ServeHTTP(w, r)
	})
}

func asAppError(err error, fallback string) *errors.AppError {
	if appErr, ok := err.(*errors.AppError); ok {
		return appErr
	}
	return errors.Internal(fallback, err)
}
