// Package limits computes effective usage ceilings for a user by merging
// subscription plan defaults, per-user overrides with an optional trial
// window, and active addons. Everything here is pure computation; it is safe
// to call any number of times per request.
package limits

import (
	"strconv"
	"time"

	"github.com/designlab-hq/designlab/internal/domain/plan"
	"github.com/designlab-hq/designlab/internal/domain/user"
)

// Snapshot holds the effective ceilings for one user at one instant.
// A nil ceiling means unlimited, never zero.
type Snapshot struct {
	MaxProjects              *int
	MaxPersonasPerProject    *int
	MaxUsersPerTeam          *int
	AIChatLimit              *int
	MaxDoubleDiamondProjects *int
	MaxDoubleDiamondExports  *int
	LibraryArticlesCount     *int

	// Feature flags. Plan flags OR'd with addon-granted capabilities.
	Collaboration      bool
	SSO                bool
	CustomIntegrations bool

	activeAddons map[string]bool
}

// HasAddon reports whether the named addon is active in this snapshot.
func (s Snapshot) HasAddon(key string) bool {
	return s.activeAddons[key]
}

// Resolve computes the snapshot for a user. Override precedence per
// dimension: user custom value wins iff it is non-nil and the trial window
// (if any) is still open; otherwise the plan value applies. Addons only
// contribute boolean capabilities.
func Resolve(u *user.User, p *plan.Plan, addons []*plan.Addon, now time.Time) Snapshot {
	overridesLive := u.CustomLimitsTrialEndsAt == nil || now.Before(*u.CustomLimitsTrialEndsAt)

	pick := func(custom, planned *int) *int {
		if custom != nil && overridesLive {
			return custom
		}
		return planned
	}

	active := make(map[string]bool, len(addons))
	for _, a := range addons {
		if a.ActiveAt(now) {
			active[a.AddonKey] = true
		}
	}

	return Snapshot{
		MaxProjects:              pick(u.CustomMaxProjects, p.MaxProjects),
		MaxPersonasPerProject:    p.MaxPersonasPerProject,
		MaxUsersPerTeam:          p.MaxUsersPerTeam,
		AIChatLimit:              pick(u.CustomAIChatLimit, p.AIChatLimit),
		MaxDoubleDiamondProjects: pick(u.CustomMaxDoubleDiamondProjects, p.MaxDoubleDiamondProjects),
		MaxDoubleDiamondExports:  pick(u.CustomMaxDoubleDiamondExports, p.MaxDoubleDiamondExports),
		LibraryArticlesCount:     p.LibraryArticlesCount,

		Collaboration:      p.HasCollaboration || active[plan.AddonCollabAdvanced],
		SSO:                p.HasSSO,
		CustomIntegrations: p.HasCustomIntegrations,

		activeAddons: active,
	}
}

// Allows reports whether one more unit fits under the ceiling given the
// current count. A nil ceiling always allows.
func Allows(ceiling *int, current int) bool {
	return ceiling == nil || current < *ceiling
}

// Describe renders a ceiling for user-facing limit messages.
func Describe(ceiling *int) string {
	if ceiling == nil {
		return "unlimited"
	}
	return strconv.Itoa(*ceiling)
}
