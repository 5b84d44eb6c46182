package limits

import (
	"testing"
	"time"

	"github.com/designlab-hq/designlab/internal/domain/plan"
	"github.com/designlab-hq/designlab/internal/domain/user"
)

func intPtr(v int) *int { return &v }

func TestResolve_OverridePrecedence(t *testing.T) {
	now := time.Now()
	future := now.Add(24 * time.Hour)
	past := now.Add(-24 * time.Hour)

	p := &plan.Plan{ID: plan.Free, MaxProjects: intPtr(1)}

	tests := []struct {
		name        string
		u           *user.User
		wantLimit   *int
	}{
		{
			name: "custom override wins inside trial window",
			u: &user.User{
				CustomMaxProjects:       intPtr(5),
				CustomLimitsTrialEndsAt: &future,
			},
			wantLimit: intPtr(5),
		},
		{
			name: "expired trial reverts to plan",
			u: &user.User{
				CustomMaxProjects:       intPtr(5),
				CustomLimitsTrialEndsAt: &past,
			},
			wantLimit: intPtr(1),
		},
		{
			name: "override with no trial end is permanent",
			u: &user.User{
				CustomMaxProjects: intPtr(5),
			},
			wantLimit: intPtr(5),
		},
		{
			name:      "no override uses plan",
			u:         &user.User{},
			wantLimit: intPtr(1),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snap := Resolve(tt.u, p, nil, now)
			if tt.wantLimit == nil {
				if snap.MaxProjects != nil {
					t.Errorf("MaxProjects = %v, want nil", *snap.MaxProjects)
				}
				return
			}
			if snap.MaxProjects == nil {
				t.Fatalf("MaxProjects = nil, want %d", *tt.wantLimit)
			}
			if *snap.MaxProjects != *tt.wantLimit {
				t.Errorf("MaxProjects = %d, want %d", *snap.MaxProjects, *tt.wantLimit)
			}
		})
	}
}

func TestResolve_NilMeansUnlimited(t *testing.T) {
	now := time.Now()
	p := &plan.Plan{ID: plan.Enterprise} // every numeric field nil

	snap := Resolve(&user.User{}, p, nil, now)

	for name, got := range map[string]*int{
		"MaxProjects":              snap.MaxProjects,
		"AIChatLimit":              snap.AIChatLimit,
		"MaxDoubleDiamondProjects": snap.MaxDoubleDiamondProjects,
		"MaxDoubleDiamondExports":  snap.MaxDoubleDiamondExports,
		"MaxUsersPerTeam":          snap.MaxUsersPerTeam,
	} {
		if got != nil {
			t.Errorf("%s = %d, want nil (unlimited)", name, *got)
		}
	}

	// Unlimited must never behave like zero
	if !Allows(snap.MaxProjects, 1_000_000) {
		t.Error("Allows(nil, large) = false, want true")
	}
	if Describe(snap.MaxProjects) != "unlimited" {
		t.Errorf("Describe(nil) = %q, want %q", Describe(snap.MaxProjects), "unlimited")
	}
}

func TestResolve_ExpiredOverrideFallsBackToNilPlan(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	p := &plan.Plan{ID: plan.Pro} // nil = unlimited

	u := &user.User{
		CustomAIChatLimit:       intPtr(10),
		CustomLimitsTrialEndsAt: &past,
	}

	snap := Resolve(u, p, nil, now)
	if snap.AIChatLimit != nil {
		t.Errorf("AIChatLimit = %d, want nil after trial expiry", *snap.AIChatLimit)
	}
}

func TestResolve_AddonsGateFeaturesOnly(t *testing.T) {
	now := time.Now()
	ended := now.Add(-time.Hour)
	running := now.Add(time.Hour)

	p := &plan.Plan{ID: plan.Free, MaxDoubleDiamondExports: intPtr(2)}

	addons := []*plan.Addon{
		{AddonKey: plan.AddonCollabAdvanced, Status: plan.AddonStatusActive},
		{AddonKey: plan.AddonExportPro, Status: plan.AddonStatusActive, PeriodEnd: &running},
		{AddonKey: plan.AddonAITurbo, Status: plan.AddonStatusCanceled},
		{AddonKey: plan.AddonLibraryPremium, Status: plan.AddonStatusActive, PeriodEnd: &ended},
	}

	snap := Resolve(&user.User{}, p, addons, now)

	if !snap.Collaboration {
		t.Error("Collaboration = false, want true with active collab_advanced addon")
	}
	if !snap.HasAddon(plan.AddonExportPro) {
		t.Error("HasAddon(export_pro) = false, want true while period is running")
	}
	if snap.HasAddon(plan.AddonAITurbo) {
		t.Error("HasAddon(ai_turbo) = true, want false for canceled addon")
	}
	if snap.HasAddon(plan.AddonLibraryPremium) {
		t.Error("HasAddon(library_premium) = true, want false for ended period")
	}

	// Numeric ceilings are untouched by addons
	if snap.MaxDoubleDiamondExports == nil || *snap.MaxDoubleDiamondExports != 2 {
		t.Errorf("MaxDoubleDiamondExports changed by addons: got %v, want 2", snap.MaxDoubleDiamondExports)
	}
}

func TestAllows(t *testing.T) {
	tests := []struct {
		name    string
		ceiling *int
		current int
		want    bool
	}{
		{"below ceiling", intPtr(3), 2, true},
		{"at ceiling", intPtr(3), 3, false},
		{"over ceiling", intPtr(3), 4, false},
		{"zero ceiling blocks everything", intPtr(0), 0, false},
		{"nil is unlimited", nil, 9999, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Allows(tt.ceiling, tt.current); got != tt.want {
				t.Errorf("Allows() = %v, want %v", got, tt.want)
			}
		})
	}
}
