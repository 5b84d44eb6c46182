package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/designlab-hq/designlab/internal/domain/plan"
	"github.com/designlab-hq/designlab/internal/domain/user"
	"github.com/designlab-hq/designlab/internal/testutil"
)

type fakeGateway struct {
	url    string
	err    error
	lastParams CheckoutParams
}

func (f *fakeGateway) CreateCheckoutSession(ctx context.Context, p CheckoutParams) (string, error) {
	f.lastParams = p
	if f.err != nil {
		return "", f.err
	}
	return f.url, nil
}

type billingFixture struct {
	users   *testutil.MockUserRepo
	plans   *testutil.MockPlanRepo
	gateway *fakeGateway
	svc     *BillingService
}

func newBillingFixture(t *testing.T) *billingFixture {
	t.Helper()
	f := &billingFixture{
		users:   testutil.NewMockUserRepo(),
		plans:   testutil.NewMockPlanRepo(),
		gateway: &fakeGateway{url: "https://checkout.example/session_123"},
	}
	f.svc = NewBillingService(f.users, f.plans, f.gateway, testutil.NewLogger())
	return f
}

func (f *billingFixture) seedUser(t *testing.T) *user.User {
	t.Helper()
	u := &user.User{Email: "buyer@example.com", PlanID: plan.Free, SubscriptionStatus: user.SubscriptionNone}
	if err := f.users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func TestBilling_CreateCheckoutForPlan(t *testing.T) {
	f := newBillingFixture(t)
	u := f.seedUser(t)

	url, err := f.svc.CreateCheckout(context.Background(), u.ID, CheckoutRequest{
		Kind: PurchasePlan, PlanID: plan.Pro, BillingPeriod: "yearly",
		SuccessURL: "https://app.example/ok", CancelURL: "https://app.example/cancel",
	})
	if err != nil {
		t.Fatalf("CreateCheckout: %v", err)
	}
	if url != f.gateway.url {
		t.Errorf("url = %q", url)
	}
	if f.gateway.lastParams.AmountCents != 49000 {
		t.Errorf("amount = %d, want yearly price 49000", f.gateway.lastParams.AmountCents)
	}
	if f.gateway.lastParams.PlanID != plan.Pro {
		t.Errorf("plan = %q", f.gateway.lastParams.PlanID)
	}
}

func TestBilling_CheckoutRejectsFreePlan(t *testing.T) {
	f := newBillingFixture(t)
	u := f.seedUser(t)

	_, err := f.svc.CreateCheckout(context.Background(), u.ID, CheckoutRequest{
		Kind: PurchasePlan, PlanID: plan.Free, BillingPeriod: "monthly",
		SuccessURL: "https://app.example/ok", CancelURL: "https://app.example/cancel",
	})
	if err == nil {
		t.Fatal("expected rejection of free plan purchase")
	}
}

func TestBilling_CheckoutCompletedPlan(t *testing.T) {
	f := newBillingFixture(t)
	u := f.seedUser(t)
	ctx := context.Background()

	err := f.svc.HandleCheckoutCompleted(ctx, CheckoutCompleted{
		UserID: u.ID, Kind: PurchasePlan, PlanID: plan.Pro,
		BillingPeriod: "monthly", CustomerID: "cus_1", SubscriptionID: "sub_1",
	})
	if err != nil {
		t.Fatalf("HandleCheckoutCompleted: %v", err)
	}

	stored := f.users.Users[u.ID]
	if stored.PlanID != plan.Pro {
		t.Errorf("plan = %q, want pro", stored.PlanID)
	}
	if stored.SubscriptionStatus != user.SubscriptionActive {
		t.Errorf("status = %q, want active", stored.SubscriptionStatus)
	}
	if stored.StripeCustomerID == nil || *stored.StripeCustomerID != "cus_1" {
		t.Errorf("customer id = %v", stored.StripeCustomerID)
	}

	sub, err := f.plans.GetSubscriptionByStripeID(ctx, "sub_1")
	if err != nil {
		t.Fatalf("subscription row missing: %v", err)
	}
	if sub.PlanID != plan.Pro || sub.Status != plan.SubscriptionActive {
		t.Errorf("subscription = %+v", sub)
	}
}

func TestBilling_CheckoutCompletedAddon(t *testing.T) {
	f := newBillingFixture(t)
	u := f.seedUser(t)
	ctx := context.Background()

	err := f.svc.HandleCheckoutCompleted(ctx, CheckoutCompleted{
		UserID: u.ID, Kind: PurchaseAddon, AddonKey: plan.AddonExportPro,
		BillingPeriod: "monthly", CustomerID: "cus_1", SubscriptionID: "sub_addon_1",
	})
	if err != nil {
		t.Fatalf("HandleCheckoutCompleted: %v", err)
	}

	// The plan is untouched; only an addon row appears.
	if f.users.Users[u.ID].PlanID != plan.Free {
		t.Errorf("plan = %q, want unchanged free", f.users.Users[u.ID].PlanID)
	}
	addons, _ := f.plans.ListAddons(ctx, u.ID)
	if len(addons) != 1 {
		t.Fatalf("addons = %d, want 1", len(addons))
	}
	a := addons[0]
	if a.AddonKey != plan.AddonExportPro || a.Status != plan.AddonStatusActive || a.Source != plan.AddonSourceStripe {
		t.Errorf("addon = %+v", a)
	}
}

func TestBilling_SubscriptionStatusMapping(t *testing.T) {
	tests := []struct {
		provider string
		want     string
	}{
		{"active", plan.SubscriptionActive},
		{"trialing", plan.SubscriptionActive},
		{"canceled", plan.SubscriptionCanceled},
		{"unpaid", plan.SubscriptionCanceled},
		{"past_due", plan.SubscriptionExpired},
		{"incomplete", plan.SubscriptionExpired},
	}
	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			if got := mapProviderStatus(tt.provider); got != tt.want {
				t.Errorf("mapProviderStatus(%q) = %q, want %q", tt.provider, got, tt.want)
			}
		})
	}
}

func TestBilling_SubscriptionUpdatedFlowsToUser(t *testing.T) {
	f := newBillingFixture(t)
	u := f.seedUser(t)
	ctx := context.Background()

	if err := f.svc.HandleCheckoutCompleted(ctx, CheckoutCompleted{
		UserID: u.ID, Kind: PurchasePlan, PlanID: plan.Pro,
		CustomerID: "cus_1", SubscriptionID: "sub_1",
	}); err != nil {
		t.Fatalf("seed purchase: %v", err)
	}

	if err := f.svc.HandleSubscriptionUpdated(ctx, "sub_1", "past_due"); err != nil {
		t.Fatalf("HandleSubscriptionUpdated: %v", err)
	}
	if got := f.users.Users[u.ID].SubscriptionStatus; got != user.SubscriptionExpired {
		t.Errorf("user status = %q, want expired", got)
	}
}

func TestBilling_SubscriptionDeletedDowngradesToFree(t *testing.T) {
	f := newBillingFixture(t)
	u := f.seedUser(t)
	ctx := context.Background()

	if err := f.svc.HandleCheckoutCompleted(ctx, CheckoutCompleted{
		UserID: u.ID, Kind: PurchasePlan, PlanID: plan.Pro,
		CustomerID: "cus_1", SubscriptionID: "sub_1",
	}); err != nil {
		t.Fatalf("seed purchase: %v", err)
	}

	if err := f.svc.HandleSubscriptionDeleted(ctx, "sub_1"); err != nil {
		t.Fatalf("HandleSubscriptionDeleted: %v", err)
	}

	stored := f.users.Users[u.ID]
	if stored.PlanID != plan.Free {
		t.Errorf("plan = %q, want free after downgrade", stored.PlanID)
	}
	if stored.SubscriptionStatus != user.SubscriptionCanceled {
		t.Errorf("status = %q, want canceled", stored.SubscriptionStatus)
	}
	if stored.StripeSubscriptionID != nil {
		t.Errorf("subscription id = %v, want cleared", stored.StripeSubscriptionID)
	}
}

func TestBilling_SubscriptionDeletedCancelsAddons(t *testing.T) {
	f := newBillingFixture(t)
	u := f.seedUser(t)
	ctx := context.Background()

	if err := f.svc.HandleCheckoutCompleted(ctx, CheckoutCompleted{
		UserID: u.ID, Kind: PurchaseAddon, AddonKey: plan.AddonAITurbo,
		SubscriptionID: "sub_addon_9",
	}); err != nil {
		t.Fatalf("seed addon: %v", err)
	}

	if err := f.svc.HandleSubscriptionDeleted(ctx, "sub_addon_9"); err != nil {
		t.Fatalf("HandleSubscriptionDeleted: %v", err)
	}

	addons, _ := f.plans.ListAddons(ctx, u.ID)
	if len(addons) != 1 || addons[0].Status != plan.AddonStatusCanceled {
		t.Errorf("addon after cascade = %+v", addons)
	}
}

func TestBilling_GatewayFailureSurfaces(t *testing.T) {
	f := newBillingFixture(t)
	u := f.seedUser(t)
	f.gateway.err = fmt.Errorf("stripe is down")

	_, err := f.svc.CreateCheckout(context.Background(), u.ID, CheckoutRequest{
		Kind: PurchasePlan, PlanID: plan.Pro, BillingPeriod: "monthly",
		SuccessURL: "https://app.example/ok", CancelURL: "https://app.example/cancel",
	})
	if err == nil {
		t.Fatal("expected external service error")
	}
}
