package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/designlab-hq/designlab/internal/domain/plan"
	"github.com/designlab-hq/designlab/internal/domain/user"
	"github.com/designlab-hq/designlab/internal/pkg/validator"
	"github.com/designlab-hq/designlab/internal/services"
	"github.com/designlab-hq/designlab/internal/testutil"
)

type stubParser struct {
	evt *WebhookEvent
	err error
}

func (s *stubParser) ParseWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	return s.evt, s.err
}

type stubGateway struct{}

func (stubGateway) CreateCheckoutSession(ctx context.Context, p services.CheckoutParams) (string, error) {
	return "https://checkout.example/session_123", nil
}

func newBillingHandlerFixture(t *testing.T, parser WebhookParser) (*testutil.MockUserRepo, *BillingHandler) {
	t.Helper()
	users := testutil.NewMockUserRepo()
	plans := testutil.NewMockPlanRepo()
	svc := services.NewBillingService(users, plans, stubGateway{}, testutil.NewLogger())
	handler := NewBillingHandler(svc, parser, testutil.NewLogger(), validator.New())
	return users, handler
}

func TestBillingHandler_WebhookBadSignature(t *testing.T) {
	_, handler := newBillingHandlerFixture(t, &stubParser{err: errors.New("signature mismatch")})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/billing/webhook", strings.NewReader("{}"))
	req.Header.Set("Stripe-Signature", "t=1,v1=bad")
	rr := httptest.NewRecorder()

	handler.Webhook(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusBadRequest)
	}
}

func TestBillingHandler_WebhookIgnoredEvent(t *testing.T) {
	_, handler := newBillingHandlerFixture(t, &stubParser{evt: nil})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/billing/webhook", strings.NewReader("{}"))
	rr := httptest.NewRecorder()

	handler.Webhook(rr, req)

	// Unhandled events must still be acknowledged so the provider stops
	// retrying them.
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rr.Code, http.StatusOK)
	}
}

func TestBillingHandler_WebhookCheckoutCompleted(t *testing.T) {
	parser := &stubParser{}
	users, handler := newBillingHandlerFixture(t, parser)

	u := &user.User{Email: "buyer@example.com", PlanID: plan.Free, SubscriptionStatus: user.SubscriptionNone}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}

	parser.evt = &WebhookEvent{
		Type: EventCheckoutCompleted,
		Checkout: &services.CheckoutCompleted{
			UserID:         u.ID,
			Kind:           services.PurchasePlan,
			PlanID:         plan.Pro,
			BillingPeriod:  "monthly",
			CustomerID:     "cus_123",
			SubscriptionID: "sub_123",
		},
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/billing/webhook", strings.NewReader("{}"))
	rr := httptest.NewRecorder()

	handler.Webhook(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rr.Code, rr.Body.String())
	}

	updated, err := users.GetByID(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("reload user: %v", err)
	}
	if updated.PlanID != plan.Pro {
		t.Errorf("plan = %q, want %q", updated.PlanID, plan.Pro)
	}
	if updated.SubscriptionStatus != user.SubscriptionActive {
		t.Errorf("subscription status = %q, want active", updated.SubscriptionStatus)
	}
}

func TestBillingHandler_ListPlans(t *testing.T) {
	_, handler := newBillingHandlerFixture(t, &stubParser{})

	req := httptest.NewRequest(http.MethodGet, "/api/v1/plans", nil)
	rr := httptest.NewRecorder()

	handler.ListPlans(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d (body %s)", rr.Code, rr.Body.String())
	}

	var resp struct {
		Data []plan.Plan `json:"data"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Data) == 0 {
		t.Error("expected seeded plan catalog")
	}
}
