package services

import (
	"context"
	"testing"
	"time"

	"github.com/designlab-hq/designlab/internal/auth"
	"github.com/designlab-hq/designlab/internal/config"
	"github.com/designlab-hq/designlab/internal/domain/plan"
	"github.com/designlab-hq/designlab/internal/domain/user"
	"github.com/designlab-hq/designlab/internal/pkg/errors"
	"github.com/designlab-hq/designlab/internal/testutil"
)

func newAuthFixture(t *testing.T) (*testutil.MockUserRepo, *AuthService) {
	t.Helper()
	repo := testutil.NewMockUserRepo()
	cfg := config.AuthConfig{
		JWTSecret:          "test-secret",
		AccessTokenExpiry:  15 * time.Minute,
		RefreshTokenExpiry: 7 * 24 * time.Hour,
		BCryptCost:         4, // fast for tests
	}
	return repo, NewAuthService(repo, cfg, testutil.NewLogger())
}

func TestAuth_RegisterAndLogin(t *testing.T) {
	_, svc := newAuthFixture(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterRequest{
		Email:    "New@Example.com",
		Username: "newuser",
		Password: "hunter2hunter2",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if result.User.Email != "new@example.com" {
		t.Errorf("email = %q, want normalized", result.User.Email)
	}
	if result.User.PlanID != plan.Free || result.User.Role != user.RoleUser {
		t.Errorf("new user = plan %q role %q, want free/user", result.User.PlanID, result.User.Role)
	}
	if result.User.Language != "pt-BR" {
		t.Errorf("language = %q, want pt-BR default", result.User.Language)
	}
	if result.Tokens.AccessToken == "" || result.Tokens.RefreshToken == "" {
		t.Error("missing tokens")
	}

	claims, err := auth.ParseClaims(result.Tokens.AccessToken, "test-secret")
	if err != nil {
		t.Fatalf("ParseClaims: %v", err)
	}
	if claims.UserID != result.User.ID || claims.Role != user.RoleUser {
		t.Errorf("claims = %+v", claims)
	}

	login, err := svc.Login(ctx, LoginRequest{Email: "new@example.com", Password: "hunter2hunter2"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if login.User.ID != result.User.ID {
		t.Errorf("login user = %d, want %d", login.User.ID, result.User.ID)
	}
}

func TestAuth_DuplicateEmail(t *testing.T) {
	_, svc := newAuthFixture(t)
	ctx := context.Background()

	req := RegisterRequest{Email: "dupe@example.com", Username: "dupe", Password: "password123"}
	if _, err := svc.Register(ctx, req); err != nil {
		t.Fatalf("first register: %v", err)
	}
	_, err := svc.Register(ctx, req)
	if err == nil {
		t.Fatal("expected conflict")
	}
	appErr, ok := err.(*errors.AppError)
	if !ok || appErr.Code != errors.ErrCodeConflict {
		t.Fatalf("error = %v, want CONFLICT", err)
	}
}

func TestAuth_LoginRejections(t *testing.T) {
	_, svc := newAuthFixture(t)
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterRequest{
		Email: "who@example.com", Username: "who", Password: "password123",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	tests := []struct {
		name  string
		email string
		pass  string
	}{
		{"wrong password", "who@example.com", "wrong-password"},
		{"unknown email", "nobody@example.com", "password123"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Login(ctx, LoginRequest{Email: tt.email, Password: tt.pass})
			if err == nil {
				t.Fatal("expected unauthorized")
			}
			appErr, ok := err.(*errors.AppError)
			if !ok || appErr.Code != errors.ErrCodeUnauthorized {
				t.Fatalf("error = %v, want UNAUTHORIZED", err)
			}
			// Both failure modes share one message.
			if appErr.Message != "Invalid email or password" {
				t.Errorf("message = %q", appErr.Message)
			}
		})
	}
}

func TestAuth_Refresh(t *testing.T) {
	repo, svc := newAuthFixture(t)
	ctx := context.Background()

	result, err := svc.Register(ctx, RegisterRequest{
		Email: "refresh@example.com", Username: "refresh", Password: "password123",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	// Role promotion lands in the rotated tokens.
	repo.Users[result.User.ID].Role = user.RoleAdmin

	rotated, err := svc.Refresh(ctx, result.Tokens.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	claims, err := auth.ParseClaims(rotated.Tokens.AccessToken, "test-secret")
	if err != nil {
		t.Fatalf("ParseClaims: %v", err)
	}
	if claims.Role != user.RoleAdmin {
		t.Errorf("rotated role = %q, want admin", claims.Role)
	}

	if _, err := svc.Refresh(ctx, "not-a-token"); err == nil {
		t.Error("expected rejection of malformed token")
	}
}
