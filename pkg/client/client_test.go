package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *Client) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient(Config{BaseURL: srv.URL})
	return srv, c
}

func TestClient_UnwrapsEnvelope(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v1/projects/7" {
			t.Errorf("path = %s", r.URL.Path)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data":    map[string]interface{}{"id": 7, "name": "Onboarding", "status": "in_progress"},
		})
	})

	p, err := c.Projects().Get(context.Background(), 7)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if p.ID != 7 || p.Name != "Onboarding" {
		t.Errorf("project = %+v", p)
	}
}

func TestClient_SendsBearerToken(t *testing.T) {
	var gotAuth string
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]interface{}{"success": true, "data": map[string]interface{}{}})
	})

	c.SetToken("tok_abc")
	if _, err := c.Me(context.Background()); err != nil {
		t.Fatalf("me: %v", err)
	}
	if gotAuth != "Bearer tok_abc" {
		t.Errorf("Authorization = %q", gotAuth)
	}
}

func TestClient_APIError(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": false,
			"error": map[string]interface{}{
				"code":    "LIMIT_EXCEEDED",
				"message": "Project limit reached",
				"details": map[string]interface{}{"upgrade_required": true, "limit": 1},
			},
		})
	})

	_, err := c.Projects().Create(context.Background(), CreateProjectRequest{Name: "One Too Many"})
	if err == nil {
		t.Fatal("expected error")
	}

	apiErr, ok := err.(*APIError)
	if !ok {
		t.Fatalf("error type = %T", err)
	}
	if apiErr.StatusCode != http.StatusForbidden {
		t.Errorf("status = %d", apiErr.StatusCode)
	}
	if !apiErr.IsLimitExceeded() {
		t.Error("IsLimitExceeded = false")
	}
	if !apiErr.UpgradeRequired() {
		t.Error("UpgradeRequired = false")
	}
	if apiErr.IsDuplicate() {
		t.Error("IsDuplicate = true for a limit error")
	}
}

func TestClient_LoginStoresToken(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"user":   map[string]interface{}{"id": 1, "email": "a@b.co"},
				"tokens": map[string]string{"accessToken": "acc", "refreshToken": "ref"},
			},
		})
	})

	result, err := c.Login(context.Background(), "a@b.co", "secret")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Tokens.AccessToken != "acc" {
		t.Errorf("access token = %q", result.Tokens.AccessToken)
	}
	if c.GetToken() != "acc" {
		t.Errorf("client token = %q, want login to store it", c.GetToken())
	}
}

func TestClient_PaginatedList(t *testing.T) {
	_, c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("page_size"); got != "2" {
			t.Errorf("page_size = %q", got)
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"success": true,
			"data": map[string]interface{}{
				"data":        []map[string]interface{}{{"id": 1}, {"id": 2}},
				"page":        1,
				"page_size":   2,
				"total_items": 5,
				"total_pages": 3,
			},
		})
	})

	page, err := c.Projects().List(context.Background(), &ListOptions{Page: 1, PageSize: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page.Data) != 2 || page.TotalItems != 5 || page.TotalPages != 3 {
		t.Errorf("page = %+v", page)
	}
}
