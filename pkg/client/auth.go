package client

import "context"

// RegisterRequest is the account registration payload
type RegisterRequest struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
	Language string `json:"language,omitempty"`
}

// Register creates an account and stores the returned access token on the client
func (c *Client) Register(ctx context.Context, req RegisterRequest) (*AuthResult, error) {
	var result AuthResult
	if err := c.doRequest(ctx, "POST", "/api/v1/auth/register", req, &result); err != nil {
		return nil, err
	}
	c.SetToken(result.Tokens.AccessToken)
	return &result, nil
}

// Login authenticates and stores the returned access token on the client
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	body := map[string]string{"email": email, "password": password}
	var result AuthResult
	if err := c.doRequest(ctx, "POST", "/api/v1/auth/login", body, &result); err != nil {
		return nil, err
	}
	c.SetToken(result.Tokens.AccessToken)
	return &result, nil
}

// Refresh exchanges a refresh token for a fresh pair and stores the new
// access token on the client
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	body := map[string]string{"refreshToken": refreshToken}
	var result AuthResult
	if err := c.doRequest(ctx, "POST", "/api/v1/auth/refresh", body, &result); err != nil {
		return nil, err
	}
	c.SetToken(result.Tokens.AccessToken)
	return &result, nil
}

// Me returns the authenticated user
func (c *Client) Me(ctx context.Context) (*User, error) {
	var u User
	if err := c.doRequest(ctx, "GET", "/api/v1/auth/me", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}
