package client

import "fmt"

// APIError represents an error returned by the API
type APIError struct {
	StatusCode int                    `json:"-"`
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error [%s]: %s (status: %d)", e.Code, e.Message, e.StatusCode)
	}
	return fmt.Sprintf("API error: %s (status: %d)", e.Message, e.StatusCode)
}

// IsNotFound returns true for 404 responses
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == 404
}

// IsUnauthorized returns true for 401 responses
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == 401
}

// IsLimitExceeded returns true when a plan ceiling rejected the request
func (e *APIError) IsLimitExceeded() bool {
	return e.Code == "LIMIT_EXCEEDED"
}

// UpgradeRequired returns true when the error carries the upgrade signal
func (e *APIError) UpgradeRequired() bool {
	if e.Details == nil {
		return false
	}
	v, ok := e.Details["upgrade_required"].(bool)
	return ok && v
}

// IsDuplicate returns true when the duplicate-creation guard rejected the
// request
func (e *APIError) IsDuplicate() bool {
	return e.Code == "DUPLICATE_SUBMISSION"
}

// IsServerError returns true for 5xx responses
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500
}
