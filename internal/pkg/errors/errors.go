package errors

import (
	"fmt"
	"net/http"
)

// AppError carries an API error code, a user-facing message and the HTTP
// status to respond with. Internal holds the wrapped cause, never exposed.
type AppError struct {
	Code       string      `json:"code"`
	Message    string      `json:"message"`
	StatusCode int         `json:"-"`
	Internal   error       `json:"-"`
	Details    interface{} `json:"details,omitempty"`
}

func (e *AppError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Internal)
	}
	return e.Message
}

// Unwrap returns the internal error for errors.Is and errors.As
func (e *AppError) Unwrap() error {
	return e.Internal
}

// Error codes
const (
	ErrCodeInternal            = "INTERNAL_ERROR"
	ErrCodeBadRequest          = "BAD_REQUEST"
	ErrCodeUnauthorized        = "UNAUTHORIZED"
	ErrCodeForbidden           = "FORBIDDEN"
	ErrCodeNotFound            = "NOT_FOUND"
	ErrCodeConflict            = "CONFLICT"
	ErrCodeValidation          = "VALIDATION_ERROR"
	ErrCodeDatabase            = "DATABASE_ERROR"
	ErrCodeLimitExceeded       = "LIMIT_EXCEEDED"
	ErrCodePreconditionFailed  = "PRECONDITION_FAILED"
	ErrCodeDuplicateSubmission = "DUPLICATE_SUBMISSION"
	ErrCodeExternalService     = "EXTERNAL_SERVICE_ERROR"
	ErrCodeRateLimited         = "RATE_LIMITED"
	ErrCodeServiceUnavailable  = "SERVICE_UNAVAILABLE"
)

// New creates a new AppError
func New(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap wraps an error with an AppError
func Wrap(err error, code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
		Internal:   err,
	}
}

// WithDetails adds details to an AppError
func (e *AppError) WithDetails(details interface{}) *AppError {
	e.Details = details
	return e
}

// Internal creates an internal server error
func Internal(message string, err error) *AppError {
	return Wrap(err, ErrCodeInternal, message, http.StatusInternalServerError)
}

// BadRequest creates a bad request error
func BadRequest(message string) *AppError {
	return New(ErrCodeBadRequest, message, http.StatusBadRequest)
}

// Unauthorized creates an unauthorized error
func Unauthorized(message string) *AppError {
	return New(ErrCodeUnauthorized, message, http.StatusUnauthorized)
}

// Forbidden creates a forbidden error
func Forbidden(message string) *AppError {
	return New(ErrCodeForbidden, message, http.StatusForbidden)
}

// NotFound creates a not found error
func NotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

// Conflict creates a conflict error
func Conflict(message string) *AppError {
	return New(ErrCodeConflict, message, http.StatusConflict)
}

// ValidationError creates a validation error with field-level details
func ValidationError(message string, details interface{}) *AppError {
	return New(ErrCodeValidation, message, http.StatusBadRequest).WithDetails(details)
}

// DatabaseError creates a database error
func DatabaseError(message string, err error) *AppError {
	return Wrap(err, ErrCodeDatabase, message, http.StatusInternalServerError)
}

// LimitExceeded creates a plan-ceiling rejection. The message names the
// concrete limit; details always carry upgrade_required so clients can
// route the user to the upgrade flow.
func LimitExceeded(message string, limit int) *AppError {
	return New(ErrCodeLimitExceeded, message, http.StatusForbidden).WithDetails(map[string]interface{}{
		"upgrade_required": true,
		"limit":            limit,
	})
}

// FeatureLocked creates a boolean feature-gate rejection (no numeric ceiling).
func FeatureLocked(message string) *AppError {
	return New(ErrCodeLimitExceeded, message, http.StatusForbidden).WithDetails(map[string]interface{}{
		"upgrade_required": true,
	})
}

// PreconditionFailed creates a phase-ordering rejection naming the missing
// prior-phase output.
func PreconditionFailed(message, missingField string) *AppError {
	return New(ErrCodePreconditionFailed, message, http.StatusBadRequest).WithDetails(map[string]interface{}{
		"missing": missingField,
	})
}

// DuplicateSubmission creates the dedup-guard rejection.
func DuplicateSubmission(message string) *AppError {
	return New(ErrCodeDuplicateSubmission, message, http.StatusConflict)
}

// ExternalService creates an upstream failure error
func ExternalService(service string, err error) *AppError {
	return Wrap(err, ErrCodeExternalService,
		fmt.Sprintf("%s request failed", service),
		http.StatusBadGateway)
}

// RateLimited creates a rate limited error
func RateLimited(message string) *AppError {
	return New(ErrCodeRateLimited, message, http.StatusTooManyRequests)
}

// ServiceUnavailable creates a service unavailable error
func ServiceUnavailable(message string) *AppError {
	return New(ErrCodeServiceUnavailable, message, http.StatusServiceUnavailable)
}
