// Package testutil provides shared fixtures and map-backed fakes for service
// and handler tests.
package testutil

import (
	"github.com/designlab-hq/designlab/internal/pkg/logger"
)

// NewLogger returns a quiet logger for tests.
func NewLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "error", Format: "json"})
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }

// StrPtr returns a pointer to v.
func StrPtr(v string) *string { return &v }

// Float64Ptr returns a pointer to v.
func Float64Ptr(v float64) *float64 { return &v }
