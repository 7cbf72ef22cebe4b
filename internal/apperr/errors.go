package apperr

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	// ErrConfiguration marks caller defects in engine configuration (bad ranges, unknown
	// distributions, non-positive iteration counts, missing catalog entries).
	ErrConfiguration = errors.New("configuration error")

	// ErrInvalidInputs marks workload inputs that failed upstream validation.
	ErrInvalidInputs = errors.New("invalid workload inputs")

	ErrUnknownDistribution = errors.New("unknown distribution")
	ErrUnknownWorkType     = errors.New("unknown work type")
	ErrMissingCostRate     = errors.New("missing cost rate")
)

// ConfigurationError carries the offending field and an actionable reason.
type ConfigurationError struct {
	Field  string
	Reason string
	Err    error
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func (e *ConfigurationError) Unwrap() error {
	return e.Err
}

// Configuration builds a ConfigurationError with a formatted reason.
func Configuration(field, format string, args ...any) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// ConfigurationWrap is Configuration with an underlying cause kept for errors.Is.
func ConfigurationWrap(cause error, field, format string, args ...any) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...), Err: cause}
}

// ValidationError holds per-field validation messages for workload inputs.
type ValidationError struct {
	Fields map[string]string `json:"errors"`
}

func NewValidationError() *ValidationError {
	return &ValidationError{Fields: make(map[string]string)}
}

func (e *ValidationError) Add(field, message string) {
	e.Fields[field] = message
}

func (e *ValidationError) HasErrors() bool {
	return len(e.Fields) > 0
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s: %s", ErrInvalidInputs, strings.Join(parts, "; "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInputs
}
