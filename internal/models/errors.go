package models

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a domain rule violation
type ErrorKind string

const (
	KindMissingRequiredField ErrorKind = "MISSING_REQUIRED_FIELD"
	KindInvalidFormat        ErrorKind = "INVALID_FORMAT"
	KindInvalidEnumValue     ErrorKind = "INVALID_ENUM_VALUE"
	KindRangeViolation       ErrorKind = "RANGE_VIOLATION"
	KindCrossFieldViolation  ErrorKind = "CROSS_FIELD_VIOLATION"
	KindCapacityExceeded     ErrorKind = "CAPACITY_EXCEEDED"
	KindDuplicateEntry       ErrorKind = "DUPLICATE_ENTRY"
	KindNotFound             ErrorKind = "NOT_FOUND"
	KindUnsupportedField     ErrorKind = "UNSUPPORTED_FIELD"
)

// Sentinel errors, one per kind, for use with errors.Is
var (
	ErrMissingRequiredField = errors.New("missing required field")
	ErrInvalidFormat        = errors.New("invalid format")
	ErrInvalidEnumValue     = errors.New("invalid enum value")
	ErrRangeViolation       = errors.New("range violation")
	ErrCrossFieldViolation  = errors.New("cross-field violation")
	ErrCapacityExceeded     = errors.New("capacity exceeded")
	ErrDuplicateEntry       = errors.New("duplicate entry")
	ErrNotFound             = errors.New("not found")
	ErrUnsupportedField     = errors.New("unsupported field")
)

// Repository-level errors
var (
	ErrEmployeeNotFound = fmt.Errorf("employee %w", ErrNotFound)
	ErrEmployeeExists   = errors.New("employee already exists")
	ErrIdentityMismatch = errors.New("document number does not match employee identity")
	ErrUnknownStep      = errors.New("unknown update step")
)

var kindSentinels = map[ErrorKind]error{
	KindMissingRequiredField: ErrMissingRequiredField,
	KindInvalidFormat:        ErrInvalidFormat,
	KindInvalidEnumValue:     ErrInvalidEnumValue,
	KindRangeViolation:       ErrRangeViolation,
	KindCrossFieldViolation:  ErrCrossFieldViolation,
	KindCapacityExceeded:     ErrCapacityExceeded,
	KindDuplicateEntry:       ErrDuplicateEntry,
	KindNotFound:             ErrNotFound,
	KindUnsupportedField:     ErrUnsupportedField,
}

// ValidationError represents a single violated rule
type ValidationError struct {
	Kind    ErrorKind `json:"kind"`
	Field   string    `json:"field"`
	Message string    `json:"message"`
	Allowed []string  `json:"allowed,omitempty"`
}

// NewValidationError creates a validation error for a field
func NewValidationError(kind ErrorKind, field, message string) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Message: message}
}

func newEnumError(field, raw string, allowed []string) *ValidationError {
	return &ValidationError{
		Kind:    KindInvalidEnumValue,
		Field:   field,
		Message: fmt.Sprintf("invalid value %q, allowed values: %s", raw, strings.Join(allowed, ", ")),
		Allowed: append([]string(nil), allowed...),
	}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

// Is matches the sentinel of the error kind
func (e *ValidationError) Is(target error) bool {
	return kindSentinels[e.Kind] == target
}

// withField returns a copy of the error rooted under the given field path
func (e *ValidationError) withField(field string) *ValidationError {
	cp := *e
	cp.Field = field
	return &cp
}

// ValidationErrors collects every violation found in a single pass
type ValidationErrors []*ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(ve))
	for i, e := range ve {
		msgs[i] = e.Error()
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Unwrap exposes the individual violations to errors.Is and errors.As
func (ve ValidationErrors) Unwrap() []error {
	errs := make([]error, len(ve))
	for i, e := range ve {
		errs[i] = e
	}
	return errs
}

// Add appends a new violation
func (ve *ValidationErrors) Add(kind ErrorKind, field, message string) {
	*ve = append(*ve, NewValidationError(kind, field, message))
}

// Merge appends err at the given field path. A single scalar violation takes
// the path as its field; nested ValidationErrors are rooted under it.
// Errors that are not validation errors are recorded as INVALID_FORMAT.
func (ve *ValidationErrors) Merge(path string, err error) {
	if err == nil {
		return
	}
	var list ValidationErrors
	var single *ValidationError
	switch {
	case errors.As(err, &list):
		for _, e := range list {
			*ve = append(*ve, e.withField(joinField(path, e.Field)))
		}
	case errors.As(err, &single):
		if path == "" {
			path = single.Field
		}
		*ve = append(*ve, single.withField(path))
	default:
		ve.Add(KindInvalidFormat, path, err.Error())
	}
}

// HasKind reports whether any violation is of the given kind
func (ve ValidationErrors) HasKind(kind ErrorKind) bool {
	for _, e := range ve {
		if e.Kind == kind {
			return true
		}
	}
	return false
}

// OrNil returns nil when there are no violations so the result can be returned as error
func (ve ValidationErrors) OrNil() error {
	if len(ve) == 0 {
		return nil
	}
	return ve
}

func joinField(prefix, field string) string {
	switch {
	case prefix == "":
		return field
	case field == "":
		return prefix
	case strings.HasPrefix(field, "["):
		return prefix + field
	default:
		return prefix + "." + field
	}
}

// hasField reports whether a violation was already recorded for field or one of its children
func (ve ValidationErrors) hasField(field string) bool {
	for _, e := range ve {
		if e.Field == field || strings.HasPrefix(e.Field, field+".") || strings.HasPrefix(e.Field, field+"[") {
			return true
		}
	}
	return false
}

// require records a missing field unless a parse failure already explains it
func (ve *ValidationErrors) require(field string, missing bool) bool {
	if missing && !ve.hasField(field) {
		ve.Add(KindMissingRequiredField, field, "is required")
	}
	return !missing
}

func indexedField(name string, i int) string {
	return fmt.Sprintf("%s[%d]", name, i)
}
