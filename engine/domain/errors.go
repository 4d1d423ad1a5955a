package domain

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Sentinel errors. Typed errors below wrap one of these so callers can use errors.Is.
var (
	ErrUnknownErrorKind     = errors.New("unknown error type")
	ErrTemplateNotFound     = errors.New("template not found")
	ErrMissingScenarioInput = errors.New("either scenario or template_id is required")
	ErrMissingExternalID    = errors.New("user_ern is required")
	ErrParse                = errors.New("scenario parse error")
	ErrStore                = errors.New("scenario store failure")
	ErrInvalidStage         = errors.New("invalid action")
	ErrInvalidCategory      = errors.New("invalid template category")
)

// UnknownErrorKindError reports an error_type outside the catalog.
type UnknownErrorKindError struct {
	Value string
	Valid []string
}

func (e *UnknownErrorKindError) Error() string {
	return fmt.Sprintf("Unknown error type: %s", e.Value)
}

func (e *UnknownErrorKindError) Unwrap() error { return ErrUnknownErrorKind }

// TemplateNotFoundError reports a template id absent from the catalog.
type TemplateNotFoundError struct {
	ID        string
	Available []string
}

func (e *TemplateNotFoundError) Error() string {
	return fmt.Sprintf("Template not found: %s", e.ID)
}

func (e *TemplateNotFoundError) Unwrap() error { return ErrTemplateNotFound }

// ParseError reports a representation value that cannot be coerced.
// Field is the dotted path of the offending key, e.g. "user_info.phone".
type ParseError struct {
	Field  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// NewParseError creates a ParseError.
func NewParseError(field, reason string) *ParseError {
	return &ParseError{Field: field, Reason: reason}
}

// Within prefixes the field path with a parent key.
func (e *ParseError) Within(parent string) *ParseError {
	if e.Field == "" {
		return &ParseError{Field: parent, Reason: e.Reason}
	}
	return &ParseError{Field: parent + "." + e.Field, Reason: e.Reason}
}

// StoreError wraps a failure reported by the external scenario store.
type StoreError struct {
	Op  string // "put" or "delete"
	Key string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s %q: %v", e.Op, e.Key, e.Err)
}

// Is matches ErrStore as well as the wrapped cause.
func (e *StoreError) Is(target error) bool { return target == ErrStore }

func (e *StoreError) Unwrap() error { return e.Err }

// InvalidStageError reports an action that has no settable slot.
type InvalidStageError struct {
	Value string
	Valid []string
}

func (e *InvalidStageError) Error() string {
	return fmt.Sprintf("invalid action %q (valid: %s)", e.Value, strings.Join(e.Valid, ", "))
}

func (e *InvalidStageError) Unwrap() error { return ErrInvalidStage }

// InvalidCategoryError reports an unsupported template category filter.
type InvalidCategoryError struct {
	Value string
}

func (e *InvalidCategoryError) Error() string {
	return fmt.Sprintf("invalid category %q (valid: normal, error, corp, all)", e.Value)
}

func (e *InvalidCategoryError) Unwrap() error { return ErrInvalidCategory }

func quote(s string) string { return strconv.Quote(s) }
