package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalid is matched by every configuration validation error
var ErrInvalid = errors.New("invalid configuration")

// FieldError is one invalid or missing environment variable
type FieldError struct {
	Field   string
	Message string
}

func (e FieldError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError collects every problem found while loading the environment
type ValidationError struct {
	Items []FieldError
}

func (e ValidationError) Error() string {
	if len(e.Items) == 0 {
		return "configuration invalid"
	}

	var b strings.Builder
	b.WriteString("configuration invalid:")
	for _, item := range e.Items {
		b.WriteString("\n - ")
		b.WriteString(item.Error())
	}
	return b.String()
}

// Add records a problem with field
func (e *ValidationError) Add(field, msg string) {
	e.Items = append(e.Items, FieldError{
		Field:   field,
		Message: msg,
	})
}

// Is makes errors.Is(err, ErrInvalid) true
func (e ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

// HasAny reports whether any problem was recorded
func (e ValidationError) HasAny() bool {
	return len(e.Items) > 0
}

// Fields returns the names of the offending variables in the order they were found
func (e ValidationError) Fields() []string {
	out := make([]string, 0, len(e.Items))
	for _, item := range e.Items {
		out = append(out, item.Field)
	}
	return out
}
