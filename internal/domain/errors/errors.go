package errors

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalid = errors.New("invalid")

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

// ValidationError collects every field problem instead of stopping at the first.
type ValidationError struct {
	Items []FieldError
}

func (e ValidationError) Error() string {
	if len(e.Items) == 0 {
		return "invalid config"
	}

	var b strings.Builder
	b.WriteString("invalid config:")
	for _, item := range e.Items {
		b.WriteString("\n - ")
		b.WriteString(item.Error())
	}
	return b.String()
}

func (e *ValidationError) Add(field, msg string) {
	e.Items = append(e.Items, FieldError{Field: field, Message: msg})
}

func (e *ValidationError) Addf(field, format string, args ...any) {
	e.Add(field, fmt.Sprintf(format, args...))
}

func (e ValidationError) Is(target error) bool {
	return target == ErrInvalid
}

func (e ValidationError) HasAny() bool {
	return len(e.Items) > 0
}

// Err returns nil when nothing was collected, so callers can `return ve.Err()`.
func (e ValidationError) Err() error {
	if !e.HasAny() {
		return nil
	}
	return e
}

// Fields lists the offending field names in insertion order.
func (e ValidationError) Fields() []string {
	out := make([]string, 0, len(e.Items))
	for _, it := range e.Items {
		out = append(out, it.Field)
	}
	return out
}
