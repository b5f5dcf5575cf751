package profile

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound      = errors.New("edit request not found")
	ErrInvalidStatus = errors.New("status must be APPROVED or REJECTED")
)

// UnknownFieldError carries the allow-list so clients see exactly what is
// editable.
type UnknownFieldError struct {
	Field string
}

func (e *UnknownFieldError) Error() string {
	return fmt.Sprintf("field %q is not editable; allowed fields: %s",
		e.Field, strings.Join(AllowedFields(), ", "))
}

// CoercionError marks a new value that does not parse as the field's type.
// It fails the whole resolve transaction, not just the one request.
type CoercionError struct {
	Column string
	Value  string
	Kind   string
}

func (e *CoercionError) Error() string {
	return fmt.Sprintf("value %q for %s does not parse as %s", e.Value, e.Column, e.Kind)
}
