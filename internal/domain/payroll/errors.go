package payroll

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("salary structure not found")
	ErrComponentNotFound    = errors.New("component not found")
	ErrInvalidPayCycle      = errors.New("pay cycle must be Monthly, Weekly or Biweekly")
	ErrUnknownComponentType = errors.New("component type must be percentage or fixed")
	ErrInvalidSide          = errors.New("side must be earnings or deductions")
	ErrEmptyComponentName   = errors.New("component name is required")
)

// ImmutableFieldError names the field the caller tried to change and the
// fields that remain user-mutable through the update path.
type ImmutableFieldError struct {
	Field string
}

func (e *ImmutableFieldError) Error() string {
	return fmt.Sprintf("field %q is immutable; only provident_fund_percentage and additional components may be updated", e.Field)
}

var immutableCoreFields = map[string]bool{
	"basic_salary":     true,
	"hra":              true,
	"allowance":        true,
	"professional_tax": true,
}
