package profile

import (
	"context"
	"strings"
)

type StoreAPI interface {
	Create(ctx context.Context, req Request) (string, error)
	ListPending(ctx context.Context) ([]Request, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Request, error)
	Summary(ctx context.Context) ([]Summary, error)
	Resolve(ctx context.Context, employeeID, status, comments, reviewerID string) (ResolveResult, error)
	BankDetails(ctx context.Context, employeeID string) (BankDetails, error)
}

type Service struct {
	Store StoreAPI
}

func NewService(store StoreAPI) *Service {
	return &Service{Store: store}
}

// Submit records a PENDING edit request. The field must belong to the
// catalog and the new value must already parse as the field's type, so a
// later approval cannot fail on this request.
func (s *Service) Submit(ctx context.Context, employeeID, field, oldValue, newValue, reason string) (string, error) {
	field = strings.ToLower(strings.TrimSpace(field))
	spec, ok := LookupField(field)
	if !ok {
		return "", &UnknownFieldError{Field: field}
	}
	if _, err := ParseValue(spec, newValue); err != nil {
		return "", err
	}
	return s.Store.Create(ctx, Request{
		EmployeeID: employeeID,
		FieldName:  field,
		OldValue:   oldValue,
		NewValue:   strings.TrimSpace(newValue),
		Reason:     reason,
	})
}

func (s *Service) ListPending(ctx context.Context) ([]Request, error) {
	return s.Store.ListPending(ctx)
}

func (s *Service) History(ctx context.Context, employeeID string) ([]Request, error) {
	return s.Store.ListByEmployee(ctx, employeeID)
}

func (s *Service) Summary(ctx context.Context) ([]Summary, error) {
	return s.Store.Summary(ctx)
}

// BankDetails returns the employee's bank record with the stored
// identifiers decrypted for the reviewer.
func (s *Service) BankDetails(ctx context.Context, employeeID string) (BankDetails, error) {
	return s.Store.BankDetails(ctx, employeeID)
}

// Resolve settles all of an employee's pending requests with one decision.
func (s *Service) Resolve(ctx context.Context, employeeID, status, comments, reviewerID string) (ResolveResult, error) {
	if status != StatusApproved && status != StatusRejected {
		return ResolveResult{}, ErrInvalidStatus
	}
	return s.Store.Resolve(ctx, employeeID, status, comments, reviewerID)
}
