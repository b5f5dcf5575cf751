package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProfileStore struct {
	created  []Request
	resolved []string
}

func (f *fakeProfileStore) Create(_ context.Context, req Request) (string, error) {
	f.created = append(f.created, req)
	return "req-1", nil
}

func (f *fakeProfileStore) ListPending(context.Context) ([]Request, error) { return nil, nil }

func (f *fakeProfileStore) ListByEmployee(context.Context, string) ([]Request, error) {
	return nil, nil
}

func (f *fakeProfileStore) Summary(context.Context) ([]Summary, error) { return nil, nil }

func (f *fakeProfileStore) BankDetails(_ context.Context, employeeID string) (BankDetails, error) {
	return BankDetails{EmployeeID: employeeID}, nil
}

func (f *fakeProfileStore) Resolve(_ context.Context, employeeID, status, _, _ string) (ResolveResult, error) {
	f.resolved = append(f.resolved, employeeID+":"+status)
	return ResolveResult{EmployeeID: employeeID, Status: status, Applied: 1}, nil
}

func TestSubmitAcceptsCatalogField(t *testing.T) {
	store := &fakeProfileStore{}
	svc := NewService(store)

	id, err := svc.Submit(context.Background(), "EMP010", "Phone_Number", "111", " 222 ", "typo fix")
	require.NoError(t, err)
	assert.Equal(t, "req-1", id)

	require.Len(t, store.created, 1)
	assert.Equal(t, "phone_number", store.created[0].FieldName)
	assert.Equal(t, "222", store.created[0].NewValue)
}

func TestSubmitRejectsUnknownField(t *testing.T) {
	svc := NewService(&fakeProfileStore{})

	_, err := svc.Submit(context.Background(), "EMP010", "annual_ctc", "", "900000", "raise myself")
	var unknown *UnknownFieldError
	require.ErrorAs(t, err, &unknown)
	assert.Contains(t, unknown.Error(), "first_name", "error lists the allow-list")
}

func TestSubmitRejectsUnparsableValue(t *testing.T) {
	svc := NewService(&fakeProfileStore{})

	_, err := svc.Submit(context.Background(), "EMP010", "joining_date", "2020-01-01", "next week", "")
	var coercion *CoercionError
	assert.ErrorAs(t, err, &coercion)
}

func TestResolveValidatesStatus(t *testing.T) {
	store := &fakeProfileStore{}
	svc := NewService(store)
	ctx := context.Background()

	_, err := svc.Resolve(ctx, "EMP010", "MAYBE", "", "EMP002")
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Empty(t, store.resolved)

	result, err := svc.Resolve(ctx, "EMP010", StatusRejected, "not needed", "EMP002")
	require.NoError(t, err)
	assert.Equal(t, StatusRejected, result.Status)
	assert.Equal(t, []string{"EMP010:REJECTED"}, store.resolved)
}
