package leave

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hrms/internal/domain/directory"
)

type fakeStore struct {
	apps   map[string]*Application
	nextID int
}

func newFakeStore() *fakeStore {
	return &fakeStore{apps: make(map[string]*Application)}
}

func (f *fakeStore) CreateApplication(_ context.Context, app Application) (string, error) {
	f.nextID++
	id := fmt.Sprintf("leave-%d", f.nextID)
	app.ID = id
	app.CreatedAt = time.Now()
	f.apps[id] = &app
	return id, nil
}

func (f *fakeStore) GetApplication(_ context.Context, leaveID string) (Application, error) {
	app, ok := f.apps[leaveID]
	if !ok {
		return Application{}, ErrNotFound
	}
	return *app, nil
}

func (f *fakeStore) ListByEmployee(_ context.Context, employeeID string) ([]Application, error) {
	var out []Application
	for _, app := range f.apps {
		if app.EmployeeID == employeeID {
			out = append(out, *app)
		}
	}
	return out, nil
}

func (f *fakeStore) ListPendingForRole(_ context.Context, role directory.Role) ([]Application, error) {
	var out []Application
	for _, app := range f.apps {
		if app.Status == StatusPending && app.ApproverRole == string(role) {
			out = append(out, *app)
		}
	}
	return out, nil
}

func (f *fakeStore) Decide(_ context.Context, leaveID, status, approverID, comments string) error {
	app, ok := f.apps[leaveID]
	if !ok {
		return ErrNotFound
	}
	if app.Status != StatusPending {
		return ErrInvalidState
	}
	app.Status = status
	app.ApproverID = approverID
	app.Comments = comments
	return nil
}

func (f *fakeStore) CountApprovedByType(_ context.Context, employeeID string) (map[Type]int, error) {
	used := make(map[Type]int)
	for _, app := range f.apps {
		if app.EmployeeID == employeeID && app.Status == StatusApproved {
			used[app.LeaveType]++
		}
	}
	return used, nil
}

type fakeDirectory struct {
	employees map[string]directory.Employee
}

func (f *fakeDirectory) GetEmployee(_ context.Context, employeeID string) (directory.Employee, error) {
	emp, ok := f.employees[employeeID]
	if !ok {
		return directory.Employee{}, directory.ErrNotFound
	}
	return emp, nil
}

func testDirectory() *fakeDirectory {
	employees := map[string]directory.Employee{
		"EMP001": {ID: "EMP001", Designation: "HR Manager", AnnualLeaves: 21},
		"EMP002": {ID: "EMP002", Designation: "Engineering Manager", AnnualLeaves: 21},
		"EMP003": {ID: "EMP003", Designation: "HR Executive", AnnualLeaves: 21},
		"EMP010": {ID: "EMP010", Designation: "Software Engineer", AnnualLeaves: 21},
		"EMP011": {ID: "EMP011", Designation: "Team Lead", AnnualLeaves: 21},
	}
	for id, emp := range employees {
		emp.Role = directory.RoleFromDesignation(emp.Designation)
		employees[id] = emp
	}
	return &fakeDirectory{employees: employees}
}

func date(value string) time.Time {
	parsed, err := time.Parse("2006-01-02", value)
	if err != nil {
		panic(err)
	}
	return parsed
}

func TestApplyRoutesToManager(t *testing.T) {
	svc := NewService(newFakeStore(), testDirectory())

	app, err := svc.Apply(context.Background(), "EMP010", ApplyRequest{
		LeaveType: "Casual",
		StartDate: date("2025-03-10"),
		EndDate:   date("2025-03-12"),
		Reason:    "family function",
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, app.Status)
	assert.Equal(t, TypeCasual, app.LeaveType)
	assert.Equal(t, string(directory.RoleManager), app.ApproverRole)
}

func TestApplyRouting(t *testing.T) {
	svc := NewService(newFakeStore(), testDirectory())
	cases := []struct {
		applicant string
		approver  directory.Role
	}{
		{"EMP010", directory.RoleManager},     // employee
		{"EMP011", directory.RoleManager},     // team lead
		{"EMP002", directory.RoleHRExecutive}, // manager
		{"EMP003", directory.RoleHRManager},   // hr executive
	}
	for _, tc := range cases {
		app, err := svc.Apply(context.Background(), tc.applicant, ApplyRequest{
			LeaveType: "sick",
			StartDate: date("2025-04-01"),
			EndDate:   date("2025-04-01"),
		})
		require.NoError(t, err, "applicant %s", tc.applicant)
		assert.Equal(t, string(tc.approver), app.ApproverRole, "applicant %s", tc.applicant)
	}
}

func TestApplyRejectsHRManager(t *testing.T) {
	svc := NewService(newFakeStore(), testDirectory())
	_, err := svc.Apply(context.Background(), "EMP001", ApplyRequest{
		LeaveType: "casual",
		StartDate: date("2025-04-01"),
		EndDate:   date("2025-04-01"),
	})
	assert.ErrorIs(t, err, ErrNoApprover)
}

func TestApplyValidation(t *testing.T) {
	svc := NewService(newFakeStore(), testDirectory())

	_, err := svc.Apply(context.Background(), "EMP010", ApplyRequest{
		LeaveType: "sabbatical",
		StartDate: date("2025-04-01"),
		EndDate:   date("2025-04-02"),
	})
	assert.ErrorIs(t, err, ErrInvalidLeaveType)

	_, err = svc.Apply(context.Background(), "EMP010", ApplyRequest{
		LeaveType: "casual",
		StartDate: date("2025-04-05"),
		EndDate:   date("2025-04-01"),
	})
	assert.ErrorIs(t, err, ErrInvalidDates)
}

func TestDecideLifecycle(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, testDirectory())
	ctx := context.Background()

	app, err := svc.Apply(ctx, "EMP010", ApplyRequest{
		LeaveType: "casual",
		StartDate: date("2025-03-10"),
		EndDate:   date("2025-03-12"),
	})
	require.NoError(t, err)

	// Wrong role cannot decide.
	_, err = svc.Decide(ctx, "EMP003", directory.RoleHRExecutive, app.ID, ActionApprove, "")
	assert.ErrorIs(t, err, ErrForbidden)

	decided, err := svc.Decide(ctx, "EMP002", directory.RoleManager, app.ID, ActionApprove, "enjoy")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, decided.Status)
	assert.Equal(t, "EMP002", decided.ApproverID)

	// Second decision sees a wrong-state error.
	_, err = svc.Decide(ctx, "EMP002", directory.RoleManager, app.ID, ActionReject, "")
	assert.ErrorIs(t, err, ErrInvalidState)

	_, err = svc.Decide(ctx, "EMP002", directory.RoleManager, "missing", ActionApprove, "")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Decide(ctx, "EMP002", directory.RoleManager, app.ID, "escalate", "")
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestBalanceAfterApproval(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, testDirectory())
	ctx := context.Background()

	app, err := svc.Apply(ctx, "EMP010", ApplyRequest{
		LeaveType: "casual",
		StartDate: date("2025-03-10"),
		EndDate:   date("2025-03-12"),
	})
	require.NoError(t, err)

	_, err = svc.Decide(ctx, "EMP002", directory.RoleManager, app.ID, ActionApprove, "")
	require.NoError(t, err)

	balance, err := svc.Balance(ctx, "EMP010", directory.RoleEmployee, "EMP010")
	require.NoError(t, err)
	casual := balance.Categories[TypeCasual]
	assert.Equal(t, 7, casual.Allocated)
	assert.Equal(t, 1, casual.Used)
	assert.Equal(t, 6, casual.Remaining)
	assert.Equal(t, 20, balance.TotalRemaining)
}

func TestPendingAccess(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, testDirectory())
	ctx := context.Background()

	_, err := svc.Apply(ctx, "EMP010", ApplyRequest{
		LeaveType: "earned",
		StartDate: date("2025-05-01"),
		EndDate:   date("2025-05-02"),
	})
	require.NoError(t, err)

	// Employees cannot read an approval queue at all.
	_, err = svc.Pending(ctx, directory.RoleEmployee)
	assert.ErrorIs(t, err, ErrForbidden)

	queue, err := svc.Pending(ctx, directory.RoleManager)
	require.NoError(t, err)
	assert.Len(t, queue, 1)

	// The HR executive queue does not see employee applications.
	queue, err = svc.Pending(ctx, directory.RoleHRExecutive)
	require.NoError(t, err)
	assert.Empty(t, queue)
}

func TestHistoryAccess(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, testDirectory())
	ctx := context.Background()

	_, err := svc.Apply(ctx, "EMP010", ApplyRequest{
		LeaveType: "sick",
		StartDate: date("2025-06-01"),
		EndDate:   date("2025-06-01"),
	})
	require.NoError(t, err)

	_, err = svc.History(ctx, "EMP010", directory.RoleEmployee, "EMP010")
	assert.NoError(t, err)

	_, err = svc.History(ctx, "EMP011", directory.RoleTeamLead, "EMP010")
	assert.ErrorIs(t, err, ErrForbidden)

	history, err := svc.History(ctx, "EMP002", directory.RoleManager, "EMP010")
	require.NoError(t, err)
	assert.Len(t, history, 1)

	_, err = svc.History(ctx, "EMP001", directory.RoleHRManager, "EMP010")
	assert.NoError(t, err)
}
