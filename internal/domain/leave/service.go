package leave

import (
	"context"
	"time"

	"hrms/internal/domain/directory"
)

type Service struct {
	Store StoreAPI
	Dir   DirectoryAPI
}

func NewService(store StoreAPI, dir DirectoryAPI) *Service {
	return &Service{Store: store, Dir: dir}
}

type ApplyRequest struct {
	LeaveType string
	StartDate time.Time
	EndDate   time.Time
	Reason    string
}

// Apply creates a PENDING application for the actor, routed to the role that
// approves the actor's role. Validation happens before any write.
func (s *Service) Apply(ctx context.Context, actorID string, req ApplyRequest) (Application, error) {
	employee, err := s.Dir.GetEmployee(ctx, actorID)
	if err != nil {
		return Application{}, err
	}

	leaveType, ok := ParseType(req.LeaveType)
	if !ok {
		return Application{}, ErrInvalidLeaveType
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() || req.StartDate.After(req.EndDate) {
		return Application{}, ErrInvalidDates
	}

	approverRole, ok := directory.ApproverRole(employee.Role)
	if !ok {
		return Application{}, ErrNoApprover
	}

	app := Application{
		EmployeeID:   actorID,
		LeaveType:    leaveType,
		StartDate:    req.StartDate,
		EndDate:      req.EndDate,
		Reason:       req.Reason,
		Status:       StatusPending,
		ApproverRole: string(approverRole),
	}
	id, err := s.Store.CreateApplication(ctx, app)
	if err != nil {
		return Application{}, err
	}
	app.ID = id
	return app, nil
}

// History lists an employee's applications, newest first. Readable by the
// employee themselves and by anyone on the upward approval chain of their
// role.
func (s *Service) History(ctx context.Context, actorID string, actorRole directory.Role, employeeID string) ([]Application, error) {
	if actorID != employeeID {
		target, err := s.Dir.GetEmployee(ctx, employeeID)
		if err != nil {
			return nil, err
		}
		if !directory.CanViewHistory(actorRole, actorID, target.Role, employeeID) {
			return nil, ErrForbidden
		}
	}
	return s.Store.ListByEmployee(ctx, employeeID)
}

// Pending lists PENDING applications routed to the actor's role.
func (s *Service) Pending(ctx context.Context, actorRole directory.Role) ([]Application, error) {
	if !directory.IsApprover(actorRole) {
		return nil, ErrForbidden
	}
	return s.Store.ListPendingForRole(ctx, actorRole)
}

const (
	ActionApprove = "approve"
	ActionReject  = "reject"
)

// Decide resolves a PENDING application. Authorization is role-based: any
// actor holding the application's designated approver role may decide.
func (s *Service) Decide(ctx context.Context, actorID string, actorRole directory.Role, leaveID, action, comments string) (Application, error) {
	var status string
	switch action {
	case ActionApprove:
		status = StatusApproved
	case ActionReject:
		status = StatusRejected
	default:
		return Application{}, ErrInvalidAction
	}

	app, err := s.Store.GetApplication(ctx, leaveID)
	if err != nil {
		return Application{}, err
	}
	if string(actorRole) != app.ApproverRole {
		return Application{}, ErrForbidden
	}
	if app.Status != StatusPending {
		return Application{}, ErrInvalidState
	}

	if err := s.Store.Decide(ctx, leaveID, status, actorID, comments); err != nil {
		return Application{}, err
	}

	app.Status = status
	app.ApproverID = actorID
	app.Comments = comments
	return app, nil
}

// Balance computes the per-category snapshot from approved applications.
// Access follows the history rule.
func (s *Service) Balance(ctx context.Context, actorID string, actorRole directory.Role, employeeID string) (Balance, error) {
	employee, err := s.Dir.GetEmployee(ctx, employeeID)
	if err != nil {
		return Balance{}, err
	}
	if !directory.CanViewHistory(actorRole, actorID, employee.Role, employeeID) {
		return Balance{}, ErrForbidden
	}

	used, err := s.Store.CountApprovedByType(ctx, employeeID)
	if err != nil {
		return Balance{}, err
	}
	return BuildBalance(employeeID, employee.AnnualLeaves, used), nil
}
