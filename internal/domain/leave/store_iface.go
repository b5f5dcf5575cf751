package leave

import (
	"context"

	"hrms/internal/domain/directory"
)

type StoreAPI interface {
	CreateApplication(ctx context.Context, app Application) (string, error)
	GetApplication(ctx context.Context, leaveID string) (Application, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Application, error)
	ListPendingForRole(ctx context.Context, approverRole directory.Role) ([]Application, error)
	Decide(ctx context.Context, leaveID, status, approverID, comments string) error
	CountApprovedByType(ctx context.Context, employeeID string) (map[Type]int, error)
}

type DirectoryAPI interface {
	GetEmployee(ctx context.Context, employeeID string) (directory.Employee, error)
}
