package payroll

import "context"

type StoreAPI interface {
	Get(ctx context.Context, employeeID, month string) (Structure, error)
	Upsert(ctx context.Context, structure Structure) (Structure, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]Structure, error)
	Delete(ctx context.Context, employeeID, month string) error
}

type DirectoryAPI interface {
	AnnualCTC(ctx context.Context, employeeID string) (float64, error)
}
