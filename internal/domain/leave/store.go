package leave

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/domain/directory"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

const applicationColumns = `
    id, employee_id, leave_type, start_date, end_date,
    COALESCE(reason, ''), status, approver_role,
    COALESCE(approver_id, ''), COALESCE(comments, ''), created_at`

func scanApplication(row pgx.Row) (Application, error) {
	var app Application
	err := row.Scan(
		&app.ID, &app.EmployeeID, &app.LeaveType, &app.StartDate, &app.EndDate,
		&app.Reason, &app.Status, &app.ApproverRole,
		&app.ApproverID, &app.Comments, &app.CreatedAt,
	)
	return app, err
}

func (s *Store) CreateApplication(ctx context.Context, app Application) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO leave_applications (employee_id, leave_type, start_date, end_date, reason, status, approver_role)
    VALUES ($1,$2,$3,$4,$5,$6,$7)
    RETURNING id
  `, app.EmployeeID, app.LeaveType, app.StartDate, app.EndDate, app.Reason, StatusPending, app.ApproverRole).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) GetApplication(ctx context.Context, leaveID string) (Application, error) {
	app, err := scanApplication(s.DB.QueryRow(ctx,
		"SELECT"+applicationColumns+" FROM leave_applications WHERE id = $1", leaveID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Application{}, ErrNotFound
	}
	return app, err
}

func (s *Store) ListByEmployee(ctx context.Context, employeeID string) ([]Application, error) {
	rows, err := s.DB.Query(ctx,
		"SELECT"+applicationColumns+` FROM leave_applications
     WHERE employee_id = $1
     ORDER BY created_at DESC`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectApplications(rows)
}

func (s *Store) ListPendingForRole(ctx context.Context, approverRole directory.Role) ([]Application, error) {
	rows, err := s.DB.Query(ctx,
		"SELECT"+applicationColumns+` FROM leave_applications
     WHERE status = $1 AND approver_role = $2
     ORDER BY created_at DESC`, StatusPending, string(approverRole))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectApplications(rows)
}

// Decide flips a PENDING application to a terminal status. The row is locked
// for the duration of the transaction so a concurrent decision observes the
// wrong-state error rather than overwriting.
func (s *Store) Decide(ctx context.Context, leaveID, status, approverID, comments string) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var current string
	err = tx.QueryRow(ctx,
		"SELECT status FROM leave_applications WHERE id = $1 FOR UPDATE", leaveID).Scan(&current)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	if current != StatusPending {
		return ErrInvalidState
	}

	if _, err := tx.Exec(ctx, `
    UPDATE leave_applications
    SET status = $1, approver_id = $2, comments = $3, decided_at = now()
    WHERE id = $4
  `, status, approverID, comments, leaveID); err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (s *Store) CountApprovedByType(ctx context.Context, employeeID string) (map[Type]int, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT leave_type, COUNT(1)
    FROM leave_applications
    WHERE employee_id = $1 AND status = $2
    GROUP BY leave_type
  `, employeeID, StatusApproved)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	used := make(map[Type]int)
	for rows.Next() {
		var leaveType Type
		var count int
		if err := rows.Scan(&leaveType, &count); err != nil {
			return nil, err
		}
		used[leaveType] = count
	}
	return used, rows.Err()
}

func collectApplications(rows pgx.Rows) ([]Application, error) {
	var out []Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	return out, rows.Err()
}
