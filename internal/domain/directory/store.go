package directory

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const employeeColumns = `
    id, first_name, last_name, email, designation,
    department_id, shift_id,
    COALESCE(reporting_manager, ''),
    COALESCE(phone_number, ''), COALESCE(location, ''), COALESCE(profile_photo, ''),
    joining_date, annual_ctc, annual_leaves, active, created_at`

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

func scanEmployee(row pgx.Row) (Employee, error) {
	var emp Employee
	if err := row.Scan(
		&emp.ID, &emp.FirstName, &emp.LastName, &emp.Email, &emp.Designation,
		&emp.DepartmentID, &emp.ShiftID, &emp.ReportingManager,
		&emp.PhoneNumber, &emp.Location, &emp.ProfilePhoto,
		&emp.JoiningDate, &emp.AnnualCTC, &emp.AnnualLeaves, &emp.Active, &emp.CreatedAt,
	); err != nil {
		return Employee{}, err
	}
	emp.Role = RoleFromDesignation(emp.Designation)
	return emp, nil
}

func (s *Store) GetEmployee(ctx context.Context, employeeID string) (Employee, error) {
	emp, err := scanEmployee(s.DB.QueryRow(ctx,
		"SELECT"+employeeColumns+" FROM employees WHERE id = $1", employeeID))
	if errors.Is(err, pgx.ErrNoRows) {
		return Employee{}, ErrNotFound
	}
	return emp, err
}

func (s *Store) ListEmployees(ctx context.Context, limit, offset int) ([]Employee, error) {
	rows, err := s.DB.Query(ctx,
		"SELECT"+employeeColumns+" FROM employees WHERE active ORDER BY id LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Employee
	for rows.Next() {
		emp, err := scanEmployee(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, emp)
	}
	return out, rows.Err()
}

// ReportingChain walks upward from the employee to the root of the org. The
// walk is bounded by the acyclicity invariant enforced on write.
func (s *Store) ReportingChain(ctx context.Context, employeeID string) ([]ChainEntry, error) {
	var chain []ChainEntry
	current := employeeID
	for current != "" {
		var entry ChainEntry
		var first, last, manager string
		err := s.DB.QueryRow(ctx, `
      SELECT id, first_name, last_name, designation, COALESCE(reporting_manager, '')
      FROM employees
      WHERE id = $1
    `, current).Scan(&entry.EmployeeID, &first, &last, &entry.Designation, &manager)
		if errors.Is(err, pgx.ErrNoRows) {
			if current == employeeID {
				return nil, ErrNotFound
			}
			break
		}
		if err != nil {
			return nil, err
		}
		entry.Name = strings.TrimSpace(first + " " + last)
		entry.Role = RoleFromDesignation(entry.Designation)
		chain = append(chain, entry)
		current = manager
	}
	return chain, nil
}

func (s *Store) CreateEmployee(ctx context.Context, emp Employee) error {
	if strings.TrimSpace(emp.Designation) == "" {
		return ErrInvalidDesignation
	}
	if emp.ReportingManager != "" {
		if err := s.checkManager(ctx, emp.ID, emp.ReportingManager); err != nil {
			return err
		}
	}
	if emp.AnnualLeaves == 0 {
		emp.AnnualLeaves = 21
	}

	_, err := s.DB.Exec(ctx, `
    INSERT INTO employees (id, first_name, last_name, email, designation, department_id,
      shift_id, reporting_manager, phone_number, location, profile_photo, joining_date,
      annual_ctc, annual_leaves, active)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
  `, emp.ID, emp.FirstName, emp.LastName, emp.Email, emp.Designation, emp.DepartmentID,
		emp.ShiftID, nullIfEmpty(emp.ReportingManager), emp.PhoneNumber, emp.Location,
		emp.ProfilePhoto, emp.JoiningDate, emp.AnnualCTC, emp.AnnualLeaves, emp.Active)
	return err
}

func (s *Store) SetReportingManager(ctx context.Context, employeeID, managerID string) error {
	if managerID != "" {
		if err := s.checkManager(ctx, employeeID, managerID); err != nil {
			return err
		}
	}
	cmd, err := s.DB.Exec(ctx,
		"UPDATE employees SET reporting_manager = $1 WHERE id = $2",
		nullIfEmpty(managerID), employeeID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// checkManager verifies the manager exists and that pointing employeeID at it
// would not close a cycle in the reporting graph.
func (s *Store) checkManager(ctx context.Context, employeeID, managerID string) error {
	if managerID == employeeID {
		return ErrReportingCycle
	}

	var exists bool
	if err := s.DB.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM employees WHERE id = $1)", managerID).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return ErrUnknownManager
	}

	current := managerID
	for current != "" {
		var next string
		err := s.DB.QueryRow(ctx,
			"SELECT COALESCE(reporting_manager, '') FROM employees WHERE id = $1", current).Scan(&next)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		if next == employeeID {
			return ErrReportingCycle
		}
		current = next
	}
	return nil
}

func (s *Store) AnnualCTC(ctx context.Context, employeeID string) (float64, error) {
	var ctc float64
	err := s.DB.QueryRow(ctx, "SELECT annual_ctc FROM employees WHERE id = $1", employeeID).Scan(&ctc)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	return ctc, err
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}
