package payroll

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

// components is the JSONB shape of the payroll_rows.components column.
type components struct {
	Earnings   []Component `json:"earnings"`
	Deductions []Component `json:"deductions"`
}

const structureColumns = `
    id, employee_id, month, pay_cycle, annual_ctc,
    basic_salary, hra, allowance, pf_percentage, professional_tax,
    total_earnings, total_deductions, net_salary,
    components, created_at, updated_at`

func scanStructure(row pgx.Row) (Structure, error) {
	var st Structure
	var raw []byte
	err := row.Scan(
		&st.ID, &st.EmployeeID, &st.Month, &st.PayCycle, &st.AnnualCTC,
		&st.BasicSalary, &st.HRA, &st.Allowance, &st.PFPercentage, &st.ProfessionalTax,
		&st.TotalEarnings, &st.TotalDeductions, &st.NetSalary,
		&raw, &st.CreatedAt, &st.UpdatedAt,
	)
	if err != nil {
		return Structure{}, err
	}
	if len(raw) > 0 {
		var c components
		if err := json.Unmarshal(raw, &c); err != nil {
			return Structure{}, err
		}
		st.Earnings = c.Earnings
		st.Deductions = c.Deductions
	}
	return st, nil
}

func (s *Store) Get(ctx context.Context, employeeID, month string) (Structure, error) {
	st, err := scanStructure(s.DB.QueryRow(ctx,
		"SELECT"+structureColumns+" FROM payroll_rows WHERE employee_id = $1 AND month = $2",
		employeeID, month))
	if errors.Is(err, pgx.ErrNoRows) {
		return Structure{}, ErrNotFound
	}
	return st, err
}

// Upsert writes the row for (employee, month). The unique constraint carries
// the one-row-per-month invariant, so a concurrent generate cannot produce
// duplicates.
func (s *Store) Upsert(ctx context.Context, st Structure) (Structure, error) {
	raw, err := json.Marshal(components{Earnings: st.Earnings, Deductions: st.Deductions})
	if err != nil {
		return Structure{}, err
	}

	saved, err := scanStructure(s.DB.QueryRow(ctx, `
    INSERT INTO payroll_rows (
      employee_id, month, pay_cycle, annual_ctc,
      basic_salary, hra, allowance, pf_percentage, professional_tax,
      total_earnings, total_deductions, net_salary, components
    )
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
    ON CONFLICT (employee_id, month) DO UPDATE SET
      pay_cycle = EXCLUDED.pay_cycle,
      annual_ctc = EXCLUDED.annual_ctc,
      basic_salary = EXCLUDED.basic_salary,
      hra = EXCLUDED.hra,
      allowance = EXCLUDED.allowance,
      pf_percentage = EXCLUDED.pf_percentage,
      professional_tax = EXCLUDED.professional_tax,
      total_earnings = EXCLUDED.total_earnings,
      total_deductions = EXCLUDED.total_deductions,
      net_salary = EXCLUDED.net_salary,
      components = EXCLUDED.components,
      updated_at = now()
    RETURNING`+structureColumns,
		st.EmployeeID, st.Month, st.PayCycle, st.AnnualCTC,
		st.BasicSalary, st.HRA, st.Allowance, st.PFPercentage, st.ProfessionalTax,
		st.TotalEarnings, st.TotalDeductions, st.NetSalary, raw))
	if err != nil {
		return Structure{}, err
	}
	return saved, nil
}

func (s *Store) ListByEmployee(ctx context.Context, employeeID string) ([]Structure, error) {
	rows, err := s.DB.Query(ctx,
		"SELECT"+structureColumns+` FROM payroll_rows
     WHERE employee_id = $1
     ORDER BY month DESC`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Structure
	for rows.Next() {
		st, err := scanStructure(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, rows.Err()
}

func (s *Store) Delete(ctx context.Context, employeeID, month string) error {
	tag, err := s.DB.Exec(ctx,
		"DELETE FROM payroll_rows WHERE employee_id = $1 AND month = $2", employeeID, month)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
