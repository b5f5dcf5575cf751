package profile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/domain/directory"
	"hrms/internal/platform/crypto"
)

type Store struct {
	DB     *pgxpool.Pool
	Crypto *crypto.Service
}

func NewStore(db *pgxpool.Pool, cryptoService *crypto.Service) *Store {
	return &Store{DB: db, Crypto: cryptoService}
}

const requestColumns = `
    id, employee_id, field_name, COALESCE(old_value, ''), new_value,
    status, COALESCE(reason, ''), COALESCE(reviewer_comments, ''),
    COALESCE(reviewer_id, ''), created_at, resolved_at`

func scanRequest(row pgx.Row) (Request, error) {
	var req Request
	err := row.Scan(
		&req.ID, &req.EmployeeID, &req.FieldName, &req.OldValue, &req.NewValue,
		&req.Status, &req.Reason, &req.ReviewerComments,
		&req.ReviewerID, &req.CreatedAt, &req.ResolvedAt,
	)
	return req, err
}

func (s *Store) Create(ctx context.Context, req Request) (string, error) {
	var id string
	err := s.DB.QueryRow(ctx, `
    INSERT INTO profile_edit_requests (employee_id, field_name, old_value, new_value, status, reason)
    VALUES ($1,$2,$3,$4,$5,$6)
    RETURNING id
  `, req.EmployeeID, req.FieldName, req.OldValue, req.NewValue, StatusPending, req.Reason).Scan(&id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) ListPending(ctx context.Context) ([]Request, error) {
	rows, err := s.DB.Query(ctx,
		"SELECT"+requestColumns+` FROM profile_edit_requests
     WHERE status = $1
     ORDER BY created_at`, StatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (s *Store) ListByEmployee(ctx context.Context, employeeID string) ([]Request, error) {
	rows, err := s.DB.Query(ctx,
		"SELECT"+requestColumns+` FROM profile_edit_requests
     WHERE employee_id = $1
     ORDER BY created_at DESC`, employeeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectRequests(rows)
}

func (s *Store) Summary(ctx context.Context) ([]Summary, error) {
	rows, err := s.DB.Query(ctx, `
    SELECT employee_id, COUNT(1), array_agg(field_name ORDER BY created_at), MIN(created_at)
    FROM profile_edit_requests
    WHERE status = $1
    GROUP BY employee_id
    ORDER BY MIN(created_at)
  `, StatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Summary
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.EmployeeID, &s.Pending, &s.Fields, &s.OldestAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// BankDetails loads the employee's bank record with the encrypted
// identifiers decrypted. Encrypted columns win over their plaintext twins
// when both are populated.
func (s *Store) BankDetails(ctx context.Context, employeeID string) (BankDetails, error) {
	var (
		details                        BankDetails
		accountEnc, panEnc, aadhaarEnc []byte
	)
	err := s.DB.QueryRow(ctx, `
    SELECT employee_id, COALESCE(account_number, ''), account_number_enc,
           COALESCE(account_holder_name, ''), COALESCE(ifsc_code, ''),
           COALESCE(bank_name, ''), COALESCE(branch, ''), COALESCE(account_type, ''),
           COALESCE(pan_number, ''), pan_number_enc,
           COALESCE(aadhaar_number, ''), aadhaar_number_enc
    FROM bank_details
    WHERE employee_id = $1
  `, employeeID).Scan(
		&details.EmployeeID, &details.AccountNumber, &accountEnc,
		&details.AccountHolderName, &details.IFSCCode,
		&details.BankName, &details.Branch, &details.AccountType,
		&details.PANNumber, &panEnc,
		&details.AadhaarNumber, &aadhaarEnc,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return BankDetails{}, ErrNotFound
	}
	if err != nil {
		return BankDetails{}, err
	}

	sealed := []struct {
		data []byte
		out  *string
	}{
		{accountEnc, &details.AccountNumber},
		{panEnc, &details.PANNumber},
		{aadhaarEnc, &details.AadhaarNumber},
	}
	for _, field := range sealed {
		if len(field.data) == 0 {
			continue
		}
		plain, err := s.Crypto.DecryptString(field.data)
		if err != nil {
			return BankDetails{}, err
		}
		*field.out = plain
	}
	return details, nil
}

// Resolve settles every PENDING request for the employee in one transaction.
// On APPROVED the typed updates are applied to the target tables; any
// coercion failure rolls back the whole batch. Zero pending requests is a
// no-op, not an error.
func (s *Store) Resolve(ctx context.Context, employeeID, status, comments, reviewerID string) (ResolveResult, error) {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return ResolveResult{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	rows, err := tx.Query(ctx,
		"SELECT"+requestColumns+` FROM profile_edit_requests
     WHERE employee_id = $1 AND status = $2
     ORDER BY created_at
     FOR UPDATE`, employeeID, StatusPending)
	if err != nil {
		return ResolveResult{}, err
	}
	pending, err := collectRequests(rows)
	if err != nil {
		return ResolveResult{}, err
	}
	if len(pending) == 0 {
		return ResolveResult{EmployeeID: employeeID, Status: status}, nil
	}

	if status == StatusApproved {
		for _, req := range pending {
			if err := s.apply(ctx, tx, req); err != nil {
				return ResolveResult{}, err
			}
		}
	}

	if _, err := tx.Exec(ctx, `
    UPDATE profile_edit_requests
    SET status = $1, reviewer_comments = $2, reviewer_id = $3, resolved_at = now()
    WHERE employee_id = $4 AND status = $5
  `, status, comments, reviewerID, employeeID, StatusPending); err != nil {
		return ResolveResult{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return ResolveResult{}, err
	}
	return ResolveResult{EmployeeID: employeeID, Status: status, Applied: len(pending)}, nil
}

func (s *Store) apply(ctx context.Context, tx pgx.Tx, req Request) error {
	spec, ok := LookupField(req.FieldName)
	if !ok {
		return &UnknownFieldError{Field: req.FieldName}
	}
	value, err := ParseValue(spec, req.NewValue)
	if err != nil {
		return err
	}

	switch spec.Target {
	case TargetEmployee:
		return s.applyEmployee(ctx, tx, req.EmployeeID, spec, value)
	case TargetPersonal:
		return upsertColumn(ctx, tx, "personal_details", spec.Column, req.EmployeeID, value)
	case TargetBank:
		return s.applyBank(ctx, tx, req.EmployeeID, spec, value)
	case TargetExperience:
		return s.applyExperience(ctx, tx, req.EmployeeID, spec, value)
	case TargetAsset:
		return updateLatest(ctx, tx, "assets", spec.Column, req.EmployeeID, value)
	case TargetDocument:
		return updateLatest(ctx, tx, "documents", spec.Column, req.EmployeeID, value)
	}
	return &UnknownFieldError{Field: req.FieldName}
}

func (s *Store) applyEmployee(ctx context.Context, tx pgx.Tx, employeeID string, spec FieldSpec, value any) error {
	if spec.Column == "reporting_manager" {
		manager, _ := value.(string)
		if err := checkManagerTx(ctx, tx, employeeID, manager); err != nil {
			return err
		}
		// an approved empty value clears the manager, so keep the self-FK
		// happy with NULL rather than ''
		if manager == "" {
			value = nil
		}
	}
	_, err := tx.Exec(ctx,
		fmt.Sprintf("UPDATE employees SET %s = $1 WHERE id = $2", spec.Column),
		value, employeeID)
	return err
}

func (s *Store) applyBank(ctx context.Context, tx pgx.Tx, employeeID string, spec FieldSpec, value any) error {
	if !encryptedBankColumns[spec.Column] {
		return upsertColumn(ctx, tx, "bank_details", spec.Column, employeeID, value)
	}
	plain, _ := value.(string)
	sealed, err := s.Crypto.EncryptString(plain)
	if err != nil {
		return err
	}
	column := spec.Column + "_enc"
	_, err = tx.Exec(ctx, fmt.Sprintf(`
    INSERT INTO bank_details (employee_id, %s) VALUES ($1, $2)
    ON CONFLICT (employee_id) DO UPDATE SET %s = EXCLUDED.%s, updated_at = now()
  `, column, column, column), employeeID, sealed)
	return err
}

// applyExperience edits the employee's most recent work-experience row,
// creating one with placeholder values when the employee has none.
func (s *Store) applyExperience(ctx context.Context, tx pgx.Tx, employeeID string, spec FieldSpec, value any) error {
	var rowID string
	err := tx.QueryRow(ctx, `
    SELECT id FROM work_experiences
    WHERE employee_id = $1
    ORDER BY created_at DESC
    LIMIT 1
  `, employeeID).Scan(&rowID)
	if errors.Is(err, pgx.ErrNoRows) {
		err = tx.QueryRow(ctx, `
      INSERT INTO work_experiences (employee_id, designation, company_name, start_date)
      VALUES ($1, 'N/A', 'N/A', $2)
      RETURNING id
    `, employeeID, time.Now().UTC()).Scan(&rowID)
	}
	if err != nil {
		return err
	}
	_, err = tx.Exec(ctx,
		fmt.Sprintf("UPDATE work_experiences SET %s = $1 WHERE id = $2", spec.Column),
		value, rowID)
	return err
}

// upsertColumn writes one column of a one-row-per-employee table.
func upsertColumn(ctx context.Context, tx pgx.Tx, table, column, employeeID string, value any) error {
	_, err := tx.Exec(ctx, fmt.Sprintf(`
    INSERT INTO %s (employee_id, %s) VALUES ($1, $2)
    ON CONFLICT (employee_id) DO UPDATE SET %s = EXCLUDED.%s, updated_at = now()
  `, table, column, column, column), employeeID, value)
	return err
}

// updateLatest edits the employee's most recent row of a many-rows table.
// Having no row to edit is not an error here.
func updateLatest(ctx context.Context, tx pgx.Tx, table, column, employeeID string, value any) error {
	_, err := tx.Exec(ctx, fmt.Sprintf(`
    UPDATE %s SET %s = $1
    WHERE id = (SELECT id FROM %s WHERE employee_id = $2 ORDER BY created_at DESC LIMIT 1)
  `, table, column, table), value, employeeID)
	return err
}

// checkManagerTx verifies the new manager exists and that the assignment
// keeps the reporting chain acyclic.
func checkManagerTx(ctx context.Context, tx pgx.Tx, employeeID, managerID string) error {
	if managerID == "" {
		return nil
	}
	if managerID == employeeID {
		return directory.ErrReportingCycle
	}
	current := managerID
	for i := 0; i < 100 && current != ""; i++ {
		var next *string
		err := tx.QueryRow(ctx,
			"SELECT reporting_manager FROM employees WHERE id = $1", current).Scan(&next)
		if errors.Is(err, pgx.ErrNoRows) {
			if current == managerID {
				return directory.ErrUnknownManager
			}
			return nil
		}
		if err != nil {
			return err
		}
		if next == nil {
			return nil
		}
		if *next == employeeID {
			return directory.ErrReportingCycle
		}
		current = *next
	}
	return directory.ErrReportingCycle
}

func collectRequests(rows pgx.Rows) ([]Request, error) {
	defer rows.Close()
	var out []Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, req)
	}
	return out, rows.Err()
}
