package auth

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type Store struct {
	DB *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{DB: db}
}

type Credential struct {
	EmployeeID   string
	PasswordHash string
	Designation  string
}

func (s *Store) CredentialByEmail(ctx context.Context, email string) (Credential, error) {
	var cred Credential
	err := s.DB.QueryRow(ctx, `
    SELECT u.employee_id, u.password_hash, e.designation
    FROM users u
    JOIN employees e ON e.id = u.employee_id
    WHERE u.email = $1 AND e.active
  `, email).Scan(&cred.EmployeeID, &cred.PasswordHash, &cred.Designation)
	if errors.Is(err, pgx.ErrNoRows) {
		return Credential{}, ErrInvalidCredentials
	}
	return cred, err
}
