package db

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/domain/auth"
	"hrms/internal/platform/config"
)

type seedEmployee struct {
	id          string
	firstName   string
	lastName    string
	email       string
	designation string
	manager     string
	annualCTC   float64
}

// seedOrg is a minimal org chart exercising every role in the approval
// chain: employees report to a manager, managers to the HR executive, the
// HR executive to the HR manager.
var seedOrg = []seedEmployee{
	{"EMP001", "Asha", "Rao", "asha.rao@hrms.local", "HR Manager", "", 1500000},
	{"EMP002", "Vikram", "Shah", "vikram.shah@hrms.local", "HR Executive", "EMP001", 900000},
	{"EMP003", "Meera", "Iyer", "meera.iyer@hrms.local", "Engineering Manager", "EMP002", 1200000},
	{"EMP010", "Ravi", "Kumar", "ravi.kumar@hrms.local", "Software Engineer", "EMP003", 600000},
	{"EMP011", "Divya", "Nair", "divya.nair@hrms.local", "Team Lead", "EMP003", 800000},
}

// Seed provisions the seed org chart and a login for each member. It is
// idempotent; existing rows are left alone.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	hash, err := auth.HashPassword(cfg.SeedHRPassword)
	if err != nil {
		return err
	}

	for _, emp := range seedOrg {
		var manager any
		if emp.manager != "" {
			manager = emp.manager
		}
		_, err := pool.Exec(ctx, `
      INSERT INTO employees (id, first_name, last_name, email, designation, reporting_manager, joining_date, annual_ctc, annual_leaves, active)
      VALUES ($1,$2,$3,$4,$5,$6,$7,$8,21,TRUE)
      ON CONFLICT (id) DO NOTHING
    `, emp.id, emp.firstName, emp.lastName, emp.email, emp.designation, manager,
			time.Date(2022, 1, 3, 0, 0, 0, 0, time.UTC), emp.annualCTC)
		if err != nil {
			return err
		}

		_, err = pool.Exec(ctx, `
      INSERT INTO users (employee_id, email, password_hash)
      VALUES ($1,$2,$3)
      ON CONFLICT (email) DO NOTHING
    `, emp.id, emp.email, hash)
		if err != nil {
			return err
		}
	}
	return nil
}
