package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"workforce/internal/platform/config"
)

// Seed creates the default tenant and a pair of starter leave types so a
// fresh deployment is usable. Idempotent; keyed on the tenant name.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	var tenantID string
	err := pool.QueryRow(ctx, "SELECT id FROM tenants WHERE name = $1", cfg.SeedTenantName).Scan(&tenantID)
	if err != nil {
		if err := pool.QueryRow(ctx, `
      INSERT INTO tenants (name) VALUES ($1)
      RETURNING id
    `, cfg.SeedTenantName).Scan(&tenantID); err != nil {
			return err
		}
	}

	seedTypes := []struct {
		name        string
		code        string
		isPaid      bool
		defaultDays float64
	}{
		{"Annual Leave", "ANNUAL", true, 20},
		{"Unpaid Leave", "UNPAID", false, 0},
	}
	for _, lt := range seedTypes {
		var exists int
		if err := pool.QueryRow(ctx, "SELECT COUNT(1) FROM leave_types WHERE tenant_id = $1 AND code = $2", tenantID, lt.code).Scan(&exists); err != nil {
			return err
		}
		if exists > 0 {
			continue
		}
		if _, err := pool.Exec(ctx, `
      INSERT INTO leave_types (tenant_id, name, code, is_paid, default_days)
      VALUES ($1,$2,$3,$4,$5)
    `, tenantID, lt.name, lt.code, lt.isPaid, lt.defaultDays); err != nil {
			return err
		}
	}
	return nil
}
