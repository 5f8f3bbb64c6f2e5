package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rdelcourt/guardpost/internal/infrastructure/repository/memory"
)

// BootstrapSeed loads the starter roster into an empty database. A
// database that already holds members is left untouched.
func BootstrapSeed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(1) FROM members`); err != nil {
		return fmt.Errorf("count members for bootstrap seed: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin seed tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for _, m := range memory.SeedMembers() {
		sqlQuery, args, err := sqlx.Named(`
INSERT INTO members (handle, rank, exit_reason)
VALUES (:handle, :rank, :exit_reason)
ON CONFLICT (handle) DO NOTHING`, map[string]any{
			"handle":      m.Handle,
			"rank":        m.Rank,
			"exit_reason": nullableString(m.ExitReason),
		})
		if err != nil {
			return fmt.Errorf("bind seed member %s query: %w", m.Handle, err)
		}
		sqlQuery = tx.Rebind(sqlQuery)
		if _, err := tx.ExecContext(ctx, sqlQuery, args...); err != nil {
			return fmt.Errorf("seed member %s: %w", m.Handle, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit seed tx: %w", err)
	}

	return nil
}
