// Package sqlite is the durable Store backend. The ledger and goal
// collections are small and owned by a single writer, so saves replace the
// whole collection inside one transaction, keeping the store's
// load/save contract identical to the document backends.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"finanzas/internal/core"

	_ "modernc.org/sqlite"
)

type Store struct {
	db *sql.DB
}

func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := runMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) LoadTransactions(ctx context.Context) ([]core.Transaction, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, date, description, amount_cents, category, type, user
		 FROM transactions ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	txs := []core.Transaction{}
	for rows.Next() {
		var (
			t       core.Transaction
			dateStr string
			typeStr string
		)
		if err := rows.Scan(&t.ID, &dateStr, &t.Description, &t.Amount.Cents, &t.Category, &typeStr, &t.User); err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		if d, err := core.ParseDate(dateStr); err == nil {
			t.Date = d
		} else {
			slog.WarnContext(ctx, "Stored transaction has malformed date",
				"transaction_id", t.ID, "date", dateStr)
		}
		t.Type = core.TxType(typeStr)
		txs = append(txs, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}
	return txs, nil
}

func (s *Store) SaveTransactions(ctx context.Context, txs []core.Transaction) error {
	dbtx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save transactions: %w", err)
	}
	defer dbtx.Rollback()

	if _, err := dbtx.ExecContext(ctx, `DELETE FROM transactions`); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}
	stmt, err := dbtx.PrepareContext(ctx,
		`INSERT INTO transactions (position, id, date, description, amount_cents, category, type, user)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert transaction: %w", err)
	}
	defer stmt.Close()

	for i, t := range txs {
		if _, err := stmt.ExecContext(ctx, i, t.ID, t.Date.ISO(), t.Description,
			t.Amount.Cents, t.Category, string(t.Type), t.User); err != nil {
			return fmt.Errorf("insert transaction %s: %w", t.ID, err)
		}
	}

	if err := dbtx.Commit(); err != nil {
		return fmt.Errorf("commit save transactions: %w", err)
	}
	return nil
}

func (s *Store) LoadGoals(ctx context.Context) ([]core.Goal, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, target_cents, current_cents, deadline, icon
		 FROM goals ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("query goals: %w", err)
	}
	defer rows.Close()

	goals := []core.Goal{}
	for rows.Next() {
		var (
			g        core.Goal
			deadline string
		)
		if err := rows.Scan(&g.ID, &g.Name, &g.TargetAmount.Cents, &g.CurrentAmount.Cents, &deadline, &g.Icon); err != nil {
			return nil, fmt.Errorf("scan goal: %w", err)
		}
		if d, err := core.ParseDate(deadline); err == nil {
			g.Deadline = d
		}
		goals = append(goals, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate goals: %w", err)
	}
	return goals, nil
}

func (s *Store) SaveGoals(ctx context.Context, goals []core.Goal) error {
	dbtx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin save goals: %w", err)
	}
	defer dbtx.Rollback()

	if _, err := dbtx.ExecContext(ctx, `DELETE FROM goals`); err != nil {
		return fmt.Errorf("clear goals: %w", err)
	}
	stmt, err := dbtx.PrepareContext(ctx,
		`INSERT INTO goals (position, id, name, target_cents, current_cents, deadline, icon)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert goal: %w", err)
	}
	defer stmt.Close()

	for i, g := range goals {
		if _, err := stmt.ExecContext(ctx, i, g.ID, g.Name, g.TargetAmount.Cents,
			g.CurrentAmount.Cents, g.Deadline.ISO(), g.Icon); err != nil {
			return fmt.Errorf("insert goal %s: %w", g.ID, err)
		}
	}

	if err := dbtx.Commit(); err != nil {
		return fmt.Errorf("commit save goals: %w", err)
	}
	return nil
}
