// Package store defines the persistence port for the ledger and the goal
// collection, plus the JSON record shapes shared by its adapters.
package store

import (
	"context"

	"finanzas/internal/core"
)

// Store is the persistence port. Loads tolerate corrupt or missing data by
// returning an empty collection; saves are synchronous and report failure to
// the caller instead of being fire-and-forget.
type Store interface {
	LoadTransactions(ctx context.Context) ([]core.Transaction, error)
	SaveTransactions(ctx context.Context, txs []core.Transaction) error

	LoadGoals(ctx context.Context) ([]core.Goal, error)
	SaveGoals(ctx context.Context, goals []core.Goal) error

	Close() error
}

// Fixed storage keys. Each key holds one JSON-serialized array.
const (
	KeyTransactions = "transactions"
	KeyGoals        = "goals"
)
