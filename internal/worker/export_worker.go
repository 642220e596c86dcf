// Package worker mirrors ledger state into an export directory. The worker
// consumes ledger events from the broker and additionally runs a periodic
// full export as a backup in case messages are lost.
package worker

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"finanzas/internal/amqp"
	"finanzas/internal/store"
)

// ExportWorker copies the full ledger and goal collections from the primary
// store into the export sink. Events are thin triggers: every export
// re-reads the complete state, so replays and duplicates are harmless.
type ExportWorker struct {
	source store.Store
	sink   store.Store
}

func NewExportWorker(source, sink store.Store) *ExportWorker {
	return &ExportWorker{source: source, sink: sink}
}

// HandleLedgerEvent processes a single ledger event by exporting everything.
func (w *ExportWorker) HandleLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	slog.InfoContext(ctx, "Processing ledger event",
		"kind", msg.Kind,
		"entity_id", msg.EntityID)

	if err := w.ExportAll(ctx); err != nil {
		return fmt.Errorf("export after event: %w", err)
	}
	return nil
}

// ExportAll mirrors transactions and goals from source to sink.
func (w *ExportWorker) ExportAll(ctx context.Context) error {
	started := time.Now()

	txs, err := w.source.LoadTransactions(ctx)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}
	if err := w.sink.SaveTransactions(ctx, txs); err != nil {
		return fmt.Errorf("export transactions: %w", err)
	}

	goals, err := w.source.LoadGoals(ctx)
	if err != nil {
		return fmt.Errorf("load goals: %w", err)
	}
	if err := w.sink.SaveGoals(ctx, goals); err != nil {
		return fmt.Errorf("export goals: %w", err)
	}

	slog.InfoContext(ctx, "Export complete",
		"transactions", len(txs),
		"goals", len(goals),
		"duration", time.Since(started).Round(time.Millisecond))

	return nil
}

// RunPeriodic exports on the given interval until the context is done.
func (w *ExportWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.ExportAll(ctx); err != nil {
				slog.ErrorContext(ctx, "Periodic export failed", "error", err)
			}
		}
	}
}
