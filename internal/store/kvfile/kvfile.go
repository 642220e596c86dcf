// Package kvfile persists the ledger and goals as two independent JSON
// documents under fixed keys in a directory, mirroring the key-value layout
// the web client used. Corrupt or missing documents load as empty
// collections rather than failing the application.
package kvfile

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"finanzas/internal/core"
	"finanzas/internal/store"
)

type Store struct {
	dir string
}

// New creates the backing directory if needed.
func New(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	return &Store{dir: dir}, nil
}

func (s *Store) path(key string) string {
	return filepath.Join(s.dir, key+".json")
}

func (s *Store) LoadTransactions(ctx context.Context) ([]core.Transaction, error) {
	data, ok := s.read(ctx, store.KeyTransactions)
	if !ok {
		return []core.Transaction{}, nil
	}
	txs, err := store.UnmarshalTransactions(data)
	if err != nil {
		slog.WarnContext(ctx, "Corrupt transactions document, starting empty",
			"key", store.KeyTransactions, "error", err)
		return []core.Transaction{}, nil
	}
	return txs, nil
}

func (s *Store) SaveTransactions(ctx context.Context, txs []core.Transaction) error {
	data, err := store.MarshalTransactions(txs)
	if err != nil {
		return fmt.Errorf("marshal transactions: %w", err)
	}
	return s.write(store.KeyTransactions, data)
}

func (s *Store) LoadGoals(ctx context.Context) ([]core.Goal, error) {
	data, ok := s.read(ctx, store.KeyGoals)
	if !ok {
		return []core.Goal{}, nil
	}
	goals, err := store.UnmarshalGoals(data)
	if err != nil {
		slog.WarnContext(ctx, "Corrupt goals document, starting empty",
			"key", store.KeyGoals, "error", err)
		return []core.Goal{}, nil
	}
	return goals, nil
}

func (s *Store) SaveGoals(ctx context.Context, goals []core.Goal) error {
	data, err := store.MarshalGoals(goals)
	if err != nil {
		return fmt.Errorf("marshal goals: %w", err)
	}
	return s.write(store.KeyGoals, data)
}

func (s *Store) Close() error { return nil }

// read returns the raw document for a key. Missing files are not an error;
// they read as absent and the caller starts from an empty collection.
func (s *Store) read(ctx context.Context, key string) ([]byte, bool) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		if !os.IsNotExist(err) {
			slog.WarnContext(ctx, "Unreadable storage document, starting empty",
				"key", key, "error", err)
		}
		return nil, false
	}
	return data, true
}

// write replaces a document atomically: temp file in the same directory,
// then rename over the target.
func (s *Store) write(key string, data []byte) error {
	target := s.path(key)
	tmp, err := os.CreateTemp(s.dir, key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp document: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write document %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close document %s: %w", key, err)
	}
	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace document %s: %w", key, err)
	}
	return nil
}
