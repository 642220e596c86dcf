// Package memory is an in-process Store used for tests and as the zero-setup
// default backend.
package memory

import (
	"context"
	"sync"

	"finanzas/internal/core"
)

type Store struct {
	mu    sync.Mutex
	txs   []core.Transaction
	goals []core.Goal
}

func New() *Store {
	return &Store{}
}

func (s *Store) LoadTransactions(_ context.Context) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.txs))
	copy(out, s.txs)
	return out, nil
}

func (s *Store) SaveTransactions(_ context.Context, txs []core.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.txs = make([]core.Transaction, len(txs))
	copy(s.txs, txs)
	return nil
}

func (s *Store) LoadGoals(_ context.Context) ([]core.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Goal, len(s.goals))
	copy(out, s.goals)
	return out, nil
}

func (s *Store) SaveGoals(_ context.Context, goals []core.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.goals = make([]core.Goal, len(goals))
	copy(s.goals, goals)
	return nil
}

func (s *Store) Close() error { return nil }
