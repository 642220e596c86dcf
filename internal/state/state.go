// Package state owns the in-memory application state and its persistence.
// All mutations go through App: validate, apply to the in-memory copy,
// persist synchronously, and only then notify subscribers. A failed save
// leaves the in-memory copy untouched so memory and store never diverge.
package state

import (
	"context"
	"fmt"
	"sync"

	"finanzas/internal/core"
	"finanzas/internal/store"
)

type EventKind string

const (
	EventTransactionAdded   EventKind = "transaction_added"
	EventTransactionUpdated EventKind = "transaction_updated"
	EventTransactionDeleted EventKind = "transaction_deleted"
	EventGoalUpserted       EventKind = "goal_upserted"
)

// Event describes a committed ledger or goal mutation.
type Event struct {
	Kind     EventKind
	EntityID string
}

// Subscriber receives events after the mutation has been persisted.
// Called outside the state lock, so subscribers may read back state.
type Subscriber func(Event)

type App struct {
	store store.Store

	mu           sync.Mutex
	transactions []core.Transaction
	goals        []core.Goal
	jars         []core.KidJar

	subMu       sync.RWMutex
	subscribers []Subscriber
}

func New(s store.Store) *App {
	return &App{
		store: s,
		jars:  defaultJars(),
	}
}

// Load hydrates the in-memory state from the store.
func (a *App) Load(ctx context.Context) error {
	txs, err := a.store.LoadTransactions(ctx)
	if err != nil {
		return fmt.Errorf("load transactions: %w", err)
	}
	goals, err := a.store.LoadGoals(ctx)
	if err != nil {
		return fmt.Errorf("load goals: %w", err)
	}

	a.mu.Lock()
	a.transactions = txs
	a.goals = goals
	a.mu.Unlock()
	return nil
}

// Subscribe registers a callback for committed mutations.
func (a *App) Subscribe(s Subscriber) {
	a.subMu.Lock()
	a.subscribers = append(a.subscribers, s)
	a.subMu.Unlock()
}

func (a *App) notify(e Event) {
	a.subMu.RLock()
	subs := make([]Subscriber, len(a.subscribers))
	copy(subs, a.subscribers)
	a.subMu.RUnlock()

	for _, s := range subs {
		s(e)
	}
}

// Transactions returns a copy of the ledger, most recent first.
func (a *App) Transactions() []core.Transaction {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]core.Transaction, len(a.transactions))
	copy(out, a.transactions)
	return out
}

// Goals returns a copy of the savings goals.
func (a *App) Goals() []core.Goal {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]core.Goal, len(a.goals))
	copy(out, a.goals)
	return out
}

// AddTransaction validates and prepends a transaction, persisting before
// returning. Duplicate ids are rejected.
func (a *App) AddTransaction(ctx context.Context, t core.Transaction) error {
	if err := t.Validate(); err != nil {
		return err
	}

	a.mu.Lock()
	for i := range a.transactions {
		if a.transactions[i].ID == t.ID {
			a.mu.Unlock()
			return fmt.Errorf("transaction %s already exists", t.ID)
		}
	}
	next := core.Prepend(a.transactions, t)
	if err := a.store.SaveTransactions(ctx, next); err != nil {
		a.mu.Unlock()
		return fmt.Errorf("persist transactions: %w", err)
	}
	a.transactions = next
	a.mu.Unlock()

	a.notify(Event{Kind: EventTransactionAdded, EntityID: t.ID})
	return nil
}

// UpdateTransaction replaces the transaction with a matching id. The first
// return reports whether the id existed.
func (a *App) UpdateTransaction(ctx context.Context, t core.Transaction) (bool, error) {
	if err := t.Validate(); err != nil {
		return false, err
	}

	a.mu.Lock()
	next, applied := core.Replace(a.transactions, t)
	if !applied {
		a.mu.Unlock()
		return false, nil
	}
	if err := a.store.SaveTransactions(ctx, next); err != nil {
		a.mu.Unlock()
		return false, fmt.Errorf("persist transactions: %w", err)
	}
	a.transactions = next
	a.mu.Unlock()

	a.notify(Event{Kind: EventTransactionUpdated, EntityID: t.ID})
	return true, nil
}

// DeleteTransaction removes the transaction with the given id. Absent ids
// are a no-op reported through the first return.
func (a *App) DeleteTransaction(ctx context.Context, id string) (bool, error) {
	a.mu.Lock()
	next, applied := core.Remove(a.transactions, id)
	if !applied {
		a.mu.Unlock()
		return false, nil
	}
	if err := a.store.SaveTransactions(ctx, next); err != nil {
		a.mu.Unlock()
		return false, fmt.Errorf("persist transactions: %w", err)
	}
	a.transactions = next
	a.mu.Unlock()

	a.notify(Event{Kind: EventTransactionDeleted, EntityID: id})
	return true, nil
}

// UpsertGoal replaces the goal with a matching id or appends a new one.
// The caller supplies the full record.
func (a *App) UpsertGoal(ctx context.Context, g core.Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}

	a.mu.Lock()
	next := core.UpsertGoal(a.goals, g)
	if err := a.store.SaveGoals(ctx, next); err != nil {
		a.mu.Unlock()
		return fmt.Errorf("persist goals: %w", err)
	}
	a.goals = next
	a.mu.Unlock()

	a.notify(Event{Kind: EventGoalUpserted, EntityID: g.ID})
	return nil
}

// Jars returns a copy of the kids-mode jars. Jars are demo state and live
// only in memory.
func (a *App) Jars() []core.KidJar {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]core.KidJar, len(a.jars))
	copy(out, a.jars)
	return out
}

// jarDepositCents is the fixed amount added per jar deposit.
const jarDepositCents = 100

// DepositJar adds one fixed unit to the named jar and returns the updated
// jar. Unknown jar types return an error.
func (a *App) DepositJar(t core.JarType) (core.KidJar, error) {
	if !t.IsValid() {
		return core.KidJar{}, fmt.Errorf("unknown jar type: %s", t)
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range a.jars {
		if a.jars[i].Type == t {
			a.jars[i].Amount.Cents += jarDepositCents
			return a.jars[i], nil
		}
	}
	return core.KidJar{}, fmt.Errorf("unknown jar type: %s", t)
}

func defaultJars() []core.KidJar {
	return []core.KidJar{
		{Type: core.JarSpend, Amount: core.Money{Cents: 1550}, Color: "blue"},
		{Type: core.JarSave, Amount: core.Money{Cents: 4500}, Color: "green"},
		{Type: core.JarGive, Amount: core.Money{Cents: 500}, Color: "pink"},
	}
}
