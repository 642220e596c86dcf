package state

import (
	"context"
	"errors"
	"testing"

	"finanzas/internal/core"
	"finanzas/internal/store/memory"
)

func date(s string) core.Date {
	d, _ := core.ParseDate(s)
	return d
}

func validTx(id string) core.Transaction {
	return core.Transaction{
		ID:          id,
		Date:        date("2024-03-05"),
		Description: "Supermercado",
		Amount:      core.Money{Cents: 4500},
		Category:    "Comestibles",
		Type:        core.TypeVariable,
		User:        "Mamá",
	}
}

func validGoal(id string) core.Goal {
	return core.Goal{
		ID:           id,
		Name:         "Vacaciones",
		TargetAmount: core.Money{Cents: 300000},
		Deadline:     date("2024-06-01"),
		Icon:         "🏖️",
	}
}

func TestAddTransactionPrependsAndPersists(t *testing.T) {
	s := memory.New()
	app := New(s)
	ctx := context.Background()

	if err := app.AddTransaction(ctx, validTx("a")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := app.AddTransaction(ctx, validTx("b")); err != nil {
		t.Fatalf("add: %v", err)
	}

	txs := app.Transactions()
	if len(txs) != 2 || txs[0].ID != "b" || txs[1].ID != "a" {
		t.Fatalf("expected [b a], got %+v", txs)
	}

	persisted, err := s.LoadTransactions(ctx)
	if err != nil || len(persisted) != 2 || persisted[0].ID != "b" {
		t.Fatalf("store not in sync: %+v, %v", persisted, err)
	}
}

func TestAddTransactionRejectsDuplicateID(t *testing.T) {
	app := New(memory.New())
	ctx := context.Background()

	if err := app.AddTransaction(ctx, validTx("a")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := app.AddTransaction(ctx, validTx("a")); err == nil {
		t.Fatal("expected duplicate id error")
	}
	if len(app.Transactions()) != 1 {
		t.Fatal("duplicate add must not grow the ledger")
	}
}

func TestAddTransactionRejectsInvalid(t *testing.T) {
	app := New(memory.New())

	bad := validTx("a")
	bad.Type = "weird"
	if err := app.AddTransaction(context.Background(), bad); !errors.Is(err, core.ErrInvalidType) {
		t.Fatalf("expected ErrInvalidType, got %v", err)
	}
}

func TestUpdateTransactionAbsentIDIsNoOp(t *testing.T) {
	app := New(memory.New())
	ctx := context.Background()

	if err := app.AddTransaction(ctx, validTx("a")); err != nil {
		t.Fatalf("add: %v", err)
	}

	applied, err := app.UpdateTransaction(ctx, validTx("ghost"))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if applied {
		t.Fatal("absent id must not apply")
	}
	if got := app.Transactions(); len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("ledger changed by no-op update: %+v", got)
	}
}

func TestDeleteTransaction(t *testing.T) {
	s := memory.New()
	app := New(s)
	ctx := context.Background()

	if err := app.AddTransaction(ctx, validTx("a")); err != nil {
		t.Fatalf("add: %v", err)
	}

	applied, err := app.DeleteTransaction(ctx, "a")
	if err != nil || !applied {
		t.Fatalf("delete: applied=%v err=%v", applied, err)
	}
	if applied, _ := app.DeleteTransaction(ctx, "a"); applied {
		t.Fatal("second delete must be a no-op")
	}

	persisted, _ := s.LoadTransactions(ctx)
	if len(persisted) != 0 {
		t.Fatalf("store not in sync after delete: %+v", persisted)
	}
}

type failingStore struct {
	*memory.Store
	failSave bool
}

func (f *failingStore) SaveTransactions(ctx context.Context, txs []core.Transaction) error {
	if f.failSave {
		return errors.New("disk full")
	}
	return f.Store.SaveTransactions(ctx, txs)
}

func TestFailedSaveLeavesStateUntouched(t *testing.T) {
	fs := &failingStore{Store: memory.New()}
	app := New(fs)
	ctx := context.Background()

	if err := app.AddTransaction(ctx, validTx("a")); err != nil {
		t.Fatalf("add: %v", err)
	}

	fs.failSave = true
	if err := app.AddTransaction(ctx, validTx("b")); err == nil {
		t.Fatal("expected save error to surface")
	}
	if got := app.Transactions(); len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("failed save must not mutate in-memory state: %+v", got)
	}
}

func TestUpsertGoalReplacesOrAppends(t *testing.T) {
	app := New(memory.New())
	ctx := context.Background()

	g := validGoal("g1")
	if err := app.UpsertGoal(ctx, g); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	g.CurrentAmount = core.Money{Cents: 50000}
	if err := app.UpsertGoal(ctx, g); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	goals := app.Goals()
	if len(goals) != 1 {
		t.Fatalf("upsert with same id must replace, got %d goals", len(goals))
	}
	if goals[0].CurrentAmount.Cents != 50000 {
		t.Fatalf("replace did not take: %+v", goals[0])
	}
}

func TestSubscribersNotifiedAfterCommit(t *testing.T) {
	app := New(memory.New())

	var events []Event
	app.Subscribe(func(e Event) {
		events = append(events, e)
	})

	ctx := context.Background()
	if err := app.AddTransaction(ctx, validTx("a")); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := app.DeleteTransaction(ctx, "a"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := app.UpsertGoal(ctx, validGoal("g1")); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	want := []EventKind{EventTransactionAdded, EventTransactionDeleted, EventGoalUpserted}
	if len(events) != len(want) {
		t.Fatalf("expected %d events, got %+v", len(want), events)
	}
	for i, k := range want {
		if events[i].Kind != k {
			t.Errorf("event %d: expected %s, got %s", i, k, events[i].Kind)
		}
	}
}

func TestNoEventOnFailedMutation(t *testing.T) {
	fs := &failingStore{Store: memory.New(), failSave: true}
	app := New(fs)

	notified := false
	app.Subscribe(func(Event) { notified = true })

	if err := app.AddTransaction(context.Background(), validTx("a")); err == nil {
		t.Fatal("expected save error")
	}
	if notified {
		t.Fatal("failed mutation must not notify subscribers")
	}
}

func TestJarDeposit(t *testing.T) {
	app := New(memory.New())

	before := app.Jars()
	var spendBefore int64
	for _, j := range before {
		if j.Type == core.JarSpend {
			spendBefore = j.Amount.Cents
		}
	}

	jar, err := app.DepositJar(core.JarSpend)
	if err != nil {
		t.Fatalf("deposit: %v", err)
	}
	if jar.Amount.Cents != spendBefore+100 {
		t.Fatalf("expected +100 cents, got %d (was %d)", jar.Amount.Cents, spendBefore)
	}

	if _, err := app.DepositJar("piggy"); err == nil {
		t.Fatal("unknown jar type must error")
	}
}

func TestSeedIfEmpty(t *testing.T) {
	s := memory.New()
	app := New(s)
	ctx := context.Background()

	seeded, err := app.SeedIfEmpty(ctx)
	if err != nil || !seeded {
		t.Fatalf("seed: seeded=%v err=%v", seeded, err)
	}
	if len(app.Transactions()) == 0 || len(app.Goals()) == 0 {
		t.Fatal("seed produced no data")
	}

	seeded, err = app.SeedIfEmpty(ctx)
	if err != nil || seeded {
		t.Fatalf("second seed must be a no-op, seeded=%v err=%v", seeded, err)
	}
}

func TestSeedSkippedWhenDataPresent(t *testing.T) {
	app := New(memory.New())
	ctx := context.Background()

	if err := app.AddTransaction(ctx, validTx("a")); err != nil {
		t.Fatalf("add: %v", err)
	}
	seeded, err := app.SeedIfEmpty(ctx)
	if err != nil || seeded {
		t.Fatalf("populated state must not seed, seeded=%v err=%v", seeded, err)
	}
}
