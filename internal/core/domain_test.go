package core

import (
	"testing"
	"time"
)

func tx(id, date string, cents int64, category string, typ TxType) Transaction {
	d, _ := ParseDate(date)
	return Transaction{
		ID:          id,
		Date:        d,
		Description: "d-" + id,
		Amount:      Money{Cents: cents},
		Category:    category,
		Type:        typ,
		User:        "Papá",
	}
}

func TestTxTypeIsValid(t *testing.T) {
	for _, typ := range []TxType{TypeFixed, TypeVariable, TypeDiscretionary, TypeIncome, TypeSavings} {
		if !typ.IsValid() {
			t.Fatalf("%s should be valid", typ)
		}
	}
	for _, typ := range []TxType{"", "expense", "Income", "misc"} {
		if typ.IsValid() {
			t.Fatalf("%q should be invalid", typ)
		}
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-03-05")
	if err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	if d.Year() != 2024 || d.Month() != time.March || d.Day() != 5 {
		t.Fatalf("unexpected date %v", d)
	}
	for _, bad := range []string{"", "2024-13-01", "not-a-date", "05/03/2024"} {
		if _, err := ParseDate(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestTransactionValidate(t *testing.T) {
	good := tx("1", "2024-03-05", 10000, "Ingresos", TypeIncome)
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	// zero amount is allowed: magnitude is unsigned, direction comes from type
	zero := tx("2", "2024-03-05", 0, "Varios", TypeVariable)
	if err := zero.Validate(); err != nil {
		t.Fatalf("zero amount should validate, got %v", err)
	}

	bads := []Transaction{
		tx("", "2024-03-05", 100, "c", TypeIncome),
		{ID: "3", Description: "a", Amount: Money{Cents: 1}, Type: TypeIncome}, // zero date
		tx("4", "2024-03-05", -1, "c", TypeIncome),
		tx("5", "2024-03-05", 100, "c", "misc"),
	}
	for i, b := range bads {
		if err := b.Validate(); err == nil {
			t.Fatalf("case %d expected error", i)
		}
	}
}

func TestGoalValidateAndProgress(t *testing.T) {
	g := Goal{
		ID:            "g1",
		Name:          "Vacaciones",
		TargetAmount:  Money{Cents: 20000},
		CurrentAmount: Money{Cents: 25000},
		Deadline:      NewDate(2024, 6, 1),
		Icon:          "🏖️",
	}
	if err := g.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}
	// display clamps, the stored value does not
	if got := g.ProgressPercent(); got != 100 {
		t.Fatalf("progress = %d, want 100", got)
	}
	if g.CurrentAmount.Cents != 25000 {
		t.Fatalf("stored amount mutated: %d", g.CurrentAmount.Cents)
	}

	g.CurrentAmount = Money{Cents: 5000}
	if got := g.ProgressPercent(); got != 25 {
		t.Fatalf("progress = %d, want 25", got)
	}

	g.TargetAmount = Money{Cents: 0}
	if got := g.ProgressPercent(); got != 0 {
		t.Fatalf("zero target progress = %d, want 0", got)
	}
	if err := g.Validate(); err == nil {
		t.Fatalf("zero target should not validate")
	}
}

func TestUpsertGoalIdempotent(t *testing.T) {
	g := Goal{ID: "g1", Name: "Laptop", TargetAmount: Money{Cents: 150000}, Deadline: NewDate(2024, 12, 25)}
	once := UpsertGoal(nil, g)
	twice := UpsertGoal(once, g)
	if len(once) != 1 || len(twice) != 1 {
		t.Fatalf("upsert sizes: once=%d twice=%d", len(once), len(twice))
	}
	if twice[0] != g {
		t.Fatalf("unexpected record after double upsert: %+v", twice[0])
	}

	g2 := g
	g2.CurrentAmount = Money{Cents: 80000}
	replaced := UpsertGoal(twice, g2)
	if len(replaced) != 1 || replaced[0].CurrentAmount.Cents != 80000 {
		t.Fatalf("upsert should replace in place: %+v", replaced)
	}
}

func TestLedgerMutations(t *testing.T) {
	a := tx("a", "2024-03-01", 100, "c", TypeVariable)
	b := tx("b", "2024-03-02", 200, "c", TypeVariable)

	ledger := Prepend(nil, a)
	ledger = Prepend(ledger, b)
	if ledger[0].ID != "b" || ledger[1].ID != "a" {
		t.Fatalf("prepend order wrong: %v", ledger)
	}

	b2 := b
	b2.Amount = Money{Cents: 300}
	ledger, ok := Replace(ledger, b2)
	if !ok || ledger[0].Amount.Cents != 300 {
		t.Fatalf("replace failed: ok=%v ledger=%v", ok, ledger)
	}

	if _, ok := Replace(ledger, tx("missing", "2024-03-03", 1, "c", TypeVariable)); ok {
		t.Fatalf("replace of absent id should be a no-op")
	}

	ledger, ok = Remove(ledger, "a")
	if !ok || len(ledger) != 1 {
		t.Fatalf("remove failed: ok=%v len=%d", ok, len(ledger))
	}
	if _, ok := Remove(ledger, "a"); ok {
		t.Fatalf("second remove should be a no-op")
	}
}

func TestMoneyParse(t *testing.T) {
	cases := []struct {
		in    string
		cents int64
		ok    bool
	}{
		{"12.34", 1234, true},
		{"12,34", 1234, true},
		{"12.345", 1234, true},
		{"12.346", 1235, true},
		{"0", 0, true},
		{"-5", 0, false},
		{"+5", 0, false},
		{"abc", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseDecimalToCents(tc.in)
		if tc.ok && (err != nil || got != tc.cents) {
			t.Fatalf("ParseDecimalToCents(%q) = %d, %v; want %d", tc.in, got, err, tc.cents)
		}
		if !tc.ok && err == nil {
			t.Fatalf("ParseDecimalToCents(%q) expected error", tc.in)
		}
	}
}
