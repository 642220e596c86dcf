package store

import (
	"encoding/json"

	"finanzas/internal/core"
)

// TransactionRecord is the persisted shape of a transaction. Amounts are
// stored as cents so the round-trip is exact.
type TransactionRecord struct {
	ID          string `json:"id"`
	Date        string `json:"date"`
	Description string `json:"description"`
	AmountCents int64  `json:"amount_cents"`
	Category    string `json:"category"`
	Type        string `json:"type"`
	User        string `json:"user"`
}

// GoalRecord is the persisted shape of a savings goal.
type GoalRecord struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	TargetCents  int64  `json:"target_cents"`
	CurrentCents int64  `json:"current_cents"`
	Deadline     string `json:"deadline"`
	Icon         string `json:"icon"`
}

func toTransactionRecord(t core.Transaction) TransactionRecord {
	return TransactionRecord{
		ID:          t.ID,
		Date:        t.Date.ISO(),
		Description: t.Description,
		AmountCents: t.Amount.Cents,
		Category:    t.Category,
		Type:        string(t.Type),
		User:        t.User,
	}
}

func fromTransactionRecord(r TransactionRecord) core.Transaction {
	// A malformed stored date becomes a zero date: the record survives the
	// load and the filter engine simply never matches it against an active
	// date predicate.
	d, err := core.ParseDate(r.Date)
	if err != nil {
		d = core.Date{}
	}
	return core.Transaction{
		ID:          r.ID,
		Date:        d,
		Description: r.Description,
		Amount:      core.Money{Cents: r.AmountCents},
		Category:    r.Category,
		Type:        core.TxType(r.Type),
		User:        r.User,
	}
}

func toGoalRecord(g core.Goal) GoalRecord {
	return GoalRecord{
		ID:           g.ID,
		Name:         g.Name,
		TargetCents:  g.TargetAmount.Cents,
		CurrentCents: g.CurrentAmount.Cents,
		Deadline:     g.Deadline.ISO(),
		Icon:         g.Icon,
	}
}

func fromGoalRecord(r GoalRecord) core.Goal {
	d, err := core.ParseDate(r.Deadline)
	if err != nil {
		d = core.Date{}
	}
	return core.Goal{
		ID:            r.ID,
		Name:          r.Name,
		TargetAmount:  core.Money{Cents: r.TargetCents},
		CurrentAmount: core.Money{Cents: r.CurrentCents},
		Deadline:      d,
		Icon:          r.Icon,
	}
}

// MarshalTransactions serializes the ledger as one JSON array.
func MarshalTransactions(txs []core.Transaction) ([]byte, error) {
	records := make([]TransactionRecord, len(txs))
	for i, t := range txs {
		records[i] = toTransactionRecord(t)
	}
	return json.Marshal(records)
}

// UnmarshalTransactions parses a stored JSON array back into the ledger.
func UnmarshalTransactions(data []byte) ([]core.Transaction, error) {
	var records []TransactionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	txs := make([]core.Transaction, len(records))
	for i, r := range records {
		txs[i] = fromTransactionRecord(r)
	}
	return txs, nil
}

// MarshalGoals serializes the goal collection as one JSON array.
func MarshalGoals(goals []core.Goal) ([]byte, error) {
	records := make([]GoalRecord, len(goals))
	for i, g := range goals {
		records[i] = toGoalRecord(g)
	}
	return json.Marshal(records)
}

// UnmarshalGoals parses a stored JSON array back into the goal collection.
func UnmarshalGoals(data []byte) ([]core.Goal, error) {
	var records []GoalRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, err
	}
	goals := make([]core.Goal, len(records))
	for i, r := range records {
		goals[i] = fromGoalRecord(r)
	}
	return goals, nil
}
