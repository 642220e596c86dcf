package core

// Ledger mutation rules. These helpers are pure: each returns a new slice
// and reports whether the mutation applied. Ownership and persistence are
// the state layer's problem.

// Prepend inserts a transaction at the front of the ledger, keeping the
// most-recent-first convention.
func Prepend(ledger []Transaction, t Transaction) []Transaction {
	out := make([]Transaction, 0, len(ledger)+1)
	out = append(out, t)
	return append(out, ledger...)
}

// Replace swaps the transaction whose id matches for the given record.
// An absent id is a silent no-op, reported through the second return.
func Replace(ledger []Transaction, t Transaction) ([]Transaction, bool) {
	for i := range ledger {
		if ledger[i].ID == t.ID {
			out := make([]Transaction, len(ledger))
			copy(out, ledger)
			out[i] = t
			return out, true
		}
	}
	return ledger, false
}

// Remove deletes the transaction whose id matches. Absent ids are a no-op.
func Remove(ledger []Transaction, id string) ([]Transaction, bool) {
	for i := range ledger {
		if ledger[i].ID == id {
			out := make([]Transaction, 0, len(ledger)-1)
			out = append(out, ledger[:i]...)
			return append(out, ledger[i+1:]...), true
		}
	}
	return ledger, false
}

// UpsertGoal replaces the goal with a matching id or appends when absent.
// Callers supply the full record; there is no partial-field merge.
func UpsertGoal(goals []Goal, g Goal) []Goal {
	for i := range goals {
		if goals[i].ID == g.ID {
			out := make([]Goal, len(goals))
			copy(out, goals)
			out[i] = g
			return out
		}
	}
	out := make([]Goal, 0, len(goals)+1)
	out = append(out, goals...)
	return append(out, g)
}
