package core

import (
	"errors"
	"regexp"
	"sort"
)

const (
	HalfAll    Half = "all"
	HalfFirst  Half = "1"
	HalfSecond Half = "2"
)

// Half selects a semi-monthly pay-cycle window: days 1-15 or 16-end.
type Half string

func (h Half) IsValid() bool {
	switch h {
	case HalfAll, HalfFirst, HalfSecond:
		return true
	default:
		return false
	}
}

// TypeFilter is either a concrete TxType or "all".
type TypeFilter string

const TypeAll TypeFilter = "all"

func (f TypeFilter) IsValid() bool {
	return f == TypeAll || TxType(f).IsValid()
}

var yearMonthRe = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

var (
	ErrInvalidMonthKey   = errors.New("invalid month selector, want YYYY-MM")
	ErrInvalidHalf       = errors.New("invalid half selector, want all, 1 or 2")
	ErrInvalidTypeFilter = errors.New("invalid type selector")
)

// Criteria is the ephemeral filter state. Empty Month means no month
// constraint, empty Category means no category constraint.
type Criteria struct {
	Month    string // YYYY-MM or empty
	Half     Half
	Category string
	Type     TypeFilter
}

// DefaultCriteria selects the current month with no other constraint.
func DefaultCriteria(now Date) Criteria {
	return Criteria{Month: now.YearMonth(), Half: HalfAll, Type: TypeAll}
}

func (c Criteria) Validate() error {
	if c.Month != "" && !yearMonthRe.MatchString(c.Month) {
		return ErrInvalidMonthKey
	}
	if !c.Half.IsValid() {
		return ErrInvalidHalf
	}
	if !c.Type.IsValid() {
		return ErrInvalidTypeFilter
	}
	return nil
}

// Matches reports whether a single transaction satisfies every active
// predicate. A transaction with a zero (unparseable at load time) date never
// matches an active month or half predicate; it is skipped, not a failure.
func (c Criteria) Matches(t Transaction) bool {
	if c.Month != "" {
		if t.Date.IsZero() || t.Date.YearMonth() != c.Month {
			return false
		}
	}
	if c.Half != HalfAll {
		if t.Date.IsZero() {
			return false
		}
		first := t.Date.Day() <= 15
		if first != (c.Half == HalfFirst) {
			return false
		}
	}
	if c.Category != "" && t.Category != c.Category {
		return false
	}
	if c.Type != TypeAll && t.Type != TxType(c.Type) {
		return false
	}
	return true
}

// Filter returns the transactions satisfying all active predicates, sorted
// descending by date. The sort is stable so equal dates keep the ledger's
// insertion order. The input slice is never mutated.
func Filter(ledger []Transaction, c Criteria) []Transaction {
	out := make([]Transaction, 0, len(ledger))
	for _, t := range ledger {
		if c.Matches(t) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.After(out[j].Date.Time)
	})
	return out
}
