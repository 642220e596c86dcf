package core

import "sort"

// Summary holds the aggregate totals for a transaction set.
type Summary struct {
	Income   Money
	Expenses Money // everything except income and savings
	Balance  Money // income minus expenses
}

// RuleSlice is one band of the 50/30/20 comparison: actual spend against
// the income-proportional target. The rule is a comparison, not a constraint.
type RuleSlice struct {
	Name   string
	Actual Money
	Target Money
}

// RuleBreakdown compares needs (fixed+variable), wants (discretionary) and
// savings against 50%, 30% and 20% of income.
type RuleBreakdown struct {
	Needs   RuleSlice
	Wants   RuleSlice
	Savings RuleSlice
}

// CategoryTotal is the spend aggregated under one category label.
type CategoryTotal struct {
	Category string
	Amount   Money
}

// TrendPoint is one date bucket of the income-vs-expense series.
type TrendPoint struct {
	Label   string
	Income  Money
	Expense Money
}

// trendLabel formats a date bucket the way the dashboard displays it.
const trendLabelFormat = "02 Jan"

// Summarize computes income, expenses and balance in a single pass.
// The empty set yields all zeroes.
func Summarize(txs []Transaction) Summary {
	var s Summary
	for _, t := range txs {
		switch {
		case t.Type == TypeIncome:
			s.Income.Cents += t.Amount.Cents
		case t.Type.IsExpense():
			s.Expenses.Cents += t.Amount.Cents
		}
	}
	s.Balance.Cents = s.Income.Cents - s.Expenses.Cents
	return s
}

// AnalyzeRule computes the 50/30/20 breakdown. Fixed and variable types are
// combined as needs; targets are integer-cent proportions of income.
func AnalyzeRule(txs []Transaction) RuleBreakdown {
	var income, needs, wants, savings int64
	for _, t := range txs {
		switch t.Type {
		case TypeIncome:
			income += t.Amount.Cents
		case TypeFixed, TypeVariable:
			needs += t.Amount.Cents
		case TypeDiscretionary:
			wants += t.Amount.Cents
		case TypeSavings:
			savings += t.Amount.Cents
		}
	}
	return RuleBreakdown{
		Needs:   RuleSlice{Name: "Necesidades", Actual: Money{Cents: needs}, Target: Money{Cents: income * 50 / 100}},
		Wants:   RuleSlice{Name: "Deseos", Actual: Money{Cents: wants}, Target: Money{Cents: income * 30 / 100}},
		Savings: RuleSlice{Name: "Ahorros", Actual: Money{Cents: savings}, Target: Money{Cents: income * 20 / 100}},
	}
}

// CategoryTotals groups spending by category, excluding income and savings,
// sorted descending by amount. Ties keep first-seen order (stable sort over
// the first-occurrence sequence).
func CategoryTotals(txs []Transaction) []CategoryTotal {
	totals := make(map[string]int64, 8)
	order := make([]string, 0, 8)
	for _, t := range txs {
		if !t.Type.IsExpense() {
			continue
		}
		if _, seen := totals[t.Category]; !seen {
			order = append(order, t.Category)
		}
		totals[t.Category] += t.Amount.Cents
	}
	out := make([]CategoryTotal, 0, len(order))
	for _, name := range order {
		out = append(out, CategoryTotal{Category: name, Amount: Money{Cents: totals[name]}})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Amount.Cents > out[j].Amount.Cents
	})
	return out
}

// Trend buckets transactions by formatted date label in chronological order
// and accumulates income and expense totals per bucket. Savings stay out of
// the expense line. Transactions with a zero date are skipped.
func Trend(txs []Transaction) []TrendPoint {
	sorted := make([]Transaction, len(txs))
	copy(sorted, txs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date.Time)
	})

	index := make(map[string]int, 16)
	out := make([]TrendPoint, 0, 16)
	for _, t := range sorted {
		if t.Date.IsZero() {
			continue
		}
		label := t.Date.Format(trendLabelFormat)
		i, ok := index[label]
		if !ok {
			i = len(out)
			index[label] = i
			out = append(out, TrendPoint{Label: label})
		}
		switch {
		case t.Type == TypeIncome:
			out[i].Income.Cents += t.Amount.Cents
		case t.Type.IsExpense():
			out[i].Expense.Cents += t.Amount.Cents
		}
	}
	return out
}
