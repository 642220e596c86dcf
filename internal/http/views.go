package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"finanzas/internal/core"

	"github.com/google/uuid"
)

// Views expose decimal amounts for display alongside the exact cent
// values. Calculations never leave cents; the floats are read-only.

type transactionView struct {
	ID          string  `json:"id"`
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	AmountCents int64   `json:"amount_cents"`
	Category    string  `json:"category"`
	Type        string  `json:"type"`
	User        string  `json:"user,omitempty"`
}

func toTransactionView(t core.Transaction) transactionView {
	return transactionView{
		ID:          t.ID,
		Date:        t.Date.ISO(),
		Description: t.Description,
		Amount:      t.Amount.Decimal(),
		AmountCents: t.Amount.Cents,
		Category:    t.Category,
		Type:        t.Type.String(),
		User:        t.User,
	}
}

func toTransactionViews(txs []core.Transaction) []transactionView {
	out := make([]transactionView, 0, len(txs))
	for _, t := range txs {
		out = append(out, toTransactionView(t))
	}
	return out
}

// transactionRequest is the mutation payload. Amount is a decimal number
// or numeric string; it is parsed to cents with half-up rounding.
type transactionRequest struct {
	ID          string      `json:"id"`
	Date        string      `json:"date"`
	Description string      `json:"description"`
	Amount      json.Number `json:"amount"`
	Category    string      `json:"category"`
	Type        string      `json:"type"`
	User        string      `json:"user"`
}

// toCore converts the payload, assigning a fresh id when none is given.
func (req transactionRequest) toCore() (core.Transaction, error) {
	date, err := core.ParseDate(req.Date)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("date: %w", err)
	}
	cents, err := core.ParseDecimalToCents(req.Amount.String())
	if err != nil {
		return core.Transaction{}, fmt.Errorf("amount: %w", err)
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	return core.Transaction{
		ID:          id,
		Date:        date,
		Description: req.Description,
		Amount:      core.Money{Cents: cents},
		Category:    req.Category,
		Type:        core.TxType(req.Type),
		User:        req.User,
	}, nil
}

type goalView struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	TargetAmount    float64 `json:"target_amount"`
	CurrentAmount   float64 `json:"current_amount"`
	TargetCents     int64   `json:"target_cents"`
	CurrentCents    int64   `json:"current_cents"`
	Deadline        string  `json:"deadline"`
	Icon            string  `json:"icon,omitempty"`
	ProgressPercent int     `json:"progress_percent"`
}

func toGoalView(g core.Goal) goalView {
	return goalView{
		ID:              g.ID,
		Name:            g.Name,
		TargetAmount:    g.TargetAmount.Decimal(),
		CurrentAmount:   g.CurrentAmount.Decimal(),
		TargetCents:     g.TargetAmount.Cents,
		CurrentCents:    g.CurrentAmount.Cents,
		Deadline:        g.Deadline.ISO(),
		Icon:            g.Icon,
		ProgressPercent: g.ProgressPercent(),
	}
}

func toGoalViews(goals []core.Goal) []goalView {
	out := make([]goalView, 0, len(goals))
	for _, g := range goals {
		out = append(out, toGoalView(g))
	}
	return out
}

type goalRequest struct {
	Name          string      `json:"name"`
	TargetAmount  json.Number `json:"target_amount"`
	CurrentAmount json.Number `json:"current_amount"`
	Deadline      string      `json:"deadline"`
	Icon          string      `json:"icon"`
}

func (req goalRequest) toCore(id string) (core.Goal, error) {
	target, err := core.ParseDecimalToCents(req.TargetAmount.String())
	if err != nil {
		return core.Goal{}, fmt.Errorf("target_amount: %w", err)
	}
	current := int64(0)
	if req.CurrentAmount.String() != "" {
		current, err = core.ParseDecimalToCents(req.CurrentAmount.String())
		if err != nil {
			return core.Goal{}, fmt.Errorf("current_amount: %w", err)
		}
	}
	deadline, err := core.ParseDate(req.Deadline)
	if err != nil {
		return core.Goal{}, fmt.Errorf("deadline: %w", err)
	}

	return core.Goal{
		ID:            id,
		Name:          req.Name,
		TargetAmount:  core.Money{Cents: target},
		CurrentAmount: core.Money{Cents: current},
		Deadline:      deadline,
		Icon:          req.Icon,
	}, nil
}

type moneyView struct {
	Amount float64 `json:"amount"`
	Cents  int64   `json:"cents"`
}

func toMoneyView(m core.Money) moneyView {
	return moneyView{Amount: m.Decimal(), Cents: m.Cents}
}

type ruleSliceView struct {
	Name   string    `json:"name"`
	Actual moneyView `json:"actual"`
	Target moneyView `json:"target"`
}

func toRuleSliceView(s core.RuleSlice) ruleSliceView {
	return ruleSliceView{Name: s.Name, Actual: toMoneyView(s.Actual), Target: toMoneyView(s.Target)}
}

type summaryView struct {
	Income   moneyView `json:"income"`
	Expenses moneyView `json:"expenses"`
	Balance  moneyView `json:"balance"`

	Rule struct {
		Needs   ruleSliceView `json:"needs"`
		Wants   ruleSliceView `json:"wants"`
		Savings ruleSliceView `json:"savings"`
	} `json:"rule"`

	Categories []categoryTotalView `json:"categories"`
	Trend      []trendPointView    `json:"trend"`
}

type categoryTotalView struct {
	Category string    `json:"category"`
	Amount   moneyView `json:"amount"`
}

type trendPointView struct {
	Label   string    `json:"label"`
	Income  moneyView `json:"income"`
	Expense moneyView `json:"expense"`
}

func buildSummaryView(txs []core.Transaction) summaryView {
	var out summaryView

	s := core.Summarize(txs)
	out.Income = toMoneyView(s.Income)
	out.Expenses = toMoneyView(s.Expenses)
	out.Balance = toMoneyView(s.Balance)

	rule := core.AnalyzeRule(txs)
	out.Rule.Needs = toRuleSliceView(rule.Needs)
	out.Rule.Wants = toRuleSliceView(rule.Wants)
	out.Rule.Savings = toRuleSliceView(rule.Savings)

	out.Categories = make([]categoryTotalView, 0, 8)
	for _, ct := range core.CategoryTotals(txs) {
		out.Categories = append(out.Categories, categoryTotalView{Category: ct.Category, Amount: toMoneyView(ct.Amount)})
	}

	out.Trend = make([]trendPointView, 0, 16)
	for _, tp := range core.Trend(txs) {
		out.Trend = append(out.Trend, trendPointView{
			Label:   tp.Label,
			Income:  toMoneyView(tp.Income),
			Expense: toMoneyView(tp.Expense),
		})
	}

	return out
}

type jarView struct {
	Type   string  `json:"type"`
	Amount float64 `json:"amount"`
	Cents  int64   `json:"cents"`
	Color  string  `json:"color"`
}

func toJarView(j core.KidJar) jarView {
	return jarView{
		Type:   string(j.Type),
		Amount: j.Amount.Decimal(),
		Cents:  j.Amount.Cents,
		Color:  j.Color,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
