package core

import (
	"errors"
	"strings"
	"time"
)

const (
	TypeFixed         TxType = "fixed"
	TypeVariable      TxType = "variable"
	TypeDiscretionary TxType = "discretionary"
	TypeIncome        TxType = "income"
	TypeSavings       TxType = "savings"
)

const (
	JarSpend JarType = "spend"
	JarSave  JarType = "save"
	JarGive  JarType = "give"
)

type (
	// TxType classifies a transaction. The set is closed: anything outside
	// the five known values fails validation.
	TxType string

	// JarType identifies one of the kids-mode envelopes.
	JarType string

	Date struct {
		time.Time
	}

	Money struct {
		Cents int64
	}

	Transaction struct {
		ID          string
		Date        Date
		Description string
		Amount      Money // unsigned magnitude, direction derives from Type
		Category    string
		Type        TxType
		User        string
	}

	Goal struct {
		ID            string
		Name          string
		TargetAmount  Money
		CurrentAmount Money // intentionally not clamped to the target
		Deadline      Date
		Icon          string
	}

	// ChatMessage is one entry of the advisory transcript. Never persisted.
	ChatMessage struct {
		Role    string `json:"role"` // "user" or "model"
		Text    string `json:"text"`
		IsError bool   `json:"is_error,omitempty"`
	}

	KidJar struct {
		Type   JarType `json:"type"`
		Amount Money   `json:"-"`
		Color  string  `json:"color"`
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrEmptyID          = errors.New("empty id")
	ErrEmptyDescription = errors.New("empty description")
	ErrEmptyName        = errors.New("empty name")
	ErrInvalidTarget    = errors.New("target amount must be positive")
)

func (t TxType) IsValid() bool {
	switch t {
	case TypeFixed, TypeVariable, TypeDiscretionary, TypeIncome, TypeSavings:
		return true
	default:
		return false
	}
}

// IsExpense reports whether the type counts toward total expenses.
// Savings are transfers, not spending, so they are excluded alongside income.
func (t TxType) IsExpense() bool {
	return t != TypeIncome && t != TypeSavings
}

func (t TxType) String() string { return string(t) }

func (j JarType) IsValid() bool {
	switch j {
	case JarSpend, JarSave, JarGive:
		return true
	default:
		return false
	}
}

// NewDate creates a Date at day precision in UTC.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses an ISO day-precision date (2006-01-02).
func ParseDate(s string) (Date, error) {
	t, err := time.Parse("2006-01-02", strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// ISO formats the date as 2006-01-02. Zero dates format as the empty string.
func (d Date) ISO() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01-02")
}

// YearMonth returns the 2006-01 prefix used by the month filter.
func (d Date) YearMonth() string {
	if d.IsZero() {
		return ""
	}
	return d.Format("2006-01")
}

func (m Money) Validate() error {
	if m.Cents < 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.ID) == "" {
		return ErrEmptyID
	}
	if err := t.Date.Validate(); err != nil {
		return err
	}
	if len(strings.TrimSpace(t.Description)) == 0 {
		return ErrEmptyDescription
	}
	if len(t.Description) > 200 {
		return errors.New("description too long (max 200 characters)")
	}
	if err := t.Amount.Validate(); err != nil {
		return err
	}
	if !t.Type.IsValid() {
		return ErrInvalidType
	}
	return nil
}

func (g Goal) Validate() error {
	if strings.TrimSpace(g.ID) == "" {
		return ErrEmptyID
	}
	if len(strings.TrimSpace(g.Name)) == 0 {
		return ErrEmptyName
	}
	if g.TargetAmount.Cents <= 0 {
		return ErrInvalidTarget
	}
	if g.CurrentAmount.Cents < 0 {
		return ErrInvalidAmount
	}
	if err := g.Deadline.Validate(); err != nil {
		return err
	}
	return nil
}

// ProgressPercent is the display percentage for a goal: clamped to 100,
// rounded half-up. The stored CurrentAmount is never clamped. A zero or
// negative target yields 0 rather than a division blow-up.
func (g Goal) ProgressPercent() int {
	if g.TargetAmount.Cents <= 0 {
		return 0
	}
	if g.CurrentAmount.Cents >= g.TargetAmount.Cents {
		return 100
	}
	return int((g.CurrentAmount.Cents*100 + g.TargetAmount.Cents/2) / g.TargetAmount.Cents)
}
