// Package models defines the client-side financial record types and the
// normalization step applied at the store boundary.
package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ysemenov/coinkeeper/internal/common"
)

// Kind classifies a financial record.
type Kind string

const (
	KindExpense    Kind = "expense"
	KindBudget     Kind = "budget"
	KindLoan       Kind = "loan"
	KindInvestment Kind = "investment"
)

// LoanDirection tells which way a loan record points.
type LoanDirection string

const (
	LoanGiven LoanDirection = "given"
	LoanTaken LoanDirection = "taken"
)

// ExpenseCategories is the fixed category set for expenses and budgets.
var ExpenseCategories = []string{
	"Food", "Transport", "Shopping", "Bills",
	"Entertainment", "Health", "Education", "Others",
}

// InvestmentTypes is the fixed type set for investments.
var InvestmentTypes = []string{
	"Stocks", "Mutual Funds", "Gold", "Fixed Deposit",
	"Real Estate", "Others", "Crypto",
}

// Record is the canonical client-side shape shared by expenses, budgets,
// loans and investments. Optional fields are zero-valued when absent;
// HasSecondary distinguishes "no secondary amount" from an explicit zero.
type Record struct {
	ID            string
	Kind          Kind
	Title         string
	Category      string
	Amount        decimal.Decimal
	Secondary     decimal.Decimal
	HasSecondary  bool
	Date          string // YYYY-MM-DD
	Period        string // YYYY-MM
	LoanDirection LoanDirection
	Contact       string
	DueDate       string // YYYY-MM-DD, loans only
	CreatedAt     time.Time
}

// Validate enforces the creation/update invariants: a positive amount, a
// non-negative secondary amount when present, a known kind, and a direction
// on loan records.
func (r Record) Validate() error {
	switch r.Kind {
	case KindExpense, KindBudget, KindLoan, KindInvestment:
	default:
		return common.ErrUnknownRecordKind
	}
	if r.Amount.Sign() <= 0 {
		return common.ErrAmountNotPositive
	}
	if r.HasSecondary && r.Secondary.Sign() < 0 {
		return common.ErrNegativeSecondary
	}
	if r.Kind == KindLoan && r.LoanDirection != LoanGiven && r.LoanDirection != LoanTaken {
		return fmt.Errorf("%w: loan direction must be given or taken", common.ErrorValidation)
	}
	return nil
}

// RecordWire is the JSON shape records travel in. Older clients wrote the
// category under "type" (expenses) or "investmentType" (investments) and the
// secondary amount under "repayment" or "currentValue"; all aliases are kept
// readable here and reconciled by Normalize.
type RecordWire struct {
	ID             string    `json:"id"`
	Kind           string    `json:"kind"`
	Title          string    `json:"title,omitempty"`
	Category       string    `json:"category,omitempty"`
	Type           string    `json:"type,omitempty"`
	InvestmentType string    `json:"investmentType,omitempty"`
	Amount         string    `json:"amount"`
	Secondary      string    `json:"secondaryAmount,omitempty"`
	Repayment      string    `json:"repayment,omitempty"`
	CurrentValue   string    `json:"currentValue,omitempty"`
	Date           string    `json:"date,omitempty"`
	Period         string    `json:"period,omitempty"`
	LoanType       string    `json:"loanType,omitempty"`
	Contact        string    `json:"contact,omitempty"`
	DueDate        string    `json:"dueDate,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// parseAmount parses a decimal string, treating anything unparsable
// (including the empty string) as zero so a single malformed record can
// never break a summary screen.
func parseAmount(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Normalize reconciles legacy field aliases into the canonical Record.
// Precedence for the category: category, then type, then investmentType.
// Precedence for the secondary amount: secondaryAmount, then repayment,
// then currentValue.
func Normalize(w RecordWire) Record {
	r := Record{
		ID:            w.ID,
		Kind:          Kind(w.Kind),
		Title:         w.Title,
		Category:      w.Category,
		Amount:        parseAmount(w.Amount),
		Date:          w.Date,
		Period:        w.Period,
		LoanDirection: LoanDirection(w.LoanType),
		Contact:       w.Contact,
		DueDate:       w.DueDate,
		CreatedAt:     w.CreatedAt,
	}

	if r.Category == "" {
		r.Category = w.Type
	}
	if r.Category == "" {
		r.Category = w.InvestmentType
	}

	for _, raw := range []string{w.Secondary, w.Repayment, w.CurrentValue} {
		if raw != "" {
			r.Secondary = parseAmount(raw)
			r.HasSecondary = true
			break
		}
	}

	return r
}

// Wire converts a canonical Record back to its JSON shape. Only canonical
// field names are produced; aliases exist for reading old data only.
func (r Record) Wire() RecordWire {
	w := RecordWire{
		ID:        r.ID,
		Kind:      string(r.Kind),
		Title:     r.Title,
		Category:  r.Category,
		Amount:    r.Amount.String(),
		Date:      r.Date,
		Period:    r.Period,
		LoanType:  string(r.LoanDirection),
		Contact:   r.Contact,
		DueDate:   r.DueDate,
		CreatedAt: r.CreatedAt,
	}
	if r.HasSecondary {
		w.Secondary = r.Secondary.String()
	}
	return w
}

// MarshalJSON encodes the record in wire form.
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Wire())
}

// UnmarshalJSON decodes wire form and normalizes aliases.
func (r *Record) UnmarshalJSON(data []byte) error {
	var w RecordWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*r = Normalize(w)
	return nil
}
