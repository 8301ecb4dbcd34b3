// Package aggregate implements the pure derivation functions behind the
// summary screens: totals, per-category buckets, budget usage, loan
// balances, investment performance and due-date arithmetic.
//
// Every function is deterministic, side-effect free and total: empty input
// and division by zero yield zero values, never an error or a NaN. Malformed
// amounts were already sanitized to zero at the store boundary; malformed
// dates are excluded from period filters here.
package aggregate

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ysemenov/coinkeeper/internal/client/models"
)

// DateFormat is the fixed-width ISO form all record dates use.
const DateFormat = "2006-01-02"

var oneHundred = decimal.NewFromInt(100)

// SumAmounts returns the sum of Amount over records, zero for an empty list.
func SumAmounts(records []models.Record) decimal.Decimal {
	sum := decimal.Zero
	for _, r := range records {
		sum = sum.Add(r.Amount)
	}
	return sum
}

// FilterByPeriod keeps records whose date falls inside the given calendar
// month, bounds included. Dates are fixed-width ISO strings, so the bounds
// check is a plain string comparison; anything that does not parse as a
// date is dropped.
func FilterByPeriod(records []models.Record, year int, month time.Month) []models.Record {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	from := first.Format(DateFormat)
	to := first.AddDate(0, 1, -1).Format(DateFormat)

	var out []models.Record
	for _, r := range records {
		if _, err := time.Parse(DateFormat, r.Date); err != nil {
			continue
		}
		if r.Date >= from && r.Date <= to {
			out = append(out, r)
		}
	}
	return out
}

// GroupByCategory sums Amount per category. Records without a category land
// in the fallback bucket so nothing is ever dropped; the fallback label is
// caller-supplied because screens differ ("Others" vs "Uncategorized").
func GroupByCategory(records []models.Record, fallback string) map[string]decimal.Decimal {
	out := make(map[string]decimal.Decimal)
	for _, r := range records {
		cat := r.Category
		if cat == "" {
			cat = fallback
		}
		out[cat] = out[cat].Add(r.Amount)
	}
	return out
}

// PercentUsed returns spent/budgeted as a percentage clamped to [0, 100].
// A non-positive budget yields 0. Overspend is reported by
// RemainingOrOverdue going negative, never by a value above 100 here.
func PercentUsed(spent, budgeted decimal.Decimal) decimal.Decimal {
	if budgeted.Sign() <= 0 {
		return decimal.Zero
	}
	pct := spent.Div(budgeted).Mul(oneHundred)
	if pct.GreaterThan(oneHundred) {
		return oneHundred
	}
	if pct.Sign() < 0 {
		return decimal.Zero
	}
	return pct
}

// RemainingOrOverdue returns budgeted - spent. Negative means the budget is
// exceeded by the absolute value; no clamping happens at this layer.
func RemainingOrOverdue(budgeted, spent decimal.Decimal) decimal.Decimal {
	return budgeted.Sub(spent)
}

// ProfitLoss returns the percentage change from initial to current, rounded
// to two decimal places. A non-positive initial value yields 0.
func ProfitLoss(initial, current decimal.Decimal) decimal.Decimal {
	if initial.Sign() <= 0 {
		return decimal.Zero
	}
	return current.Sub(initial).Div(initial).Mul(oneHundred).Round(2)
}

// CAGR returns the compound annual growth rate as a percentage rounded to
// two decimal places: ((end/start)^(1/years) - 1) * 100. Non-positive start
// or years yields 0.
func CAGR(start, end decimal.Decimal, years float64) decimal.Decimal {
	if start.Sign() <= 0 || years <= 0 {
		return decimal.Zero
	}
	ratio := end.Div(start).InexactFloat64()
	if ratio < 0 {
		return decimal.Zero
	}
	rate := (math.Pow(ratio, 1/years) - 1) * 100
	return decimal.NewFromFloat(rate).Round(2)
}

// DaysRemaining returns the whole-day difference between due and now, both
// truncated to midnight first. Zero means due today, positive N means N days
// left, negative N means overdue by N days. Unparsable input yields 0.
func DaysRemaining(dueISO, nowISO string) int {
	due, err := time.Parse(DateFormat, dueISO)
	if err != nil {
		return 0
	}
	now, err := time.Parse(DateFormat, nowISO)
	if err != nil {
		return 0
	}
	return int(due.Sub(now) / (24 * time.Hour))
}

// DueLabel renders the DaysRemaining result the way the loan screen shows it.
func DueLabel(days int) string {
	switch {
	case days == 0:
		return "due today"
	case days == 1:
		return "1 day left"
	case days > 1:
		return fmt.Sprintf("%d days left", days)
	case days == -1:
		return "overdue by 1 day"
	default:
		return fmt.Sprintf("overdue by %d days", -days)
	}
}

// RunningBalance returns the signed cumulative balance after each loan
// record, in creation order: "given" adds, "taken" subtracts. The last
// element is the current pending balance. The balance is recomputed from
// the full ledger on every call, so deleting a record keeps later balances
// consistent.
func RunningBalance(records []models.Record) []decimal.Decimal {
	sorted := make([]models.Record, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CreatedAt.Before(sorted[j].CreatedAt)
	})

	out := make([]decimal.Decimal, 0, len(sorted))
	sum := decimal.Zero
	for _, r := range sorted {
		switch r.LoanDirection {
		case models.LoanGiven:
			sum = sum.Add(r.Amount)
		case models.LoanTaken:
			sum = sum.Sub(r.Amount)
		}
		out = append(out, sum)
	}
	return out
}

// PendingBalances returns the current pending balance per contact across all
// loan records. Contacts whose records cancel out exactly still appear, with
// a zero balance.
func PendingBalances(records []models.Record) map[string]decimal.Decimal {
	byContact := make(map[string][]models.Record)
	for _, r := range records {
		byContact[r.Contact] = append(byContact[r.Contact], r)
	}

	out := make(map[string]decimal.Decimal, len(byContact))
	for contact, recs := range byContact {
		seq := RunningBalance(recs)
		if len(seq) == 0 {
			out[contact] = decimal.Zero
			continue
		}
		out[contact] = seq[len(seq)-1]
	}
	return out
}
