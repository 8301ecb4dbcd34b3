package cli

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"github.com/ysemenov/coinkeeper/internal/aggregate"
	"github.com/ysemenov/coinkeeper/internal/client/models"
)

// formatMoney renders an amount in the given display currency. Unknown
// currency codes fall back to a plain two-decimal string.
func formatMoney(d decimal.Decimal, currency string) string {
	cur := money.GetCurrency(currency)
	if cur == nil {
		return d.StringFixed(2)
	}
	minor := d.Shift(int32(cur.Fraction)).Round(0)
	return money.New(minor.IntPart(), currency).Display()
}

func (a *App) formatMoney(d decimal.Decimal) string {
	return formatMoney(d, a.config.Currency)
}

// askPeriod prompts for a summary period and returns its year and month.
func (a *App) askPeriod() (int, time.Month, error) {
	period, err := a.getPeriod()
	if err != nil {
		return 0, 0, err
	}
	t, err := time.Parse("2006-01", period)
	if err != nil {
		return 0, 0, err
	}
	return t.Year(), t.Month(), nil
}

func sortedKeys(m map[string]decimal.Decimal) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ExpenseSummary shows one month's total spend and its category breakdown.
func (a *App) ExpenseSummary(ctx context.Context) error {
	year, month, err := a.askPeriod()
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	recs, err := a.fetchRecords(ctx, models.KindExpense)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	monthly := aggregate.FilterByPeriod(recs, year, month)
	total := aggregate.SumAmounts(monthly)
	byCategory := aggregate.GroupByCategory(monthly, "Others")

	fmt.Printf("Spent in %d-%02d: %s\n", year, month, a.formatMoney(total))
	for _, category := range sortedKeys(byCategory) {
		spent := byCategory[category]
		share := aggregate.PercentUsed(spent, total)
		fmt.Printf("  %-14s %12s  %s%%\n", category, a.formatMoney(spent), share.StringFixed(0))
	}
	return nil
}

// BudgetSummary compares each budget of a month against that month's spend
// in the budget's category.
func (a *App) BudgetSummary(ctx context.Context) error {
	year, month, err := a.askPeriod()
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	period := fmt.Sprintf("%d-%02d", year, month)

	budgets, err := a.fetchRecords(ctx, models.KindBudget)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	expenses, err := a.fetchRecords(ctx, models.KindExpense)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	spentByCategory := aggregate.GroupByCategory(aggregate.FilterByPeriod(expenses, year, month), "Uncategorized")

	shown := 0
	for _, b := range budgets {
		if b.Period != period {
			continue
		}
		shown++
		spent := spentByCategory[b.Category]
		used := aggregate.PercentUsed(spent, b.Amount)
		left := aggregate.RemainingOrOverdue(b.Amount, spent)

		status := fmt.Sprintf("%s left", a.formatMoney(left))
		if left.Sign() < 0 {
			status = fmt.Sprintf("over by %s", a.formatMoney(left.Neg()))
		}
		fmt.Printf("  %-14s %s of %s (%s%%), %s\n",
			b.Category, a.formatMoney(spent), a.formatMoney(b.Amount), used.StringFixed(0), status)
	}
	if shown == 0 {
		fmt.Printf("No budgets for %s.\n", period)
	}
	return nil
}

// LoanSummary shows the pending balance per contact and upcoming due dates.
func (a *App) LoanSummary(ctx context.Context) error {
	loans, err := a.fetchRecords(ctx, models.KindLoan)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	if len(loans) == 0 {
		fmt.Println("No loans.")
		return nil
	}

	pending := aggregate.PendingBalances(loans)
	fmt.Println("Pending balances (positive: owed to you):")
	for _, contact := range sortedKeys(pending) {
		fmt.Printf("  %-20s %s\n", contact, a.formatMoney(pending[contact]))
	}

	today := time.Now().Format("2006-01-02")
	for _, l := range loans {
		if l.DueDate == "" {
			continue
		}
		days := aggregate.DaysRemaining(l.DueDate, today)
		fmt.Printf("  %s %s %s: %s\n", l.LoanDirection, l.Contact, a.formatMoney(l.Amount), aggregate.DueLabel(days))
	}
	return nil
}

// InvestmentSummary shows per-record and overall performance.
func (a *App) InvestmentSummary(ctx context.Context) error {
	investments, err := a.fetchRecords(ctx, models.KindInvestment)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	if len(investments) == 0 {
		fmt.Println("No investments.")
		return nil
	}

	var invested, current decimal.Decimal
	now := time.Now()
	for _, inv := range investments {
		invested = invested.Add(inv.Amount)
		current = current.Add(inv.Secondary)

		line := fmt.Sprintf("  %-20s %s -> %s  %s%%",
			inv.Title, a.formatMoney(inv.Amount), a.formatMoney(inv.Secondary),
			aggregate.ProfitLoss(inv.Amount, inv.Secondary).StringFixed(2))

		if purchased, err := time.Parse("2006-01-02", inv.Date); err == nil {
			years := now.Sub(purchased).Hours() / 24 / 365.25
			if years >= 1 {
				line += fmt.Sprintf("  CAGR %s%%", aggregate.CAGR(inv.Amount, inv.Secondary, years).StringFixed(2))
			}
		}
		fmt.Println(line)
	}

	fmt.Printf("Total: %s invested, %s current, %s%% overall\n",
		a.formatMoney(invested), a.formatMoney(current),
		aggregate.ProfitLoss(invested, current).StringFixed(2))
	return nil
}
