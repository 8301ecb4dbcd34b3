package aggregate

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ysemenov/coinkeeper/internal/client/models"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSumAmounts(t *testing.T) {
	assert.True(t, SumAmounts(nil).IsZero())

	records := []models.Record{
		{Amount: dec("10")},
		{Amount: dec("15.5")},
	}
	assert.True(t, SumAmounts(records).Equal(dec("25.5")))
}

func TestFilterByPeriod(t *testing.T) {
	records := []models.Record{
		{ID: "in-first", Date: "2025-07-01"},
		{ID: "in-last", Date: "2025-07-31"},
		{ID: "before", Date: "2025-06-30"},
		{ID: "after", Date: "2025-08-01"},
		{ID: "malformed", Date: "2025-7-1"},
		{ID: "empty", Date: ""},
	}

	got := FilterByPeriod(records, 2025, time.July)
	require.Len(t, got, 2)
	assert.Equal(t, "in-first", got[0].ID)
	assert.Equal(t, "in-last", got[1].ID)
}

func TestFilterByPeriod_February(t *testing.T) {
	records := []models.Record{
		{ID: "leap", Date: "2024-02-29"},
		{ID: "march", Date: "2024-03-01"},
	}
	got := FilterByPeriod(records, 2024, time.February)
	require.Len(t, got, 1)
	assert.Equal(t, "leap", got[0].ID)
}

func TestGroupByCategory(t *testing.T) {
	records := []models.Record{
		{Category: "Food", Amount: dec("10")},
		{Category: "Food", Amount: dec("5")},
		{Category: "Bills", Amount: dec("20")},
		{Category: "", Amount: dec("7")},
	}

	got := GroupByCategory(records, "Others")
	require.Len(t, got, 3)
	assert.True(t, got["Food"].Equal(dec("15")))
	assert.True(t, got["Bills"].Equal(dec("20")))
	assert.True(t, got["Others"].Equal(dec("7")))
}

func TestGroupByCategory_FallbackLabelPerScreen(t *testing.T) {
	records := []models.Record{{Category: "", Amount: dec("3")}}
	got := GroupByCategory(records, "Uncategorized")
	assert.True(t, got["Uncategorized"].Equal(dec("3")))
}

func TestPercentUsed(t *testing.T) {
	tests := []struct {
		name            string
		spent, budgeted string
		want            string
	}{
		{"zero budget", "150", "0", "0"},
		{"negative budget", "10", "-5", "0"},
		{"clamped overspend", "150", "100", "100"},
		{"zero spent", "0", "100", "0"},
		{"half used", "50", "100", "50"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PercentUsed(dec(tt.spent), dec(tt.budgeted))
			assert.True(t, got.Equal(dec(tt.want)), "got %s", got)
		})
	}
}

func TestBudgetExceededScenario(t *testing.T) {
	budgeted, spent := dec("1000"), dec("1200")

	assert.True(t, PercentUsed(spent, budgeted).Equal(dec("100")))
	assert.True(t, RemainingOrOverdue(budgeted, spent).Equal(dec("-200")))
}

func TestProfitLoss(t *testing.T) {
	assert.True(t, ProfitLoss(dec("1000"), dec("1200")).Equal(dec("20")))
	assert.True(t, ProfitLoss(dec("0"), dec("500")).IsZero())
	assert.True(t, ProfitLoss(dec("1200"), dec("1000")).Equal(dec("-16.67")))
}

func TestCAGR(t *testing.T) {
	// doubles over two years: sqrt(2)-1 = 41.42%
	assert.True(t, CAGR(dec("1000"), dec("2000"), 2).Equal(dec("41.42")))
	assert.True(t, CAGR(dec("0"), dec("2000"), 2).IsZero())
	assert.True(t, CAGR(dec("1000"), dec("2000"), 0).IsZero())
}

func TestDaysRemaining(t *testing.T) {
	assert.Equal(t, 0, DaysRemaining("2025-07-15", "2025-07-15"))
	assert.Equal(t, -1, DaysRemaining("2025-07-14", "2025-07-15"))
	assert.Equal(t, 3, DaysRemaining("2025-07-18", "2025-07-15"))
	assert.Equal(t, 0, DaysRemaining("not-a-date", "2025-07-15"))
}

func TestDueLabel(t *testing.T) {
	assert.Equal(t, "due today", DueLabel(0))
	assert.Equal(t, "1 day left", DueLabel(1))
	assert.Equal(t, "5 days left", DueLabel(5))
	assert.Equal(t, "overdue by 1 day", DueLabel(-1))
	assert.Equal(t, "overdue by 4 days", DueLabel(-4))
}

func TestRunningBalance(t *testing.T) {
	base := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	records := []models.Record{
		{Contact: "sam", LoanDirection: models.LoanGiven, Amount: dec("500"), CreatedAt: base},
		{Contact: "sam", LoanDirection: models.LoanTaken, Amount: dec("200"), CreatedAt: base.Add(time.Hour)},
	}

	seq := RunningBalance(records)
	require.Len(t, seq, 2)
	assert.True(t, seq[0].Equal(dec("500")))
	assert.True(t, seq[1].Equal(dec("300")))
}

func TestRunningBalance_CreationOrderNotSliceOrder(t *testing.T) {
	base := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	records := []models.Record{
		{LoanDirection: models.LoanTaken, Amount: dec("200"), CreatedAt: base.Add(time.Hour)},
		{LoanDirection: models.LoanGiven, Amount: dec("500"), CreatedAt: base},
	}

	seq := RunningBalance(records)
	require.Len(t, seq, 2)
	assert.True(t, seq[0].Equal(dec("500")))
	assert.True(t, seq[1].Equal(dec("300")))
}

func TestPendingBalances(t *testing.T) {
	base := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	records := []models.Record{
		{Contact: "sam", LoanDirection: models.LoanGiven, Amount: dec("500"), CreatedAt: base},
		{Contact: "sam", LoanDirection: models.LoanTaken, Amount: dec("200"), CreatedAt: base.Add(time.Hour)},
		{Contact: "kim", LoanDirection: models.LoanTaken, Amount: dec("50"), CreatedAt: base},
		{Contact: "pat", LoanDirection: models.LoanGiven, Amount: dec("10"), CreatedAt: base},
		{Contact: "pat", LoanDirection: models.LoanTaken, Amount: dec("10"), CreatedAt: base.Add(time.Minute)},
	}

	got := PendingBalances(records)
	require.Len(t, got, 3)
	assert.True(t, got["sam"].Equal(dec("300")))
	assert.True(t, got["kim"].Equal(dec("-50")))
	assert.True(t, got["pat"].IsZero())
}
