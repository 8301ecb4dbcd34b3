package cli

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/ysemenov/coinkeeper/internal/client/models"
)

// fetchRecords returns one kind of records, going to the server when online
// and falling back to the local cache otherwise.
func (a *App) fetchRecords(ctx context.Context, kind models.Kind) ([]models.Record, error) {
	if a.Mode == ModeOnline {
		recs, err := a.recordService.Refresh(ctx, kind)
		if err == nil {
			return recs, nil
		}
		log.Printf("Server fetch failed, using cache: %s", err.Error())
	}
	return a.recordService.Cached(ctx, kind)
}

// List shows the records of one kind, newest input last.
func (a *App) List(ctx context.Context) error {
	kind, err := GetChoice(a.reader, "Kind:", []string{"expense", "budget", "loan", "investment"}, os.Stdout)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	recs, err := a.fetchRecords(ctx, models.Kind(kind))
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	if len(recs) == 0 {
		fmt.Println("No records.")
		return nil
	}
	for _, rec := range recs {
		fmt.Println(a.describeRecord(rec))
	}
	return nil
}

func (a *App) describeRecord(rec models.Record) string {
	switch rec.Kind {
	case models.KindExpense:
		return fmt.Sprintf("%s  %s  %s  %s  [%s]", rec.ID, rec.Date, rec.Title, a.formatMoney(rec.Amount), rec.Category)
	case models.KindBudget:
		return fmt.Sprintf("%s  %s  %s  %s", rec.ID, rec.Period, rec.Category, a.formatMoney(rec.Amount))
	case models.KindLoan:
		repaid := ""
		if rec.HasSecondary {
			repaid = fmt.Sprintf("  repaid %s", a.formatMoney(rec.Secondary))
		}
		return fmt.Sprintf("%s  %s %s  %s%s", rec.ID, rec.LoanDirection, rec.Contact, a.formatMoney(rec.Amount), repaid)
	case models.KindInvestment:
		return fmt.Sprintf("%s  %s  %s invested, now %s  [%s]", rec.ID, rec.Title, a.formatMoney(rec.Amount), a.formatMoney(rec.Secondary), rec.Category)
	default:
		return fmt.Sprintf("%s  %s  %s", rec.ID, rec.Kind, a.formatMoney(rec.Amount))
	}
}

// Delete removes a record by id, on the server and in the cache.
func (a *App) Delete(ctx context.Context) error {
	id, err := getSimpleText(a.reader, "Enter record id to delete", os.Stdout)
	if err != nil {
		return err
	}
	if id == "" {
		fmt.Println("Nothing to delete.")
		return nil
	}

	if err := a.recordService.Delete(ctx, id); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	fmt.Println("Deleted.")
	return nil
}
