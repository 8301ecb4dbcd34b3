package cli

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ysemenov/coinkeeper/internal/client/models"
)

// getAmount prompts for a strictly positive decimal amount.
func (a *App) getAmount(prompt string) (decimal.Decimal, error) {
	text, err := getSimpleText(a.reader, prompt, os.Stdout)
	if err != nil {
		return decimal.Zero, err
	}
	amount, err := decimal.NewFromString(text)
	if err != nil {
		return decimal.Zero, fmt.Errorf("not a number: %s", text)
	}
	return amount, nil
}

// getDate prompts for a YYYY-MM-DD date, defaulting to today.
func (a *App) getDate(prompt string) (string, error) {
	today := time.Now().Format("2006-01-02")
	text, err := getSimpleText(a.reader, fmt.Sprintf("%s (default %s)", prompt, today), os.Stdout)
	if err != nil {
		return "", err
	}
	if text == "" {
		return today, nil
	}
	if _, err := time.Parse("2006-01-02", text); err != nil {
		return "", fmt.Errorf("invalid date: %s", text)
	}
	return text, nil
}

// getPeriod prompts for a YYYY-MM period, defaulting to the current month.
func (a *App) getPeriod() (string, error) {
	current := time.Now().Format("2006-01")
	text, err := getSimpleText(a.reader, fmt.Sprintf("Enter period YYYY-MM (default %s)", current), os.Stdout)
	if err != nil {
		return "", err
	}
	if text == "" {
		return current, nil
	}
	if _, err := time.Parse("2006-01", text); err != nil {
		return "", fmt.Errorf("invalid period: %s", text)
	}
	return text, nil
}

func (a *App) addRecord(ctx context.Context, rec *models.Record) error {
	created, err := a.recordService.Add(ctx, rec)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	fmt.Printf("Saved %s %s\n", created.Kind, created.ID)
	return nil
}

// AddExpense records a spend: title, category, amount, and date.
func (a *App) AddExpense(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Enter title", os.Stdout)
	if err != nil {
		return err
	}
	category, err := GetChoice(a.reader, "Category:", models.ExpenseCategories, os.Stdout)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	amount, err := a.getAmount("Enter amount")
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	date, err := a.getDate("Enter date YYYY-MM-DD")
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	return a.addRecord(ctx, &models.Record{
		Kind:     models.KindExpense,
		Title:    title,
		Category: category,
		Amount:   amount,
		Date:     date,
	})
}

// AddBudget sets a monthly cap for one category.
func (a *App) AddBudget(ctx context.Context) error {
	category, err := GetChoice(a.reader, "Category:", models.ExpenseCategories, os.Stdout)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	amount, err := a.getAmount("Enter budget amount")
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	period, err := a.getPeriod()
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	return a.addRecord(ctx, &models.Record{
		Kind:     models.KindBudget,
		Category: category,
		Amount:   amount,
		Period:   period,
	})
}

// AddLoan records money given to or taken from a contact.
func (a *App) AddLoan(ctx context.Context) error {
	direction, err := GetChoice(a.reader, "Direction:", []string{"given", "taken"}, os.Stdout)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	contact, err := getSimpleText(a.reader, "Enter contact name", os.Stdout)
	if err != nil {
		return err
	}
	amount, err := a.getAmount("Enter amount")
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	dueDate, err := getSimpleText(a.reader, "Enter due date YYYY-MM-DD (empty for none)", os.Stdout)
	if err != nil {
		return err
	}
	if dueDate != "" {
		if _, err := time.Parse("2006-01-02", dueDate); err != nil {
			log.Printf("Error: invalid date %s", dueDate)
			return err
		}
	}

	rec := &models.Record{
		Kind:          models.KindLoan,
		LoanDirection: models.LoanDirection(direction),
		Contact:       contact,
		Amount:        amount,
		DueDate:       dueDate,
	}

	repayment, err := getSimpleText(a.reader, "Enter repaid amount (empty for none)", os.Stdout)
	if err != nil {
		return err
	}
	if repayment != "" {
		d, err := decimal.NewFromString(repayment)
		if err != nil {
			log.Printf("Error: not a number: %s", repayment)
			return err
		}
		rec.Secondary = d
		rec.HasSecondary = true
	}

	return a.addRecord(ctx, rec)
}

// AddInvestment records an investment with its invested and current values.
func (a *App) AddInvestment(ctx context.Context) error {
	title, err := getSimpleText(a.reader, "Enter title", os.Stdout)
	if err != nil {
		return err
	}
	investmentType, err := GetChoice(a.reader, "Type:", models.InvestmentTypes, os.Stdout)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	invested, err := a.getAmount("Enter invested amount")
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	current, err := a.getAmount("Enter current value")
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	date, err := a.getDate("Enter purchase date YYYY-MM-DD")
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	return a.addRecord(ctx, &models.Record{
		Kind:         models.KindInvestment,
		Title:        title,
		Category:     investmentType,
		Amount:       invested,
		Secondary:    current,
		HasSecondary: true,
		Date:         date,
	})
}
