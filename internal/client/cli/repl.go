package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Unlocked() bool
	Register(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	AddExpense(ctx context.Context) error
	AddBudget(ctx context.Context) error
	AddLoan(ctx context.Context) error
	AddInvestment(ctx context.Context) error
	List(ctx context.Context) error
	Delete(ctx context.Context) error
	ExpenseSummary(ctx context.Context) error
	BudgetSummary(ctx context.Context) error
	LoanSummary(ctx context.Context) error
	InvestmentSummary(ctx context.Context) error
	Lock(ctx context.Context) error
	Unlock(ctx context.Context) error
	Retry(ctx context.Context) error
	Settings(ctx context.Context) error
}

// protectedCommands shows account data and therefore requires the gate open.
var protectedCommands = map[string]bool{
	"addexpense": true, "addbudget": true, "addloan": true, "addinvestment": true,
	"list": true, "l": true, "delete": true,
	"expenses": true, "budgets": true, "loans": true, "investments": true,
}

// runREPL starts a read–eval–print loop for the CoinKeeper CLI.
//
// It reads a line from the provided scanner, parses the first token as the
// command, and dispatches to methods on 'a'. Unknown commands are reported
// back to the user. The loop exits on scanner EOF or when the user types
// "exit" or "quit".
//
// Commands needing an account are refused when not logged in; commands that
// show account data are additionally refused while the app lock is armed.
// Any errors returned by command handlers are ignored here; handlers log
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, scanner *bufio.Scanner) {
	for {
		printlnFn(fmt.Sprintf("ck> %s ", statusFn()))
		if !scanner.Scan() {
			return
		}
		line := scanner.Text()
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		cmd := parts[0]

		if protectedCommands[cmd] {
			if !a.isLoggedIn() {
				printlnFn("Please log in first.")
				continue
			}
			if !a.Unlocked() {
				printlnFn("Locked. Type 'unlock' to authenticate.")
				continue
			}
		}

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: (l)ist, addexpense, addbudget, addloan, addinvestment, delete,")
				printlnFn("  expenses, budgets, loans, investments, lock, unlock, retry, settings, logout, exit")
			} else {
				printlnFn("Available commands: register, login, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "addexpense":
			_ = a.AddExpense(ctx)

		case "addbudget":
			_ = a.AddBudget(ctx)

		case "addloan":
			_ = a.AddLoan(ctx)

		case "addinvestment":
			_ = a.AddInvestment(ctx)

		case "l", "list":
			_ = a.List(ctx)

		case "delete":
			_ = a.Delete(ctx)

		case "expenses":
			_ = a.ExpenseSummary(ctx)

		case "budgets":
			_ = a.BudgetSummary(ctx)

		case "loans":
			_ = a.LoanSummary(ctx)

		case "investments":
			_ = a.InvestmentSummary(ctx)

		case "lock":
			_ = a.Lock(ctx)

		case "unlock":
			_ = a.Unlock(ctx)

		case "retry":
			_ = a.Retry(ctx)

		case "settings":
			_ = a.Settings(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
