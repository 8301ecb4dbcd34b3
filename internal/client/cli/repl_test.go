package cli

import (
	"bufio"
	"context"
	"strings"
	"testing"
)

type fakeExec struct {
	loggedIn bool
	unlocked bool

	calls []string
}

func (f *fakeExec) record(name string) error {
	f.calls = append(f.calls, name)
	return nil
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Unlocked() bool   { return f.unlocked }
func (f *fakeExec) Register(ctx context.Context) error {
	return f.record("register")
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.loggedIn = true
	f.unlocked = true
	return f.record("login")
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) AddExpense(ctx context.Context) error    { return f.record("addexpense") }
func (f *fakeExec) AddBudget(ctx context.Context) error     { return f.record("addbudget") }
func (f *fakeExec) AddLoan(ctx context.Context) error       { return f.record("addloan") }
func (f *fakeExec) AddInvestment(ctx context.Context) error { return f.record("addinvestment") }
func (f *fakeExec) List(ctx context.Context) error          { return f.record("list") }
func (f *fakeExec) Delete(ctx context.Context) error        { return f.record("delete") }
func (f *fakeExec) ExpenseSummary(ctx context.Context) error {
	return f.record("expenses")
}
func (f *fakeExec) BudgetSummary(ctx context.Context) error     { return f.record("budgets") }
func (f *fakeExec) LoanSummary(ctx context.Context) error       { return f.record("loans") }
func (f *fakeExec) InvestmentSummary(ctx context.Context) error { return f.record("investments") }
func (f *fakeExec) Lock(ctx context.Context) error {
	f.unlocked = false
	return f.record("lock")
}
func (f *fakeExec) Unlock(ctx context.Context) error {
	f.unlocked = true
	return f.record("unlock")
}
func (f *fakeExec) Retry(ctx context.Context) error    { return f.record("retry") }
func (f *fakeExec) Settings(ctx context.Context) error { return f.record("settings") }

func silencePrintln(t *testing.T) {
	t.Helper()
	orig := printlnFn
	printlnFn = func(...any) (int, error) { return 0, nil }
	t.Cleanup(func() { printlnFn = orig })
}

func TestRunREPL_LoginFlowAndCommands(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"login",
		"help",
		"addexpense",
		"list",
		"expenses",
		"foobar",
		"exit",
	}, "\n"))

	exec := &fakeExec{}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "status" }, sc)

	want := []string{"login", "addexpense", "list", "expenses"}
	if len(exec.calls) != len(want) {
		t.Fatalf("calls mismatch: got %v, want %v", exec.calls, want)
	}
	for i := range want {
		if exec.calls[i] != want[i] {
			t.Fatalf("calls mismatch: got %v, want %v", exec.calls, want)
		}
	}
}

func TestRunREPL_ProtectedNeedsLogin(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader("list\naddloan\nbudgets\nexit\n")
	exec := &fakeExec{}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls before login: %v", exec.calls)
	}
}

func TestRunREPL_ProtectedNeedsUnlock(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader("list\nunlock\nlist\nexit\n")
	exec := &fakeExec{loggedIn: true, unlocked: false}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "" }, sc)

	want := []string{"unlock", "list"}
	if len(exec.calls) != len(want) || exec.calls[0] != want[0] || exec.calls[1] != want[1] {
		t.Fatalf("calls mismatch: got %v, want %v", exec.calls, want)
	}
}

func TestRunREPL_LockBlocksUntilUnlock(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader("lock\ninvestments\nretry\nexit\n")
	exec := &fakeExec{loggedIn: true, unlocked: true}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "" }, sc)

	want := []string{"lock", "retry"}
	if len(exec.calls) != len(want) || exec.calls[0] != want[0] || exec.calls[1] != want[1] {
		t.Fatalf("calls mismatch: got %v, want %v", exec.calls, want)
	}
}

func TestRunREPL_Quit(t *testing.T) {
	silencePrintln(t)

	input := strings.NewReader("quit\nlogin\n")
	exec := &fakeExec{}
	sc := bufio.NewScanner(input)

	runREPL(context.Background(), exec, func() string { return "" }, sc)

	if len(exec.calls) != 0 {
		t.Fatalf("unexpected calls after quit: %v", exec.calls)
	}
}
