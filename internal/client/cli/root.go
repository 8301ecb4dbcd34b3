package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
)

// Unlocked reports whether the lock controller allows protected screens.
func (a *App) Unlocked() bool {
	return a.session.Unlocked()
}

// getStatus builds the prompt suffix: "(username mode locked)".
func (a *App) getStatus() string {
	s := ""
	if a.userName != "" {
		s = a.userName + " "
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	if a.isLoggedIn() && !a.Unlocked() {
		s = s + " locked"
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// Root runs the interactive loop until the user exits.
func (a *App) Root(ctx context.Context) {
	log.Println("Welcome to CoinKeeper CLI (type 'help' for commands)")
	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.getStatus, scanner)
}
