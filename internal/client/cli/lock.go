package cli

import (
	"bytes"
	"context"
	"encoding/hex"
	"fmt"
	"log"
	"os"

	"github.com/ysemenov/coinkeeper/internal/client/biometric"
	"github.com/ysemenov/coinkeeper/internal/client/session"
)

// Lock simulates leaving the foreground: if the app lock is on, the gate
// arms and the next protected command will require the passphrase.
func (a *App) Lock(ctx context.Context) error {
	a.session.HandleAppState(ctx, session.AppBackground)
	if a.session.State() == session.StateLocked {
		fmt.Println("Locked.")
	} else {
		fmt.Println("App lock is off, nothing to lock.")
	}
	return nil
}

// Unlock simulates returning to the foreground, which runs the passphrase
// prompt when the gate is armed.
func (a *App) Unlock(ctx context.Context) error {
	a.session.HandleAppState(ctx, session.AppActive)
	if a.session.Unlocked() {
		fmt.Println("Unlocked.")
	} else {
		fmt.Println("Still locked. Type 'retry' to try again.")
	}
	return nil
}

// Retry re-runs the passphrase prompt after a cancellation.
func (a *App) Retry(ctx context.Context) error {
	a.session.Retry(ctx)
	if a.session.Unlocked() {
		fmt.Println("Unlocked.")
	} else {
		fmt.Println("Still locked.")
	}
	return nil
}

// Settings edits client preferences: the app lock and the display theme.
func (a *App) Settings(ctx context.Context) error {
	setting, err := GetChoice(a.reader, "Setting:", []string{"applock", "theme"}, os.Stdout)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	if setting == "theme" {
		return a.chooseTheme(ctx)
	}
	return a.toggleAppLock(ctx)
}

// chooseTheme stores the preferred display theme.
func (a *App) chooseTheme(ctx context.Context) error {
	theme, err := GetChoice(a.reader, "Theme:", []string{"light", "dark"}, os.Stdout)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	if err := a.prefs.Set(ctx, "theme", theme); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	fmt.Printf("Theme set to %s.\n", theme)
	return nil
}

// toggleAppLock turns the app lock on or off. Enabling it enrolls a
// passphrase; disabling keeps the enrolled passphrase so it can be turned
// back on without re-entry.
func (a *App) toggleAppLock(ctx context.Context) error {
	state := "off"
	if a.session.LockEnabled() {
		state = "on"
	}
	choice, err := GetChoice(a.reader, fmt.Sprintf("App lock is %s. Set:", state), []string{"on", "off"}, os.Stdout)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	if choice == "off" {
		if err := a.session.SetLockEnabled(ctx, false); err != nil {
			log.Printf("Error: %s", err.Error())
			return err
		}
		fmt.Println("App lock disabled.")
		return nil
	}

	if err := a.enrollPassphrase(ctx); err != nil {
		return err
	}
	if err := a.session.SetLockEnabled(ctx, true); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	fmt.Println("App lock enabled. Protected screens will require the passphrase after 'lock'.")
	return nil
}

// enrollPassphrase prompts twice for a new passphrase and stores its digest.
func (a *App) enrollPassphrase(ctx context.Context) error {
	fmt.Println("Choose an unlock passphrase.")
	first, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	if len(first) == 0 {
		fmt.Println("Empty passphrase, keeping previous settings.")
		return fmt.Errorf("empty passphrase")
	}
	fmt.Println("Repeat it.")
	second, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	if !bytes.Equal(first, second) {
		fmt.Println("Passphrases do not match.")
		return fmt.Errorf("passphrase mismatch")
	}

	digest := biometric.Digest(first)
	if err := a.prefs.Set(ctx, prefAppLockDigest, hex.EncodeToString(digest)); err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}
	a.verifier.Enroll(digest)
	return nil
}
