// Package services contains application services for the CoinKeeper client:
// authentication/session bootstrap and record fetching/caching.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ysemenov/coinkeeper/internal/client/client"
	"github.com/ysemenov/coinkeeper/internal/client/repositories/prefs"
)

// Preference keys owned by the auth service.
const (
	prefUsername     = "username"
	prefAccessToken  = "accessToken"
	prefRefreshToken = "refreshToken"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - Register: create a new user on the server.
//   - Login: authenticate and persist tokens for the next run.
//   - Restore: resume a previous session from stored tokens, refreshing them.
//   - Logout: drop stored tokens.
//   - Ping: check server liveness.
//   - Close: release underlying client resources.
//
// All methods must honor context cancellation/timeouts.
type AuthService interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) error
	Restore(ctx context.Context) (string, error)
	Logout(ctx context.Context) error
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client client.Client
	db     *sql.DB
}

// NewAuthService constructs an AuthService bound to the given API client and DB.
func NewAuthService(client client.Client, db *sql.DB) AuthService {
	return &authService{client: client, db: db}
}

func (a *authService) getPrefsRepo() prefs.Repository {
	return prefs.NewSQLiteRepository(a.db)
}

func (a *authService) Register(ctx context.Context, username, password string) error {
	if err := a.client.Register(ctx, username, password); err != nil {
		return fmt.Errorf("register error: %w", err)
	}
	return nil
}

// Login authenticates against the server, installs the access token on the
// API client, and persists the token pair for session restore.
func (a *authService) Login(ctx context.Context, username, password string) error {
	pair, err := a.client.Login(ctx, username, password)
	if err != nil {
		return err
	}

	a.client.SetToken(pair.AccessToken)

	repo := a.getPrefsRepo()
	if err := repo.Set(ctx, prefUsername, username); err != nil {
		return fmt.Errorf("session saving error: %w", err)
	}
	if err := repo.Set(ctx, prefAccessToken, pair.AccessToken); err != nil {
		return fmt.Errorf("session saving error: %w", err)
	}
	if err := repo.Set(ctx, prefRefreshToken, pair.RefreshToken); err != nil {
		return fmt.Errorf("session saving error: %w", err)
	}
	return nil
}

// Restore resumes the previous session: if a refresh token is stored, it is
// rotated for a fresh pair. Returns the username, or "" when no session is
// stored. An unauthorized refresh clears the stale session rather than
// failing; any other refresh failure keeps the stored tokens so the session
// survives an unreachable server.
func (a *authService) Restore(ctx context.Context) (string, error) {
	repo := a.getPrefsRepo()

	refresh, err := repo.Get(ctx, prefRefreshToken)
	if err != nil {
		return "", fmt.Errorf("session read error: %w", err)
	}
	if refresh == "" {
		return "", nil
	}
	username, err := repo.Get(ctx, prefUsername)
	if err != nil {
		return "", fmt.Errorf("session read error: %w", err)
	}

	pair, err := a.client.Refresh(ctx, refresh)
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			_ = a.clearSession(ctx)
			return "", nil
		}
		// server unreachable or otherwise failing: keep the stored session
		// and resume with the tokens we already have
		access, getErr := repo.Get(ctx, prefAccessToken)
		if getErr != nil {
			return "", fmt.Errorf("session read error: %w", getErr)
		}
		a.client.SetToken(access)
		return username, nil
	}

	a.client.SetToken(pair.AccessToken)
	if err := repo.Set(ctx, prefAccessToken, pair.AccessToken); err != nil {
		return "", fmt.Errorf("session saving error: %w", err)
	}
	if err := repo.Set(ctx, prefRefreshToken, pair.RefreshToken); err != nil {
		return "", fmt.Errorf("session saving error: %w", err)
	}
	return username, nil
}

func (a *authService) clearSession(ctx context.Context) error {
	repo := a.getPrefsRepo()
	for _, key := range []string{prefUsername, prefAccessToken, prefRefreshToken} {
		if err := repo.Delete(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func (a *authService) Logout(ctx context.Context) error {
	a.client.SetToken("")
	if err := a.clearSession(ctx); err != nil {
		return fmt.Errorf("session clearing error: %w", err)
	}
	return nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
