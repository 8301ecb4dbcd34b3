// Package client talks to the CoinKeeper server API on behalf of the CLI.
package client

import (
	"context"

	"github.com/ysemenov/coinkeeper/internal/client/models"
)

// TokenPair bundles the access and refresh tokens returned by the server.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Client is the server API surface the services depend on. All methods
// honor context cancellation. SetToken installs the bearer token used for
// authenticated calls.
type Client interface {
	Register(ctx context.Context, username, password string) error
	Login(ctx context.Context, username, password string) (*TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Ping(ctx context.Context) error

	ListRecords(ctx context.Context, kind models.Kind) ([]models.Record, error)
	CreateRecord(ctx context.Context, rec *models.Record) (*models.Record, error)
	UpdateRecord(ctx context.Context, rec *models.Record) error
	DeleteRecord(ctx context.Context, id string) error

	SetToken(token string)
	Close() error
}
