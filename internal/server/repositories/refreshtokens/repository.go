// Package refreshtokens stores server-side refresh tokens.
package refreshtokens

import (
	"context"

	"github.com/ysemenov/coinkeeper/internal/server/models"
)

type Repository interface {
	Add(ctx context.Context, token *models.RefreshToken) error
	Find(ctx context.Context, token string) (*models.RefreshToken, error)
	Delete(ctx context.Context, token string) error
	DeleteExpired(ctx context.Context) error
}
