// Package users provides the PostgreSQL-backed user repository.
package users

import (
	"context"

	"github.com/ysemenov/coinkeeper/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByLogin(ctx context.Context, userName string) (*models.User, error)
}
