// Package records is the local cache of the user's financial records,
// refreshed from the server and read by the summary screens.
package records

import (
	"context"

	"github.com/ysemenov/coinkeeper/internal/client/models"
)

type Repository interface {
	Upsert(ctx context.Context, r *models.Record) error
	GetByKind(ctx context.Context, kind models.Kind) ([]models.Record, error)
	GetByID(ctx context.Context, id string) (*models.Record, error)
	DeleteByID(ctx context.Context, id string) error
	// ReplaceKind atomically swaps the cached set for one kind with the
	// server's copy.
	ReplaceKind(ctx context.Context, kind models.Kind, recs []models.Record) error
}
