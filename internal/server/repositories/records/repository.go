// Package records provides the PostgreSQL-backed repository for financial
// records. Queries are equality-filtered only: owner always, plus at most a
// few optional field filters; no joins, no server-side aggregation.
package records

import (
	"context"

	"github.com/ysemenov/coinkeeper/internal/server/models"
)

// Filter narrows a list query. Zero-valued fields are ignored; UserID is
// mandatory and enforced by the repository.
type Filter struct {
	UserID   string
	Kind     string
	Category string
	Period   string
	Contact  string
}

type Repository interface {
	Create(ctx context.Context, rec *models.Record) (*models.Record, error)
	Update(ctx context.Context, rec *models.Record) error
	DeleteByID(ctx context.Context, userID, id string) error
	GetByID(ctx context.Context, userID, id string) (*models.Record, error)
	Select(ctx context.Context, f Filter) ([]*models.Record, error)
}
