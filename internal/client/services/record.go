package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/ysemenov/coinkeeper/internal/client/client"
	"github.com/ysemenov/coinkeeper/internal/client/models"
	"github.com/ysemenov/coinkeeper/internal/client/repositories/records"
	"github.com/ysemenov/coinkeeper/internal/dbx"
)

// RecordService keeps the local record cache in step with the server and is
// the write path for new records. Summary screens read through Cached/Refresh
// and hand the result to the aggregate package.
type RecordService interface {
	Refresh(ctx context.Context, kind models.Kind) ([]models.Record, error)
	Cached(ctx context.Context, kind models.Kind) ([]models.Record, error)
	Add(ctx context.Context, rec *models.Record) (*models.Record, error)
	Update(ctx context.Context, rec *models.Record) error
	Delete(ctx context.Context, id string) error
}

type recordService struct {
	client client.Client
	db     *sql.DB
}

// NewRecordService constructs a RecordService bound to the given API client and DB.
func NewRecordService(client client.Client, db *sql.DB) RecordService {
	return &recordService{client: client, db: db}
}

// Refresh pulls the server's copy of one kind and swaps the local cache for
// it in a single transaction, then returns the fresh set.
func (s *recordService) Refresh(ctx context.Context, kind models.Kind) ([]models.Record, error) {
	recs, err := s.client.ListRecords(ctx, kind)
	if err != nil {
		return nil, err
	}

	if err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return records.NewSQLiteRepository(tx).ReplaceKind(ctx, kind, recs)
	}); err != nil {
		return nil, fmt.Errorf("cache refresh error: %w", err)
	}
	return recs, nil
}

// Cached returns the locally cached records for a kind, without touching
// the network. Used when the server is unreachable.
func (s *recordService) Cached(ctx context.Context, kind models.Kind) ([]models.Record, error) {
	return records.NewSQLiteRepository(s.db).GetByKind(ctx, kind)
}

// Add validates the record, creates it server-side (which assigns the id
// and creation time when absent), and caches the server's copy.
func (s *recordService) Add(ctx context.Context, rec *models.Record) (*models.Record, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	if err := rec.Validate(); err != nil {
		return nil, err
	}

	created, err := s.client.CreateRecord(ctx, rec)
	if err != nil {
		return nil, err
	}

	if err := records.NewSQLiteRepository(s.db).Upsert(ctx, created); err != nil {
		return nil, fmt.Errorf("cache update error: %w", err)
	}
	return created, nil
}

// Update validates and pushes a changed record, then updates the cache.
func (s *recordService) Update(ctx context.Context, rec *models.Record) error {
	if err := rec.Validate(); err != nil {
		return err
	}
	if err := s.client.UpdateRecord(ctx, rec); err != nil {
		return err
	}
	if err := records.NewSQLiteRepository(s.db).Upsert(ctx, rec); err != nil {
		return fmt.Errorf("cache update error: %w", err)
	}
	return nil
}

// Delete removes the record permanently on the server and in the cache.
func (s *recordService) Delete(ctx context.Context, id string) error {
	if err := s.client.DeleteRecord(ctx, id); err != nil {
		return err
	}
	if err := records.NewSQLiteRepository(s.db).DeleteByID(ctx, id); err != nil {
		return fmt.Errorf("cache update error: %w", err)
	}
	return nil
}
