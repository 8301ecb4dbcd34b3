package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/ysemenov/coinkeeper/internal/common"
	"github.com/ysemenov/coinkeeper/internal/server/models"
	"github.com/ysemenov/coinkeeper/internal/server/repositories/records"
	"github.com/ysemenov/coinkeeper/internal/server/repositories/repomanager"
)

var validKinds = map[string]bool{
	"expense":    true,
	"budget":     true,
	"loan":       true,
	"investment": true,
}

// RecordService validates and persists financial records. Ownership is
// enforced by passing the authenticated user ID into every repository call.
type RecordService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewRecordService(db *sql.DB, m repomanager.RepositoryManager) *RecordService {
	return &RecordService{db: db, repomanager: m}
}

// validateRecord checks the invariants the schema cannot express on its own:
// a known kind, a strictly positive amount, a non-negative secondary amount,
// and a loan direction on loans.
func validateRecord(rec *models.Record) error {
	if !validKinds[rec.Kind] {
		return fmt.Errorf("%w: %q", common.ErrUnknownRecordKind, rec.Kind)
	}

	amount, err := decimal.NewFromString(rec.Amount)
	if err != nil {
		return fmt.Errorf("%w: amount %q is not a number", common.ErrorValidation, rec.Amount)
	}
	if !amount.IsPositive() {
		return common.ErrAmountNotPositive
	}

	if rec.Secondary != nil {
		secondary, err := decimal.NewFromString(*rec.Secondary)
		if err != nil {
			return fmt.Errorf("%w: secondary amount %q is not a number", common.ErrorValidation, *rec.Secondary)
		}
		if secondary.IsNegative() {
			return common.ErrNegativeSecondary
		}
	}

	if rec.Kind == "loan" && rec.LoanType != "given" && rec.LoanType != "taken" {
		return fmt.Errorf("%w: loan direction must be given or taken", common.ErrorValidation)
	}

	return nil
}

// Create validates a record, assigns it an ID if the client did not, and
// persists it for the given user.
func (s *RecordService) Create(ctx context.Context, userID string, rec *models.Record) (*models.Record, error) {
	if err := validateRecord(rec); err != nil {
		return nil, err
	}
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}
	rec.UserID = userID

	repo := s.repomanager.Records(s.db)
	created, err := repo.Create(ctx, rec)
	if err != nil {
		return nil, fmt.Errorf("error creating record: %w", err)
	}
	return created, nil
}

// Update validates and replaces an existing record owned by the user.
func (s *RecordService) Update(ctx context.Context, userID string, rec *models.Record) error {
	if err := validateRecord(rec); err != nil {
		return err
	}
	rec.UserID = userID

	repo := s.repomanager.Records(s.db)
	if err := repo.Update(ctx, rec); err != nil {
		return err
	}
	return nil
}

// Delete removes a record owned by the user. Deleting a record that does not
// exist returns common.ErrorNotFound.
func (s *RecordService) Delete(ctx context.Context, userID, id string) error {
	repo := s.repomanager.Records(s.db)
	return repo.DeleteByID(ctx, userID, id)
}

// Get returns one record owned by the user.
func (s *RecordService) Get(ctx context.Context, userID, id string) (*models.Record, error) {
	repo := s.repomanager.Records(s.db)
	return repo.GetByID(ctx, userID, id)
}

// List returns the user's records, optionally narrowed by kind, category,
// period, or contact. Results come back in creation order.
func (s *RecordService) List(ctx context.Context, userID string, f records.Filter) ([]*models.Record, error) {
	f.UserID = userID
	repo := s.repomanager.Records(s.db)
	return repo.Select(ctx, f)
}
