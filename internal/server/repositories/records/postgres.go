package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ysemenov/coinkeeper/internal/common"
	"github.com/ysemenov/coinkeeper/internal/dbx"
	"github.com/ysemenov/coinkeeper/internal/server/models"
)

// PostgresRepository implements record storage over a dbx.DBTX (*sql.DB or *sql.Tx).
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const recordColumns = `id, user_id, kind, title, category, amount, secondary, date, period, loan_type, contact, due_date, created_at`

// Create inserts a record and returns it with the DB-assigned creation time.
func (r *PostgresRepository) Create(ctx context.Context, rec *models.Record) (*models.Record, error) {
	query := `
		INSERT INTO records (id, user_id, kind, title, category, amount, secondary, date, period, loan_type, contact, due_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query,
		rec.ID, rec.UserID, rec.Kind, rec.Title, rec.Category, rec.Amount, rec.Secondary,
		rec.Date, rec.Period, rec.LoanType, rec.Contact, rec.DueDate).Scan(&rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

// Update rewrites a record's mutable fields. A row owned by another user is
// invisible: no row is updated and ErrorNotFound is returned.
func (r *PostgresRepository) Update(ctx context.Context, rec *models.Record) error {
	query := `
		UPDATE records SET
			title = $3, category = $4, amount = $5, secondary = $6,
			date = $7, period = $8, loan_type = $9, contact = $10, due_date = $11
		WHERE id = $1 AND user_id = $2
	`
	res, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.UserID, rec.Title, rec.Category, rec.Amount, rec.Secondary,
		rec.Date, rec.Period, rec.LoanType, rec.Contact, rec.DueDate)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

// DeleteByID removes a record permanently (no soft delete, no undo).
func (r *PostgresRepository) DeleteByID(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, userID, id string) (*models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE id = $1 AND user_id = $2`

	rec := &models.Record{}
	err := r.db.QueryRowContext(ctx, query, id, userID).Scan(
		&rec.ID, &rec.UserID, &rec.Kind, &rec.Title, &rec.Category, &rec.Amount, &rec.Secondary,
		&rec.Date, &rec.Period, &rec.LoanType, &rec.Contact, &rec.DueDate, &rec.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return rec, nil
}

// Select lists records matching the filter in creation order. The owner
// filter is always applied; the optional ones are plain equality matches.
func (r *PostgresRepository) Select(ctx context.Context, f Filter) ([]*models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE user_id = $1`
	args := []any{f.UserID}

	for _, opt := range []struct {
		column string
		value  string
	}{
		{"kind", f.Kind},
		{"category", f.Category},
		{"period", f.Period},
		{"contact", f.Contact},
	} {
		if opt.value != "" {
			args = append(args, opt.value)
			query += fmt.Sprintf(" AND %s = $%d", opt.column, len(args))
		}
	}
	query += ` ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	var result []*models.Record
	for rows.Next() {
		rec := &models.Record{}
		if err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.Kind, &rec.Title, &rec.Category, &rec.Amount, &rec.Secondary,
			&rec.Date, &rec.Period, &rec.LoanType, &rec.Contact, &rec.DueDate, &rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
