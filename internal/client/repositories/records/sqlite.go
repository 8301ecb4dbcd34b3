package records

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/ysemenov/coinkeeper/internal/client/models"
	"github.com/ysemenov/coinkeeper/internal/common"
	"github.com/ysemenov/coinkeeper/internal/dbx"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

// NewSQLiteRepository returns a new SQLiteRepository bound to the given DBTX.
func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const recordColumns = `id, kind, title, category, amount, secondary, date, period, loan_type, contact, due_date, created_at`

// Upsert inserts or replaces a record by id.
func (r *SQLiteRepository) Upsert(ctx context.Context, rec *models.Record) error {
	query := ` INSERT INTO records (` + recordColumns + `)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT(id) DO UPDATE SET
				kind = excluded.kind,
				title = excluded.title,
				category = excluded.category,
				amount = excluded.amount,
				secondary = excluded.secondary,
				date = excluded.date,
				period = excluded.period,
				loan_type = excluded.loan_type,
				contact = excluded.contact,
				due_date = excluded.due_date,
				created_at = excluded.created_at
	`
	var secondary any
	if rec.HasSecondary {
		secondary = rec.Secondary.String()
	}
	_, err := r.db.ExecContext(ctx, query,
		rec.ID, string(rec.Kind), rec.Title, rec.Category, rec.Amount.String(), secondary,
		rec.Date, rec.Period, string(rec.LoanDirection), rec.Contact, rec.DueDate, rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert record: %w", err)
	}
	return nil
}

// GetByKind lists cached records of a kind in creation order.
func (r *SQLiteRepository) GetByKind(ctx context.Context, kind models.Kind) ([]models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE kind = ? ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query, string(kind))
	if err != nil {
		return nil, fmt.Errorf("failed to select records: %w", err)
	}
	defer rows.Close()

	var result []models.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// GetByID returns a single cached record.
func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM records WHERE id = ?`
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, fmt.Errorf("failed to select record: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, common.ErrorNotFound
	}
	rec, err := scanRecord(rows)
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeleteByID removes a record permanently. Deleting an absent id is not an
// error: the server copy may already be gone.
func (r *SQLiteRepository) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

// ReplaceKind drops the cached set for one kind and inserts the given
// records. Callers wanting atomicity should run it inside dbx.WithTx.
func (r *SQLiteRepository) ReplaceKind(ctx context.Context, kind models.Kind, recs []models.Record) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE kind = ?`, string(kind)); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}
	for i := range recs {
		if err := r.Upsert(ctx, &recs[i]); err != nil {
			return err
		}
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (models.Record, error) {
	var (
		rec       models.Record
		kind      string
		amount    string
		secondary sql.NullString
		loanType  string
	)
	err := row.Scan(&rec.ID, &kind, &rec.Title, &rec.Category, &amount, &secondary,
		&rec.Date, &rec.Period, &loanType, &rec.Contact, &rec.DueDate, &rec.CreatedAt)
	if err != nil {
		return models.Record{}, fmt.Errorf("record scan failed: %w", err)
	}
	rec.Kind = models.Kind(kind)
	rec.LoanDirection = models.LoanDirection(loanType)
	rec.Amount = parseDecimal(amount)
	if secondary.Valid {
		rec.Secondary = parseDecimal(secondary.String)
		rec.HasSecondary = true
	}
	return rec, nil
}

// parseDecimal treats unparsable stored amounts as zero, matching the
// sanitization rule applied at every other boundary.
func parseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
