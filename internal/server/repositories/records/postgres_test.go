package records

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/ysemenov/coinkeeper/internal/common"
	"github.com/ysemenov/coinkeeper/internal/server/models"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock, *sql.DB) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return NewPostgresRepository(db), mock, db
}

func allColumns() []string {
	return []string{"id", "user_id", "kind", "title", "category", "amount", "secondary",
		"date", "period", "loan_type", "contact", "due_date", "created_at"}
}

func TestCreate_Success(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	created := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`INSERT\s+INTO\s+records`).
		WithArgs("r-1", "u-1", "expense", "groceries", "Food", "42.50", nil, "2025-07-01", "", "", "", "").
		WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(created))

	rec := &models.Record{
		ID: "r-1", UserID: "u-1", Kind: "expense", Title: "groceries",
		Category: "Food", Amount: "42.50", Date: "2025-07-01",
	}
	got, err := repo.Create(context.Background(), rec)
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if !got.CreatedAt.Equal(created) {
		t.Fatalf("created_at not populated: %+v", got)
	}
}

func TestUpdate_OtherUsersRowInvisible(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`UPDATE\s+records\s+SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Update(context.Background(), &models.Record{ID: "r-1", UserID: "intruder", Amount: "1"})
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestDeleteByID_ScopedToOwner(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+records\s+WHERE\s+id\s*=\s*\$1\s+AND\s+user_id\s*=\s*\$2`).
		WithArgs("r-1", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.DeleteByID(context.Background(), "u-1", "r-1"); err != nil {
		t.Fatalf("DeleteByID error: %v", err)
	}
}

func TestDeleteByID_NotFound(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	mock.ExpectExec(`DELETE\s+FROM\s+records`).
		WithArgs("r-x", "u-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteByID(context.Background(), "u-1", "r-x")
	if !errors.Is(err, common.ErrorNotFound) {
		t.Fatalf("expected ErrorNotFound, got %v", err)
	}
}

func TestSelect_OwnerOnly(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(allColumns()).
		AddRow("r-1", "u-1", "expense", "", "Food", "10", nil, "2025-07-01", "", "", "", "", time.Now()).
		AddRow("r-2", "u-1", "expense", "", "Bills", "20", nil, "2025-07-02", "", "", "", "", time.Now())

	mock.ExpectQuery(`SELECT\s+.*\s+FROM\s+records\s+WHERE\s+user_id\s*=\s*\$1\s+ORDER\s+BY\s+created_at`).
		WithArgs("u-1").
		WillReturnRows(rows)

	got, err := repo.Select(context.Background(), Filter{UserID: "u-1"})
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
}

func TestSelect_OptionalFilters(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	rows := sqlmock.NewRows(allColumns()).
		AddRow("r-1", "u-1", "budget", "", "Food", "100", nil, "", "2025-07", "", "", "", time.Now())

	mock.ExpectQuery(`WHERE\s+user_id\s*=\s*\$1\s+AND\s+kind\s*=\s*\$2\s+AND\s+period\s*=\s*\$3`).
		WithArgs("u-1", "budget", "2025-07").
		WillReturnRows(rows)

	got, err := repo.Select(context.Background(), Filter{UserID: "u-1", Kind: "budget", Period: "2025-07"})
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if len(got) != 1 || got[0].Period != "2025-07" {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestSelect_SecondaryNullable(t *testing.T) {
	repo, mock, db := newRepoWithMock(t)
	defer db.Close()

	val := "6100"
	rows := sqlmock.NewRows(allColumns()).
		AddRow("r-1", "u-1", "investment", "", "Stocks", "5000", &val, "", "", "", "", "", time.Now())

	mock.ExpectQuery(`SELECT`).WithArgs("u-1").WillReturnRows(rows)

	got, err := repo.Select(context.Background(), Filter{UserID: "u-1"})
	if err != nil {
		t.Fatalf("Select error: %v", err)
	}
	if got[0].Secondary == nil || *got[0].Secondary != "6100" {
		t.Fatalf("secondary not scanned: %+v", got[0])
	}
}
