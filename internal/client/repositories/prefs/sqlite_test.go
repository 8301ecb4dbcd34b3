package prefs

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", "file:prefs?mode=memory&cache=shared")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS prefs (key TEXT PRIMARY KEY, value TEXT NOT NULL)`)
	require.NoError(t, err)
	_, err = db.Exec(`DELETE FROM prefs`)
	require.NoError(t, err)
	return db
}

func TestGet_MissingKeyIsEmpty(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))

	v, err := repo.Get(context.Background(), "appLockEnabled")
	require.NoError(t, err)
	require.Equal(t, "", v)
}

func TestSetGet_Overwrites(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "theme_mode", "dark"))
	require.NoError(t, repo.Set(ctx, "theme_mode", "light"))

	v, err := repo.Get(ctx, "theme_mode")
	require.NoError(t, err)
	require.Equal(t, "light", v)
}

func TestDeleteAndClear(t *testing.T) {
	repo := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, repo.Set(ctx, "a", "1"))
	require.NoError(t, repo.Set(ctx, "b", "2"))

	require.NoError(t, repo.Delete(ctx, "a"))
	v, err := repo.Get(ctx, "a")
	require.NoError(t, err)
	require.Equal(t, "", v)

	require.NoError(t, repo.Clear(ctx))
	v, err = repo.Get(ctx, "b")
	require.NoError(t, err)
	require.Equal(t, "", v)
}
