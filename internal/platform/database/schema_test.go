package database

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenSelectsSQLiteWithoutURL(t *testing.T) {
	db, driver, err := Open("", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	assert.Equal(t, DriverSQLite, driver)
	require.NoError(t, db.Ping())
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db, driver, err := Open("", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, EnsureSchema(ctx, db, driver))
	// Second run must be a no-op, not an error.
	require.NoError(t, EnsureSchema(ctx, db, driver))

	for _, table := range []string{"users", "posts", "todos"} {
		var count int
		err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+table).Scan(&count)
		require.NoError(t, err, "table %s should exist", table)
		assert.Zero(t, count)
	}
}

func TestEnsureSchemaPreservesData(t *testing.T) {
	ctx := context.Background()
	db, driver, err := Open("", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	require.NoError(t, EnsureSchema(ctx, db, driver))
	_, err = db.ExecContext(ctx, `INSERT INTO users (username, password_hash) VALUES ('alice', 'x')`)
	require.NoError(t, err)

	require.NoError(t, EnsureSchema(ctx, db, driver))

	var count int
	require.NoError(t, db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count))
	assert.Equal(t, 1, count)
}

func TestEnsureSchemaUnknownDriver(t *testing.T) {
	db, _, err := Open("", ":memory:")
	require.NoError(t, err)
	defer db.Close()

	assert.Error(t, EnsureSchema(context.Background(), db, Driver("oracle")))
}
