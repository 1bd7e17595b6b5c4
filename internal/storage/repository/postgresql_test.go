package repository

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStorage_RunQuery(t *testing.T) {
	db := setupTestDatabase(t)
	ctx := context.Background()

	t.Run("empty result is not an error", func(t *testing.T) {
		rows, err := db.storage.RunQuery(ctx, `SELECT id FROM feedback WHERE id = $1`, "missing")
		require.NoError(t, err)
		assert.NotNil(t, rows)
		assert.Empty(t, rows)
	})

	t.Run("rows are keyed by column name", func(t *testing.T) {
		rows, err := db.storage.RunQuery(ctx, `SELECT $1::text AS name, $2::int AS n`, "x", 7)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "x", rows[0]["name"])
		assert.EqualValues(t, 7, rows[0]["n"])
	})

	t.Run("parameters are bound, not interpolated", func(t *testing.T) {
		rows, err := db.storage.RunQuery(ctx, `SELECT $1::text AS v`, "'; DROP TABLE feedback; --")
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "'; DROP TABLE feedback; --", rows[0]["v"])

		exists, err := db.storage.TablesExist(ctx)
		require.NoError(t, err)
		assert.True(t, exists)
	})

	t.Run("driver error is ErrQuery", func(t *testing.T) {
		rows, err := db.storage.RunQuery(ctx, `SELECT * FROM no_such_table`)
		require.ErrorIs(t, err, ErrQuery)
		assert.Nil(t, rows)
	})
}

func TestStorage_RunMutation(t *testing.T) {
	db := setupTestDatabase(t)
	ctx := context.Background()

	n, err := db.storage.RunMutation(ctx, `INSERT INTO feedback (text) VALUES ($1), ($2)`, "a", "b")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	n, err = db.storage.RunMutation(ctx, `UPDATE feedback SET is_archived = true WHERE text = $1`, "zzz")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	_, err = db.storage.RunMutation(ctx, `INSERT INTO feedback (text) VALUES (NULL)`)
	require.ErrorIs(t, err, ErrQuery)
}

func TestStorage_Cancellation(t *testing.T) {
	db := setupTestDatabase(t)
	ctx := context.Background()

	in := sampleCancellation()
	date, err := parseDate(in.TerminationDate)
	require.NoError(t, err)

	id, err := db.storage.CreateCancellation(ctx, in, date)
	require.NoError(t, err)
	assert.Len(t, id, 36)

	list, err := db.storage.ListCancellations(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)

	got := list[0]
	assert.Equal(t, id, got.ID)
	assert.Equal(t, in.Email, got.Email)
	assert.Equal(t, in.Name, got.Name)
	assert.Equal(t, in.LastName, got.LastName)
	assert.Equal(t, in.Address, got.Address)
	assert.Equal(t, in.Town, got.Town)
	assert.Equal(t, in.TownNumber, got.TownNumber)
	assert.Equal(t, in.IsUnordinary, got.IsUnordinary)
	require.NotNil(t, got.Reason)
	assert.Equal(t, *in.Reason, *got.Reason)
	assert.Equal(t, in.LastInvoiceNumber, got.LastInvoiceNumber)
	assert.Equal(t, "2025-03-31", got.TerminationDate)
	assert.False(t, got.CreatedAt.IsZero())
	assert.False(t, got.IsArchived)

	n, err := db.storage.ArchiveCancellation(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	n, err = db.storage.ArchiveCancellation(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "archiving twice re-asserts the flag")

	n, err = db.storage.ArchiveCancellation(ctx, "00000000-0000-0000-0000-000000000000")
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	list, err = db.storage.ListCancellations(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.True(t, list[0].IsArchived)
	assert.Equal(t, got.CreatedAt, list[0].CreatedAt)
}

func TestStorage_Feedback(t *testing.T) {
	db := setupTestDatabase(t)
	ctx := context.Background()

	t.Run("round trip without email", func(t *testing.T) {
		in := feedbackInput(nil, "hello")
		id, err := db.storage.CreateFeedback(ctx, in)
		require.NoError(t, err)

		list, err := db.storage.ListFeedback(ctx)
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, id, list[0].ID)
		assert.Nil(t, list[0].Email)
		assert.Equal(t, "hello", list[0].Text)
		assert.False(t, list[0].IsArchived)
	})

	t.Run("failed insert leaves no row", func(t *testing.T) {
		_, err := db.storage.CreateFeedback(ctx, feedbackInput(strPtr("x@example.com"), strings.Repeat("a", 501)))
		require.ErrorIs(t, err, ErrQuery)

		list, err := db.storage.ListFeedback(ctx)
		require.NoError(t, err)
		assert.Len(t, list, 1)
	})

	t.Run("archive", func(t *testing.T) {
		list, err := db.storage.ListFeedback(ctx)
		require.NoError(t, err)

		n, err := db.storage.ArchiveFeedback(ctx, list[0].ID)
		require.NoError(t, err)
		assert.Equal(t, int64(1), n)

		list, err = db.storage.ListFeedback(ctx)
		require.NoError(t, err)
		assert.True(t, list[0].IsArchived)
	})
}

func TestEnsureDatabase(t *testing.T) {
	db := setupTestDatabase(t)
	ctx := context.Background()

	created, err := EnsureDatabase(ctx, db.maintenanceDSN, "forms")
	require.NoError(t, err)
	assert.False(t, created, "existing database must be left alone")

	created, err = EnsureDatabase(ctx, db.maintenanceDSN, "forms-fresh")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = EnsureDatabase(ctx, db.maintenanceDSN, "forms-fresh")
	require.NoError(t, err)
	assert.False(t, created)
}

func TestStorage_TablesExist(t *testing.T) {
	db := setupTestDatabase(t)
	ctx := context.Background()

	exists, err := db.storage.TablesExist(ctx)
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = db.storage.DB.ExecContext(ctx, `DROP TABLE feedback`)
	require.NoError(t, err)

	exists, err = db.storage.TablesExist(ctx)
	require.NoError(t, err)
	assert.False(t, exists)
}
