package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subtally/subtally/internal/model"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	require.NoError(t, store.Migrate(context.Background()))
	return store
}

func TestNewSQLiteStorage_EmptyPath(t *testing.T) {
	_, err := NewSQLiteStorage("")
	assert.Error(t, err)
}

func TestMigrate_Idempotent(t *testing.T) {
	store := newTestStorage(t)
	// A second run applies nothing and succeeds.
	assert.NoError(t, store.Migrate(context.Background()))
}

func TestRecordAndListImports(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	id, err := store.RecordImport(ctx, "job-1", "march.csv", "GBP", model.ImportResult{
		ImportedCount:  3,
		SkippedCount:   1,
		DuplicateCount: 2,
	})
	require.NoError(t, err)
	assert.Positive(t, id)

	_, err = store.RecordImport(ctx, "job-2", "april.ofx", "USD", model.ImportResult{
		ImportedCount: 5,
	})
	require.NoError(t, err)

	records, err := store.ListImports(ctx, 10)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Newest first.
	assert.Equal(t, "job-2", records[0].JobID)
	assert.Equal(t, "april.ofx", records[0].FileName)
	assert.Equal(t, 5, records[0].ImportedCount)

	assert.Equal(t, "job-1", records[1].JobID)
	assert.Equal(t, 3, records[1].ImportedCount)
	assert.Equal(t, 1, records[1].SkippedCount)
	assert.Equal(t, 2, records[1].DuplicateCount)
	assert.False(t, records[1].CreatedAt.IsZero())
}

func TestRecordImport_RequiresJobID(t *testing.T) {
	store := newTestStorage(t)
	_, err := store.RecordImport(context.Background(), "", "file.csv", "GBP", model.ImportResult{})
	assert.Error(t, err)
}

func TestListImports_Limit(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	for _, jobID := range []string{"a", "b", "c"} {
		_, err := store.RecordImport(ctx, jobID, "f.csv", "GBP", model.ImportResult{})
		require.NoError(t, err)
	}

	records, err := store.ListImports(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
