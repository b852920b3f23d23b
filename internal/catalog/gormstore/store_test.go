package gormstore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tokhel/ink/internal/catalog"
	"github.com/tokhel/ink/internal/entities"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()

	store, err := Open(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_InsertAndGet(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	id, err := store.Insert(ctx, &entities.Novel{
		Title:       "الظل والمفتاح",
		Quote:       "اقتباس",
		Description: "وصف",
		ReleaseDate: time.Date(2024, time.October, 15, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "الظل والمفتاح", got.Title)
	assert.False(t, got.IsFeatured)

	_, err = store.Get(ctx, "missing")
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestStore_ListOrdering(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	day := func(d int) time.Time { return time.Date(2024, time.January, d, 0, 0, 0, 0, time.UTC) }
	_, err := store.Insert(ctx, &entities.Novel{ID: "old", Title: "old", ReleaseDate: day(1)})
	require.NoError(t, err)
	_, err = store.Insert(ctx, &entities.Novel{ID: "new", Title: "new", ReleaseDate: day(20)})
	require.NoError(t, err)
	_, err = store.Insert(ctx, &entities.Novel{ID: "feat", Title: "feat", ReleaseDate: day(10), IsFeatured: true})
	require.NoError(t, err)

	novels, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, novels, 3)
	assert.Equal(t, "feat", novels[0].ID)
	assert.Equal(t, "new", novels[1].ID)
	assert.Equal(t, "old", novels[2].ID)
}

func TestStore_UpdateOnlyGivenFields(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	id, err := store.Insert(ctx, &entities.Novel{
		Title:      "A",
		Quote:      "Q",
		CoverImage: "https://files.example/cover.jpg",
	})
	require.NoError(t, err)

	err = store.Update(ctx, id, catalog.Fields{
		catalog.FieldTitle: "B",
		catalog.FieldQuote: "Q2",
	})
	require.NoError(t, err)

	got, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "B", got.Title)
	assert.Equal(t, "Q2", got.Quote)
	assert.Equal(t, "https://files.example/cover.jpg", got.CoverImage)

	err = store.Update(ctx, "missing", catalog.Fields{catalog.FieldTitle: "X"})
	assert.ErrorIs(t, err, catalog.ErrNotFound)
}

func TestStore_ApplyBatchRollsBackOnFailure(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	a, err := store.Insert(ctx, &entities.Novel{Title: "A", IsFeatured: true})
	require.NoError(t, err)
	b, err := store.Insert(ctx, &entities.Novel{Title: "B"})
	require.NoError(t, err)

	err = store.ApplyBatch(ctx, []catalog.BatchUpdate{
		{ID: a, Fields: catalog.Fields{catalog.FieldIsFeatured: false}},
		{ID: "missing", Fields: catalog.Fields{catalog.FieldIsFeatured: true}},
	})
	require.Error(t, err)

	// The transaction rolled back; prior state is intact.
	got, err := store.Get(ctx, a)
	require.NoError(t, err)
	assert.True(t, got.IsFeatured)

	err = store.ApplyBatch(ctx, []catalog.BatchUpdate{
		{ID: a, Fields: catalog.Fields{catalog.FieldIsFeatured: false}},
		{ID: b, Fields: catalog.Fields{catalog.FieldIsFeatured: true}},
	})
	require.NoError(t, err)

	gotA, _ := store.Get(ctx, a)
	gotB, _ := store.Get(ctx, b)
	assert.False(t, gotA.IsFeatured)
	assert.True(t, gotB.IsFeatured)
}

func TestStore_Delete(t *testing.T) {
	store := setupTestStore(t)
	ctx := context.Background()

	id, err := store.Insert(ctx, &entities.Novel{Title: "A"})
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, id))
	assert.ErrorIs(t, store.Delete(ctx, id), catalog.ErrNotFound)
}
