package sqlite_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Youngleechen/writeedit"
	"github.com/Youngleechen/writeedit/sqlite"
)

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "writeedit.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_SaveAndLoad(t *testing.T) {
	t.Parallel()

	store := openStore(t)
	ctx := context.Background()

	doc := writeedit.StoredDocument{
		ID:            "doc-1",
		OriginalText:  "one two three",
		EditedText:    "one three",
		CleanText:     "one three",
		TrackedMarkup: `one <span class="change" data-group-id="g"><del>two </del></span>three`,
	}
	require.NoError(t, store.Save(ctx, doc))

	got, err := store.Load(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, doc.ID, got.ID)
	assert.Equal(t, doc.OriginalText, got.OriginalText)
	assert.Equal(t, doc.EditedText, got.EditedText)
	assert.Equal(t, doc.CleanText, got.CleanText)
	assert.Equal(t, doc.TrackedMarkup, got.TrackedMarkup)
	assert.WithinDuration(t, time.Now().UTC(), got.UpdatedAt, time.Minute)
}

func TestStore_Load_NotFound(t *testing.T) {
	t.Parallel()

	store := openStore(t)
	_, err := store.Load(context.Background(), "missing")
	assert.ErrorIs(t, err, writeedit.ErrNotFound)
}

func TestStore_Save_Upserts(t *testing.T) {
	t.Parallel()

	store := openStore(t)
	ctx := context.Background()

	doc := writeedit.StoredDocument{ID: "doc-1", CleanText: "first"}
	require.NoError(t, store.Save(ctx, doc))

	doc.CleanText = "second"
	doc.TrackedMarkup = "second"
	require.NoError(t, store.Save(ctx, doc))

	got, err := store.Load(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "second", got.CleanText)
	assert.Equal(t, "second", got.TrackedMarkup)

	infos, err := store.List(ctx)
	require.NoError(t, err)
	assert.Len(t, infos, 1)
}

func TestStore_List_OrdersByRecency(t *testing.T) {
	t.Parallel()

	store := openStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, writeedit.StoredDocument{ID: "older", CleanText: "a"}))
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, store.Save(ctx, writeedit.StoredDocument{ID: "newer", CleanText: "b"}))

	infos, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, "newer", infos[0].ID)
	assert.Equal(t, "older", infos[1].ID)
}

func TestStore_List_TruncatesPreview(t *testing.T) {
	t.Parallel()

	store := openStore(t)
	ctx := context.Background()

	long := strings.Repeat("x", 500)
	require.NoError(t, store.Save(ctx, writeedit.StoredDocument{ID: "doc", CleanText: long}))

	infos, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Len(t, infos[0].Preview, 80)
}

func TestStore_List_Empty(t *testing.T) {
	t.Parallel()

	store := openStore(t)
	infos, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, infos)
}
