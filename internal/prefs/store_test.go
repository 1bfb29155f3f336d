package prefs

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buscar-app/buscar/internal/common"
	"github.com/buscar-app/buscar/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestToggleFavorite(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	added, err := store.ToggleFavorite(ctx, "car-1")
	require.NoError(t, err)
	assert.True(t, added)

	fav, err := store.IsFavorite(ctx, "car-1")
	require.NoError(t, err)
	assert.True(t, fav)

	removed, err := store.ToggleFavorite(ctx, "car-1")
	require.NoError(t, err)
	assert.False(t, removed)

	fav, err = store.IsFavorite(ctx, "car-1")
	require.NoError(t, err)
	assert.False(t, fav)
}

func TestToggleFavoriteRejectsEmptyID(t *testing.T) {
	store := newTestStore(t)
	_, err := store.ToggleFavorite(context.Background(), "")
	assert.Error(t, err)
}

func TestFavoritesListsAllEntries(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"c", "a", "b"} {
		_, err := store.ToggleFavorite(ctx, id)
		require.NoError(t, err)
	}

	ids, err := store.Favorites(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, ids)
}

func TestClearFavorites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.ToggleFavorite(ctx, "car-1")
	require.NoError(t, err)
	require.NoError(t, store.ClearFavorites(ctx))

	ids, err := store.Favorites(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestCompareCapRejectsFifthEntry(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < CompareLimit; i++ {
		added, err := store.ToggleCompare(ctx, string(rune('a'+i)))
		require.NoError(t, err)
		require.True(t, added)
	}

	_, err := store.ToggleCompare(ctx, "fifth")
	assert.ErrorIs(t, err, common.ErrCompareListFull)

	// The failed add must leave the list untouched.
	ids, err := store.CompareList(ctx)
	require.NoError(t, err)
	assert.Len(t, ids, CompareLimit)
	assert.NotContains(t, ids, "fifth")
}

func TestCompareRemovalFreesASlot(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < CompareLimit; i++ {
		_, err := store.ToggleCompare(ctx, string(rune('a'+i)))
		require.NoError(t, err)
	}

	removed, err := store.ToggleCompare(ctx, "a")
	require.NoError(t, err)
	assert.False(t, removed)

	added, err := store.ToggleCompare(ctx, "fifth")
	require.NoError(t, err)
	assert.True(t, added)
}

func TestUserIDIsStable(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	first, err := store.UserID(ctx)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(first, "user_"))

	second, err := store.UserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestEmailRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	email, err := store.Email(ctx)
	require.NoError(t, err)
	assert.Empty(t, email)

	require.NoError(t, store.SetEmail(ctx, "ana@example.com"))

	email, err = store.Email(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", email)

	require.NoError(t, store.SetEmail(ctx, "otro@example.com"))
	email, err = store.Email(ctx)
	require.NoError(t, err)
	assert.Equal(t, "otro@example.com", email)
}

func TestAlertsCacheRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cached, err := store.CachedAlerts(ctx)
	require.NoError(t, err)
	assert.Nil(t, cached)

	carModel := "X5"
	alerts := []model.PriceAlert{
		{ID: 1, Email: "a@b.com", Brand: "BMW", Model: &carModel, MaxPrice: 40000},
		{ID: 2, Email: "a@b.com", Brand: "Audi", MaxPrice: 25000},
	}
	require.NoError(t, store.CacheAlerts(ctx, alerts))

	cached, err = store.CachedAlerts(ctx)
	require.NoError(t, err)
	require.Len(t, cached, 2)
	assert.Equal(t, int64(1), cached[0].ID)
	require.NotNil(t, cached[0].Model)
	assert.Equal(t, "X5", *cached[0].Model)

	// A refresh replaces the mirror wholesale.
	require.NoError(t, store.CacheAlerts(ctx, alerts[:1]))
	cached, err = store.CachedAlerts(ctx)
	require.NoError(t, err)
	assert.Len(t, cached, 1)
}

func TestCorruptAlertsCache(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	_, err := store.db.ExecContext(ctx, `INSERT INTO alerts_cache (payload) VALUES ('{not json')`)
	require.NoError(t, err)

	_, err = store.CachedAlerts(ctx)
	assert.ErrorIs(t, err, common.ErrStoreCorrupted)
}

func TestStoreReopensWithSameData(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prefs.db")
	ctx := context.Background()

	store, err := NewStore(path)
	require.NoError(t, err)
	_, err = store.ToggleFavorite(ctx, "car-1")
	require.NoError(t, err)
	userID, err := store.UserID(ctx)
	require.NoError(t, err)
	require.NoError(t, store.Close())

	reopened, err := NewStore(path)
	require.NoError(t, err)
	defer func() { _ = reopened.Close() }()

	fav, err := reopened.IsFavorite(ctx, "car-1")
	require.NoError(t, err)
	assert.True(t, fav)

	sameID, err := reopened.UserID(ctx)
	require.NoError(t, err)
	assert.Equal(t, userID, sameID)
}

func TestNewStoreRejectsEmptyPath(t *testing.T) {
	_, err := NewStore("")
	assert.ErrorIs(t, err, common.ErrInvalidConfig)
}
