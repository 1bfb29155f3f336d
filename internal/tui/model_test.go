package tui

import (
	"context"
	"net/url"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buscar-app/buscar/internal/browse"
	"github.com/buscar-app/buscar/internal/model"
	"github.com/buscar-app/buscar/internal/prefs"
)

type fixedFetcher struct {
	page *model.ListingPage
}

func (f *fixedFetcher) Search(_ context.Context, _ url.Values) (*model.ListingPage, error) {
	return f.page, nil
}

func newTestModel(t *testing.T) Model {
	t.Helper()
	store, err := prefs.NewStore(filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })

	session := browse.NewSession(&fixedFetcher{page: &model.ListingPage{}}, 12)
	session.AttachPrefs(store)

	return newModel(Config{Session: session, Store: store})
}

func carsNamed(names ...string) []model.CarListing {
	cars := make([]model.CarListing, len(names))
	for i, n := range names {
		cars[i] = model.CarListing{ID: n, Brand: "BMW", Model: n, Price: 20000}
	}
	return cars
}

func TestUpdateAppliesNewestPageOnly(t *testing.T) {
	m := newTestModel(t)
	t1 := m.session.BeginFetch()
	t2 := m.session.BeginFetch()

	newer := &model.ListingPage{Cars: carsNamed("newer"), Total: 1}
	updated, _ := m.Update(pageLoadedMsg{seq: t2.Seq, page: newer})
	m = updated.(Model)

	older := &model.ListingPage{Cars: carsNamed("older"), Total: 1}
	updated, _ = m.Update(pageLoadedMsg{seq: t1.Seq, page: older})
	m = updated.(Model)

	require.Len(t, m.snap.Listings, 1)
	assert.Equal(t, "newer", m.snap.Listings[0].ID)
	assert.False(t, m.snap.Loading)
}

func TestUpdateClampsSelectionToShorterPage(t *testing.T) {
	m := newTestModel(t)

	t1 := m.session.BeginFetch()
	updated, _ := m.Update(pageLoadedMsg{seq: t1.Seq, page: &model.ListingPage{
		Cars: carsNamed("a", "b", "c"), Total: 3,
	}})
	m = updated.(Model)
	m.selected = 2

	t2 := m.session.BeginFetch()
	updated, _ = m.Update(pageLoadedMsg{seq: t2.Seq, page: &model.ListingPage{
		Cars: carsNamed("only"), Total: 1,
	}})
	m = updated.(Model)

	assert.Equal(t, 0, m.selected)
}

func TestCompareCapShowsToast(t *testing.T) {
	m := newTestModel(t)
	ctx := context.Background()

	for _, id := range []string{"a", "b", "c", "d"} {
		_, err := m.store.ToggleCompare(ctx, id)
		require.NoError(t, err)
	}

	t1 := m.session.BeginFetch()
	updated, _ := m.Update(pageLoadedMsg{seq: t1.Seq, page: &model.ListingPage{
		Cars: carsNamed("fifth"), Total: 1,
	}})
	m = updated.(Model)

	cmd := m.toggleCompare()
	require.NotNil(t, cmd)
	assert.Equal(t, "Máximo 4 coches para comparar", m.toast)

	in, err := m.store.InCompare(ctx, "fifth")
	require.NoError(t, err)
	assert.False(t, in)
}

func TestToggleFavoriteToasts(t *testing.T) {
	m := newTestModel(t)

	t1 := m.session.BeginFetch()
	updated, _ := m.Update(pageLoadedMsg{seq: t1.Seq, page: &model.ListingPage{
		Cars: carsNamed("car-1"), Total: 1,
	}})
	m = updated.(Model)

	require.NotNil(t, m.toggleFavorite())
	assert.Equal(t, "Añadido a favoritos", m.toast)
	assert.Equal(t, 1, m.favCount)

	require.NotNil(t, m.toggleFavorite())
	assert.Equal(t, "Eliminado de favoritos", m.toast)
	assert.Equal(t, 0, m.favCount)
}

func TestToastExpiryIgnoresSupersededID(t *testing.T) {
	m := newTestModel(t)

	m.showToast("primero")
	first := m.toastID
	m.showToast("segundo")

	updated, _ := m.Update(toastExpiredMsg{id: first})
	m = updated.(Model)
	assert.Equal(t, "segundo", m.toast)

	updated, _ = m.Update(toastExpiredMsg{id: m.toastID})
	m = updated.(Model)
	assert.Empty(t, m.toast)
}

func TestCategoryIndex(t *testing.T) {
	assert.Equal(t, 0, categoryIndex("1"))
	assert.Equal(t, 7, categoryIndex("8"))
	assert.Equal(t, -1, categoryIndex("9"))
	assert.Equal(t, -1, categoryIndex("0"))
	assert.Equal(t, -1, categoryIndex("x"))
	assert.Equal(t, -1, categoryIndex("12"))
}

func TestNextSortCycles(t *testing.T) {
	m := newTestModel(t)

	seen := map[browse.SortOrder]bool{}
	for range sortCycle {
		next := m.nextSort()
		seen[next] = true
		m.session.SetSort(next)
		m.refreshSnapshot()
	}
	assert.Len(t, seen, len(sortCycle))
}

func TestQuitKey(t *testing.T) {
	m := newTestModel(t)

	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	m = updated.(Model)

	assert.True(t, m.quitting)
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}
