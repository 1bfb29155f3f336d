package browse

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buscar-app/buscar/internal/model"
	"github.com/buscar-app/buscar/internal/refdata"
)

// stubFetcher returns canned pages keyed by the page query parameter.
type stubFetcher struct {
	pages map[string]*model.ListingPage
	err   error
	calls []url.Values
}

func (f *stubFetcher) Search(_ context.Context, params url.Values) (*model.ListingPage, error) {
	f.calls = append(f.calls, params)
	if f.err != nil {
		return nil, f.err
	}
	if page, ok := f.pages[params.Get("page")]; ok {
		return page, nil
	}
	return &model.ListingPage{}, nil
}

func listingsNamed(names ...string) []model.CarListing {
	cars := make([]model.CarListing, len(names))
	for i, n := range names {
		cars[i] = model.CarListing{ID: n, Brand: "BMW", Model: n}
	}
	return cars
}

func TestSetFiltersResetsPage(t *testing.T) {
	s := NewSession(&stubFetcher{}, 12)
	s.GoToPage(5)

	brand := "BMW"
	changed := s.SetFilters(FilterUpdate{Brand: &brand})

	assert.True(t, changed)
	snap := s.Snapshot(context.Background())
	assert.Equal(t, 1, snap.Cursor.Page)
	assert.Equal(t, "BMW", snap.Criteria.Brand)
}

func TestSetSortKeepsPage(t *testing.T) {
	s := NewSession(&stubFetcher{}, 12)
	s.GoToPage(3)

	require.True(t, s.SetSort(SortPriceAsc))

	snap := s.Snapshot(context.Background())
	assert.Equal(t, 3, snap.Cursor.Page)
	assert.Equal(t, SortPriceAsc, snap.Cursor.Sort)
}

func TestSetSortRejectsUnknownOrder(t *testing.T) {
	s := NewSession(&stubFetcher{}, 12)
	assert.False(t, s.SetSort(SortOrder("alphabetical")))

	snap := s.Snapshot(context.Background())
	assert.Equal(t, SortDateDesc, snap.Cursor.Sort)
}

func TestGoToPageClampsToOne(t *testing.T) {
	s := NewSession(&stubFetcher{}, 12)
	s.GoToPage(-4)
	assert.Equal(t, 1, s.Snapshot(context.Background()).Cursor.Page)
}

func TestBrandChangeClearsModel(t *testing.T) {
	s := NewSession(&stubFetcher{}, 12)
	brand, carModel := "BMW", "Serie 3"
	s.SetFilters(FilterUpdate{Brand: &brand, Model: &carModel})

	other := "Audi"
	s.SetFilters(FilterUpdate{Brand: &other})

	snap := s.Snapshot(context.Background())
	assert.Equal(t, "Audi", snap.Criteria.Brand)
	assert.Empty(t, snap.Criteria.Model)
}

func TestSelectCategoryMappings(t *testing.T) {
	tests := []struct {
		name         string
		tag          string
		wantFuel     []string
		wantBrand    string
		wantMaxPrice int
	}{
		{name: "electric maps to fuel", tag: "electrico", wantFuel: []string{"electrico"}, wantMaxPrice: PriceUnbounded},
		{name: "hybrid maps to fuel", tag: "hibrido", wantFuel: []string{"hibrido"}, wantMaxPrice: PriceUnbounded},
		{name: "budget caps price", tag: "economico", wantMaxPrice: 10000},
		{name: "premium fixes brand", tag: "premium", wantBrand: "Mercedes-Benz", wantMaxPrice: PriceUnbounded},
		{name: "suv is label only", tag: "suv", wantMaxPrice: PriceUnbounded},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(&stubFetcher{}, 12)
			require.True(t, s.SelectCategory(tt.tag))

			snap := s.Snapshot(context.Background())
			assert.Equal(t, tt.tag, snap.Criteria.Category)
			assert.Equal(t, tt.wantFuel, snap.Criteria.Fuel)
			assert.Equal(t, tt.wantBrand, snap.Criteria.Brand)
			assert.Equal(t, tt.wantMaxPrice, snap.Criteria.MaxPrice)
		})
	}
}

func TestSelectCategoryReplacesOtherFilters(t *testing.T) {
	s := NewSession(&stubFetcher{}, 12)
	brand, loc := "Ford", "Madrid"
	s.SetFilters(FilterUpdate{Brand: &brand, Location: &loc})

	s.SelectCategory("economico")

	snap := s.Snapshot(context.Background())
	assert.Empty(t, snap.Criteria.Brand)
	assert.Empty(t, snap.Criteria.Location)
	assert.Equal(t, 10000, snap.Criteria.MaxPrice)
}

func TestReselectingCategoryResetsEverything(t *testing.T) {
	s := NewSession(&stubFetcher{}, 12)
	s.SelectCategory("economico")
	require.True(t, s.SelectCategory("economico"))

	snap := s.Snapshot(context.Background())
	assert.Empty(t, snap.Criteria.Category)
	assert.Equal(t, PriceUnbounded, snap.Criteria.MaxPrice)
	assert.Equal(t, refdata.Sources, snap.Criteria.Sources)
	assert.Equal(t, 1, snap.Cursor.Page)
}

func TestClearFiltersKeepingCategory(t *testing.T) {
	s := NewSession(&stubFetcher{}, 12)
	s.SelectCategory("electrico")

	fetchDue := s.ClearFilters(false)

	assert.False(t, fetchDue)
	snap := s.Snapshot(context.Background())
	assert.Equal(t, "electrico", snap.Criteria.Category)
	assert.Empty(t, snap.Criteria.Fuel)
}

func TestOutOfOrderResponsesAreDiscarded(t *testing.T) {
	s := NewSession(&stubFetcher{}, 12)

	t1 := s.BeginFetch()
	t2 := s.BeginFetch()

	newer := &model.ListingPage{Cars: listingsNamed("newer"), Total: 1}
	older := &model.ListingPage{Cars: listingsNamed("older"), Total: 1}

	out2 := s.Apply(t2.Seq, newer, nil)
	require.NoError(t, out2.Err)
	assert.False(t, out2.Stale)

	out1 := s.Apply(t1.Seq, older, nil)
	assert.True(t, out1.Stale)

	snap := s.Snapshot(context.Background())
	require.Len(t, snap.Listings, 1)
	assert.Equal(t, "newer", snap.Listings[0].ID)
	assert.False(t, snap.Loading)
}

func TestLoadingClearsOnlyWhenNewestResolved(t *testing.T) {
	s := NewSession(&stubFetcher{}, 12)

	t1 := s.BeginFetch()
	s.BeginFetch()

	s.Apply(t1.Seq, &model.ListingPage{}, nil)
	assert.True(t, s.Snapshot(context.Background()).Loading)
}

func TestBootstrapFailureFallsBackToSamples(t *testing.T) {
	s := NewSession(&stubFetcher{err: errors.New("connection refused")}, 12)

	out := s.Refresh(context.Background())

	require.Error(t, out.Err)
	assert.True(t, out.Fallback)
	assert.Equal(t, "Error conectando con el servidor", out.Notice)

	snap := s.Snapshot(context.Background())
	assert.NotEmpty(t, snap.Listings)
	assert.Equal(t, len(snap.Listings), snap.Total)
}

func TestSteadyStateFailureKeepsLastKnownGood(t *testing.T) {
	fetcher := &stubFetcher{pages: map[string]*model.ListingPage{
		"1": {Cars: listingsNamed("good"), Total: 1},
	}}
	s := NewSession(fetcher, 12)
	require.NoError(t, s.Refresh(context.Background()).Err)

	fetcher.err = errors.New("gateway timeout")
	out := s.Refresh(context.Background())

	require.Error(t, out.Err)
	assert.False(t, out.Fallback)
	assert.Equal(t, "Error al cargar coches", out.Notice)

	snap := s.Snapshot(context.Background())
	require.Len(t, snap.Listings, 1)
	assert.Equal(t, "good", snap.Listings[0].ID)
}

func TestStaleErrorDoesNotDisturbState(t *testing.T) {
	s := NewSession(&stubFetcher{}, 12)

	t1 := s.BeginFetch()
	t2 := s.BeginFetch()

	s.Apply(t2.Seq, &model.ListingPage{Cars: listingsNamed("kept"), Total: 1}, nil)
	out := s.Apply(t1.Seq, nil, errors.New("timeout"))

	assert.True(t, out.Stale)
	snap := s.Snapshot(context.Background())
	require.Len(t, snap.Listings, 1)
	assert.Equal(t, "kept", snap.Listings[0].ID)
}

func TestDispatchRoutesIntents(t *testing.T) {
	brand := "Tesla"
	tests := []struct {
		name      string
		intent    Intent
		wantFetch bool
	}{
		{name: "filters", intent: SetFiltersIntent{Update: FilterUpdate{Brand: &brand}}, wantFetch: true},
		{name: "sort", intent: SetSortIntent{Sort: SortKMAsc}, wantFetch: true},
		{name: "invalid sort", intent: SetSortIntent{Sort: SortOrder("bogus")}, wantFetch: false},
		{name: "page", intent: GoToPageIntent{Page: 2}, wantFetch: true},
		{name: "category", intent: SelectCategoryIntent{Tag: "suv"}, wantFetch: true},
		{name: "clear keeping category", intent: ClearFiltersIntent{ResetCategory: false}, wantFetch: false},
		{name: "full clear", intent: ClearFiltersIntent{ResetCategory: true}, wantFetch: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSession(&stubFetcher{}, 12)
			assert.Equal(t, tt.wantFetch, s.Dispatch(tt.intent))
		})
	}
}

func TestSnapshotDoesNotAliasSessionState(t *testing.T) {
	s := NewSession(&stubFetcher{pages: map[string]*model.ListingPage{
		"1": {Cars: listingsNamed("a"), Total: 1},
	}}, 12)
	require.NoError(t, s.Refresh(context.Background()).Err)

	snap := s.Snapshot(context.Background())
	snap.Listings[0].ID = "mutated"
	snap.Criteria.Sources[0] = "mutated"

	again := s.Snapshot(context.Background())
	assert.Equal(t, "a", again.Listings[0].ID)
	assert.Equal(t, refdata.Sources[0], again.Criteria.Sources[0])
}
