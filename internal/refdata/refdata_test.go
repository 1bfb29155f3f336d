package refdata

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/buscar-app/buscar/internal/model"
)

func TestCategoryByTag(t *testing.T) {
	tests := []struct {
		name         string
		tag          string
		wantFound    bool
		wantFuel     string
		wantBrand    string
		wantMaxPrice int
	}{
		{name: "electric", tag: "electrico", wantFound: true, wantFuel: "electrico"},
		{name: "hybrid", tag: "hibrido", wantFound: true, wantFuel: "hibrido"},
		{name: "budget", tag: "economico", wantFound: true, wantMaxPrice: 10000},
		{name: "premium", tag: "premium", wantFound: true, wantBrand: "Mercedes-Benz"},
		{name: "suv has no mapping", tag: "suv", wantFound: true},
		{name: "unknown tag", tag: "descapotable", wantFound: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cat, ok := CategoryByTag(tt.tag)
			require.Equal(t, tt.wantFound, ok)
			if !ok {
				return
			}
			assert.Equal(t, tt.wantFuel, cat.Fuel)
			assert.Equal(t, tt.wantBrand, cat.Brand)
			assert.Equal(t, tt.wantMaxPrice, cat.MaxPrice)
		})
	}
}

func TestImageFor(t *testing.T) {
	own := "https://example.com/car.jpg"
	assert.Equal(t, own, ImageFor("BMW", own))

	bmw := ImageFor("BMW", "")
	assert.NotEmpty(t, bmw)
	assert.NotEqual(t, DefaultImage, bmw)

	assert.Equal(t, DefaultImage, ImageFor("Lada", ""))
}

func TestBrandNamesSortedAndComplete(t *testing.T) {
	names := BrandNames()
	require.NotEmpty(t, names)
	assert.True(t, sortedStrings(names))
	assert.Contains(t, names, "Tesla")
	assert.Contains(t, names, "SEAT")
}

func sortedStrings(s []string) bool {
	for i := 1; i < len(s); i++ {
		if s[i-1] > s[i] {
			return false
		}
	}
	return true
}

func TestModelsForReturnsCopy(t *testing.T) {
	first := ModelsFor("BMW")
	require.NotEmpty(t, first)
	first[0] = "mutated"

	again := ModelsFor("BMW")
	assert.NotEqual(t, "mutated", again[0])

	assert.Nil(t, ModelsFor("Lada"))
}

func TestMergeBrands(t *testing.T) {
	fetched := []model.Brand{
		{Name: "BMW", Models: []string{"Serie 3", "Serie 9"}},
		{Name: "Dacia", Models: []string{"Sandero", "Duster"}},
		{Name: ""},
	}

	merged := MergeBrands(fetched)

	byName := make(map[string]model.Brand, len(merged))
	for _, b := range merged {
		byName[b.Name] = b
	}

	// Backend wins on conflicts.
	assert.Contains(t, byName["BMW"].Models, "Serie 9")
	// Backend-only brands are added.
	assert.Contains(t, byName["Dacia"].Models, "Sandero")
	// Bundled brands the backend omitted survive.
	assert.NotEmpty(t, byName["Tesla"].Models)
	// Empty names are dropped.
	_, ok := byName[""]
	assert.False(t, ok)

	assert.True(t, sortedBrandNames(merged))
}

func sortedBrandNames(brands []model.Brand) bool {
	for i := 1; i < len(brands); i++ {
		if brands[i-1].Name > brands[i].Name {
			return false
		}
	}
	return true
}

func TestSampleListings(t *testing.T) {
	cars := SampleListings(200)
	require.Len(t, cars, 200)

	seen := make(map[string]bool, len(cars))
	for _, car := range cars {
		assert.True(t, strings.HasPrefix(car.ID, "sample-"), "id %s", car.ID)
		assert.False(t, seen[car.ID], "duplicate id %s", car.ID)
		seen[car.ID] = true

		assert.Contains(t, ModelsFor(car.Brand), car.Model)
		assert.Equal(t, car.Brand+" "+car.Model, car.FullName)
		assert.Greater(t, car.Price, 0)
		assert.Zero(t, car.Price%100, "price %d not rounded to hundreds", car.Price)
		assert.GreaterOrEqual(t, car.Year, 2015)
		assert.LessOrEqual(t, car.Year, 2025)
		assert.NotEmpty(t, car.Image)
	}

	for i := 1; i < len(cars); i++ {
		assert.False(t, cars[i-1].ScrapedAt.Before(cars[i].ScrapedAt),
			"listings not sorted newest first at index %d", i)
	}
}

func TestSampleListingsFieldsAreDeterministic(t *testing.T) {
	a := SampleListings(50)
	b := SampleListings(50)

	got := make(map[string]int, len(a))
	for _, c := range a {
		got[c.ID] = c.Price
	}
	for _, c := range b {
		assert.Equal(t, got[c.ID], c.Price, "price for %s differs between runs", c.ID)
	}
}
