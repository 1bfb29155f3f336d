package refdata

import (
	"sort"

	"github.com/buscar-app/buscar/internal/model"
)

// StaticBrands returns the bundled taxonomy as Brand values, sorted by name.
func StaticBrands() []model.Brand {
	names := BrandNames()
	brands := make([]model.Brand, 0, len(names))
	for _, name := range names {
		brands = append(brands, model.Brand{Name: name, Models: ModelsFor(name)})
	}
	return brands
}

// MergeBrands overlays backend-provided brands on the bundled taxonomy. The
// backend wins on conflicts; bundled brands the backend does not know survive
// so the catalog never shrinks when the backend is behind.
func MergeBrands(fetched []model.Brand) []model.Brand {
	byName := make(map[string]model.Brand, len(brandModels)+len(fetched))
	for _, b := range StaticBrands() {
		byName[b.Name] = b
	}
	for _, b := range fetched {
		if b.Name == "" {
			continue
		}
		byName[b.Name] = b
	}

	merged := make([]model.Brand, 0, len(byName))
	for _, b := range byName {
		merged = append(merged, b)
	}
	sort.Slice(merged, func(i, j int) bool { return merged[i].Name < merged[j].Name })
	return merged
}
