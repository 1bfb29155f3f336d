package browse

import (
	"context"

	"github.com/buscar-app/buscar/internal/model"
)

// Snapshot is the read-only view the presentation layer renders from. It
// carries copies, never references into session state.
type Snapshot struct {
	Favorites map[string]bool
	Compare   map[string]bool
	Criteria  FilterCriteria
	Listings  []model.CarListing
	Cursor    Cursor
	Total     int
	Pages     int
	Loading   bool
}

// Snapshot captures the current session state. Preference membership is
// filled in best-effort when a store is attached; a failing lookup leaves the
// listing unmarked rather than failing the render.
func (s *Session) Snapshot(ctx context.Context) Snapshot {
	listings := make([]model.CarListing, len(s.listings))
	copy(listings, s.listings)

	snap := Snapshot{
		Criteria:  s.criteria.clone(),
		Cursor:    s.cursor,
		Listings:  listings,
		Total:     s.total,
		Loading:   s.loading,
		Favorites: make(map[string]bool, len(listings)),
		Compare:   make(map[string]bool, len(listings)),
	}
	if s.cursor.PerPage > 0 {
		snap.Pages = (s.total + s.cursor.PerPage - 1) / s.cursor.PerPage
	}

	if s.prefs != nil {
		for _, car := range listings {
			if fav, err := s.prefs.IsFavorite(ctx, car.ID); err == nil && fav {
				snap.Favorites[car.ID] = true
			}
			if cmp, err := s.prefs.InCompare(ctx, car.ID); err == nil && cmp {
				snap.Compare[car.ID] = true
			}
		}
	}
	return snap
}
