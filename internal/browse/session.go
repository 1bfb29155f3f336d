package browse

import (
	"context"
	"log/slog"
	"net/url"

	"github.com/buscar-app/buscar/internal/model"
	"github.com/buscar-app/buscar/internal/refdata"
)

// Fetcher executes a listing query against the backend.
type Fetcher interface {
	Search(ctx context.Context, params url.Values) (*model.ListingPage, error)
}

// Membership exposes read-only favorite/compare lookups for snapshots. The
// preference store remains the single source of truth; the session never
// writes through this interface.
type Membership interface {
	IsFavorite(ctx context.Context, id string) (bool, error)
	InCompare(ctx context.Context, id string) (bool, error)
}

// sampleFallbackSize matches the size of the original bundled dataset.
const sampleFallbackSize = 200

// Session owns the one current (criteria, cursor) pair plus the fetched
// listing view. All mutation goes through its operations; the presentation
// layer works from Snapshot values. The session itself is confined to a
// single logical thread of control: in the TUI everything runs inside the
// update loop, and CLI commands are sequential.
type Session struct {
	fetcher  Fetcher
	prefs    Membership
	criteria FilterCriteria
	cursor   Cursor
	listings []model.CarListing
	total    int

	// Fetch ordering guard. Responses are applied in the order their
	// requests were issued; anything at or below appliedSeq is stale.
	issuedSeq  uint64
	appliedSeq uint64

	loading      bool
	bootstrapped bool
}

// NewSession creates a session with default criteria and cursor.
func NewSession(fetcher Fetcher, perPage int) *Session {
	if perPage <= 0 {
		perPage = 12
	}
	return &Session{
		fetcher:  fetcher,
		criteria: DefaultCriteria(refdata.Sources),
		cursor: Cursor{
			Page:    1,
			PerPage: perPage,
			Sort:    SortDateDesc,
		},
	}
}

// AttachPrefs wires a membership reader into snapshots.
func (s *Session) AttachPrefs(m Membership) {
	s.prefs = m
}

// Dispatch routes a typed intent to its operation and reports whether the
// caller should issue a fetch.
func (s *Session) Dispatch(intent Intent) bool {
	switch in := intent.(type) {
	case SetFiltersIntent:
		return s.SetFilters(in.Update)
	case SetSortIntent:
		return s.SetSort(in.Sort)
	case GoToPageIntent:
		return s.GoToPage(in.Page)
	case SelectCategoryIntent:
		return s.SelectCategory(in.Tag)
	case ClearFiltersIntent:
		return s.ClearFilters(in.ResetCategory)
	}
	return false
}

// SetFilters merges a partial update. Any filter change invalidates the
// current pagination, so the page always resets to 1.
func (s *Session) SetFilters(u FilterUpdate) bool {
	s.criteria.merge(u)
	s.cursor.Page = 1
	return true
}

// SetSort changes the sort order only. The page is deliberately kept; if it
// now lies past the end of the result set the backend returns an empty page,
// which the session tolerates.
func (s *Session) SetSort(o SortOrder) bool {
	if !ValidSort(o) {
		return false
	}
	s.cursor.Sort = o
	return true
}

// GoToPage moves the cursor. Pages below 1 are clamped; no upper bound is
// enforced here, an out-of-range page simply yields zero results.
func (s *Session) GoToPage(n int) bool {
	if n < 1 {
		n = 1
	}
	s.cursor.Page = n
	return true
}

// SelectCategory toggles a browse category. Re-selecting the active category
// is a full reset. Selecting a new one clears every other filter first, then
// applies the category's fixed mapping.
func (s *Session) SelectCategory(tag string) bool {
	if s.criteria.Category == tag {
		return s.ClearFilters(true)
	}

	s.ClearFilters(false)
	s.criteria.Category = tag

	if cat, ok := refdata.CategoryByTag(tag); ok {
		if cat.Fuel != "" {
			s.criteria.Fuel = []string{cat.Fuel}
		}
		if cat.MaxPrice > 0 {
			s.criteria.MaxPrice = cat.MaxPrice
		}
		if cat.Brand != "" {
			s.criteria.Brand = cat.Brand
		}
	}

	s.cursor.Page = 1
	return true
}

// ClearFilters restores default criteria. With resetCategory the active
// category is dropped too and a fetch is due; without it the category is kept
// and no fetch is triggered, which lets SelectCategory reset state without a
// redundant round trip.
func (s *Session) ClearFilters(resetCategory bool) bool {
	category := s.criteria.Category
	s.criteria = DefaultCriteria(refdata.Sources)
	if resetCategory {
		s.cursor.Page = 1
		return true
	}
	s.criteria.Category = category
	return false
}

// Ticket identifies one issued fetch.
type Ticket struct {
	Params url.Values
	Seq    uint64
}

// Outcome describes how a completed fetch affected the session.
type Outcome struct {
	Err      error
	Notice   string // user-visible transient message, empty when none
	Stale    bool   // response superseded by a newer request, discarded
	Fallback bool   // bundled sample data now shown (bootstrap failure only)
}

// BeginFetch stamps a new request with the next sequence number and captures
// the query for the current criteria and cursor.
func (s *Session) BeginFetch() Ticket {
	s.issuedSeq++
	s.loading = true
	return Ticket{
		Seq:    s.issuedSeq,
		Params: s.criteria.Values(s.cursor),
	}
}

// Apply resolves a completed fetch. Responses whose sequence number is not
// greater than the last resolved one are discarded, so a slow response to an
// old query can never overwrite the view produced by a newer one. Failures
// resolve to a defined state: the bundled sample dataset on a bootstrap
// failure, the last-known-good listings otherwise.
func (s *Session) Apply(seq uint64, page *model.ListingPage, err error) Outcome {
	if seq <= s.appliedSeq {
		slog.Debug("Discarding stale fetch response", "seq", seq, "applied_seq", s.appliedSeq)
		return Outcome{Stale: true}
	}
	s.appliedSeq = seq
	if s.appliedSeq >= s.issuedSeq {
		s.loading = false
	}

	if err != nil {
		slog.Warn("Listing fetch failed", "seq", seq, "error", err)
		if !s.bootstrapped {
			samples := refdata.SampleListings(sampleFallbackSize)
			s.listings = samples
			s.total = len(samples)
			s.bootstrapped = true
			return Outcome{
				Err:      err,
				Fallback: true,
				Notice:   "Error conectando con el servidor",
			}
		}
		return Outcome{
			Err:    err,
			Notice: "Error al cargar coches",
		}
	}

	s.listings = page.Cars
	s.total = page.Total
	s.bootstrapped = true
	return Outcome{}
}

// Refresh is the synchronous fetch path used by one-shot CLI commands:
// BeginFetch, execute, Apply.
func (s *Session) Refresh(ctx context.Context) Outcome {
	t := s.BeginFetch()
	page, err := s.fetcher.Search(ctx, t.Params)
	return s.Apply(t.Seq, page, err)
}
