// Package browse holds the search session: the single current filter
// criteria and pagination cursor, the operations that mutate them in response
// to user intents, and the fetch lifecycle that keeps the listing view
// consistent with the newest issued query.
package browse

import (
	"net/url"
	"strconv"
	"strings"
)

// PriceUnbounded is the sentinel meaning "no price limit". A max price at or
// above this value is omitted from the query entirely.
const PriceUnbounded = 100000

// SortOrder is a listing sort, carried on the wire verbatim.
type SortOrder string

// Supported sort orders.
const (
	SortDateDesc  SortOrder = "date-desc"
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
	SortYearDesc  SortOrder = "year-desc"
	SortKMAsc     SortOrder = "km-asc"
)

// ValidSort reports whether o is a known sort order.
func ValidSort(o SortOrder) bool {
	switch o {
	case SortDateDesc, SortPriceAsc, SortPriceDesc, SortYearDesc, SortKMAsc:
		return true
	}
	return false
}

// FilterCriteria is the full set of user-chosen constraints. Empty multi-value
// fields mean "no restriction", never "exclude all". Model is only meaningful
// while Brand is set.
type FilterCriteria struct {
	Brand        string
	Model        string
	Location     string
	Search       string
	Category     string
	Sources      []string
	Fuel         []string
	Transmission []string
	MaxPrice     int
	YearMin      int
}

// Cursor is the pagination and sort position, independent of filter content.
type Cursor struct {
	Sort    SortOrder
	Page    int
	PerPage int
}

// DefaultCriteria returns the all-default criteria: every known source
// enabled, unbounded price, nothing else restricted.
func DefaultCriteria(sources []string) FilterCriteria {
	src := make([]string, len(sources))
	copy(src, sources)
	return FilterCriteria{
		Sources:  src,
		MaxPrice: PriceUnbounded,
	}
}

// FilterUpdate is a partial criteria change; nil fields are left untouched.
type FilterUpdate struct {
	Brand        *string
	Model        *string
	Location     *string
	Search       *string
	MaxPrice     *int
	YearMin      *int
	Sources      *[]string
	Fuel         *[]string
	Transmission *[]string
}

// merge applies the update in place. Changing or clearing the brand drops any
// model carried over from the previous brand unless the update names one.
func (c *FilterCriteria) merge(u FilterUpdate) {
	if u.Brand != nil && *u.Brand != c.Brand {
		c.Brand = *u.Brand
		c.Model = ""
	}
	if u.Model != nil {
		c.Model = *u.Model
	}
	if c.Brand == "" {
		c.Model = ""
	}
	if u.Location != nil {
		c.Location = *u.Location
	}
	if u.Search != nil {
		c.Search = *u.Search
	}
	if u.MaxPrice != nil {
		c.MaxPrice = *u.MaxPrice
	}
	if u.YearMin != nil {
		c.YearMin = *u.YearMin
	}
	if u.Sources != nil {
		c.Sources = append([]string(nil), (*u.Sources)...)
	}
	if u.Fuel != nil {
		c.Fuel = append([]string(nil), (*u.Fuel)...)
	}
	if u.Transmission != nil {
		c.Transmission = append([]string(nil), (*u.Transmission)...)
	}
}

// clone returns a deep copy so snapshots cannot alias session state.
func (c FilterCriteria) clone() FilterCriteria {
	out := c
	out.Sources = append([]string(nil), c.Sources...)
	out.Fuel = append([]string(nil), c.Fuel...)
	out.Transmission = append([]string(nil), c.Transmission...)
	return out
}

// Values encodes criteria and cursor as query parameters. Page, per_page and
// sort are always present; every other field is omitted when unset, and the
// price cap is omitted at the unbounded sentinel. Multi-value fields are
// comma-joined.
func (c FilterCriteria) Values(cur Cursor) url.Values {
	params := url.Values{}
	params.Set("page", strconv.Itoa(cur.Page))
	params.Set("per_page", strconv.Itoa(cur.PerPage))
	params.Set("sort", string(cur.Sort))

	if c.Brand != "" {
		params.Set("brand", c.Brand)
	}
	if c.Model != "" {
		params.Set("model", c.Model)
	}
	if c.MaxPrice < PriceUnbounded {
		params.Set("max_price", strconv.Itoa(c.MaxPrice))
	}
	if c.YearMin > 0 {
		params.Set("min_year", strconv.Itoa(c.YearMin))
	}
	if c.Location != "" {
		params.Set("location", c.Location)
	}
	if len(c.Sources) > 0 {
		params.Set("sources", strings.Join(c.Sources, ","))
	}
	if len(c.Fuel) > 0 {
		params.Set("fuel", strings.Join(c.Fuel, ","))
	}
	if len(c.Transmission) > 0 {
		params.Set("transmission", strings.Join(c.Transmission, ","))
	}
	if c.Search != "" {
		params.Set("search", c.Search)
	}
	return params
}
