// Package model defines the domain types shared across the application.
package model

import "time"

// CarListing is one aggregated marketplace offer. The ID is stable across
// requests and is the only key used for favorite and compare membership.
type CarListing struct {
	ScrapedAt    time.Time `json:"scraped_at"`
	ID           string    `json:"id"`
	Brand        string    `json:"brand"`
	Model        string    `json:"model"`
	Fuel         string    `json:"fuel"`
	Transmission string    `json:"transmission"`
	Location     string    `json:"location"`
	Source       string    `json:"source"`
	SellerType   string    `json:"seller_type"`
	ImageURL     string    `json:"image_url"`
	URL          string    `json:"url"`

	// Derived during normalization, never sent by the backend.
	FullName string `json:"-"`
	Image    string `json:"-"`

	Year       int  `json:"year"`
	Price      int  `json:"price"`
	KM         int  `json:"km"`
	Power      int  `json:"power"` // 0 when the source did not report it
	Negotiable bool `json:"negotiable"`
	Warranty   bool `json:"warranty"`
}

// SellerType values as reported by the aggregator.
const (
	SellerPrivate      = "particular"
	SellerProfessional = "profesional"
)

// ListingPage is one page of search results. A new page always replaces the
// previous one wholesale; pages are never merged.
type ListingPage struct {
	Cars  []CarListing `json:"cars"`
	Total int          `json:"total"`
}

// PageCount derives the number of pages for the given page size.
func (p *ListingPage) PageCount(perPage int) int {
	if perPage <= 0 || p.Total <= 0 {
		return 0
	}
	return (p.Total + perPage - 1) / perPage
}
