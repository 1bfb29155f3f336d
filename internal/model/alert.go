package model

import "time"

// PriceAlert is a saved search a user wants to be notified about. Alerts are
// created and deleted but never edited; ownership is scoped by the anonymous
// user id, not by authentication.
type PriceAlert struct {
	CreatedAt time.Time `json:"created_at"`
	Email     string    `json:"email"`
	Brand     string    `json:"brand"`
	Model     *string   `json:"model,omitempty"`
	Fuel      *string   `json:"fuel,omitempty"`
	MinYear   *int      `json:"min_year,omitempty"`
	MaxKM     *int      `json:"max_km,omitempty"`
	ID        int64     `json:"id"`
	MaxPrice  int       `json:"max_price"`
}

// AlertRequest is the creation payload for POST /alerts. Optional fields are
// omitted from the wire entirely rather than sent as zero values.
type AlertRequest struct {
	Email    string  `json:"email"`
	Brand    string  `json:"brand"`
	Model    *string `json:"model,omitempty"`
	Fuel     *string `json:"fuel,omitempty"`
	MinYear  *int    `json:"min_year,omitempty"`
	MaxKM    *int    `json:"max_km,omitempty"`
	MaxPrice int     `json:"max_price"`
}
