package model

// Brand is one manufacturer with its known model names, as served by the
// aggregator's /brands endpoint.
type Brand struct {
	Name   string   `json:"name"`
	Models []string `json:"models"`
}
