// Package api implements the REST client for the aggregator backend. Raw
// responses are normalized into model types before they leave this package.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/buscar-app/buscar/internal/common"
	"github.com/buscar-app/buscar/internal/model"
	"github.com/buscar-app/buscar/internal/refdata"
)

// Client talks to the aggregator REST API.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// NewClient creates a client for the given base URL, e.g.
// "http://localhost:8000/api". The timeout bounds every request; a timeout is
// treated as any other transient failure.
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Backend wire types. The backend sends integer ids, float prices and naive
// timestamps; everything is converted during normalization.
type carPayload struct {
	Brand        string  `json:"brand"`
	Model        string  `json:"model"`
	Fuel         string  `json:"fuel"`
	Transmission string  `json:"transmission"`
	Location     string  `json:"location"`
	Source       string  `json:"source"`
	SellerType   string  `json:"seller_type"`
	URL          string  `json:"url"`
	ScrapedAt    string  `json:"scraped_at"`
	ImageURL     *string `json:"image_url"`
	Power        *int    `json:"power"`
	ID           int64   `json:"id"`
	Price        float64 `json:"price"`
	Year         int     `json:"year"`
	KM           int     `json:"km"`
	Negotiable   bool    `json:"negotiable"`
	Warranty     bool    `json:"warranty"`
}

type carListPayload struct {
	Cars  []carPayload `json:"cars"`
	Total int          `json:"total"`
}

type alertPayload struct {
	Email     string  `json:"email"`
	Brand     string  `json:"brand"`
	CreatedAt string  `json:"created_at"`
	Model     *string `json:"model"`
	Fuel      *string `json:"fuel"`
	MinYear   *int    `json:"min_year"`
	MaxKM     *int    `json:"max_km"`
	ID        int64   `json:"id"`
	MaxPrice  float64 `json:"max_price"`
}

// GetBrands fetches the brand taxonomy. Called once at startup, wrapped in a
// retry because a cold backend is the most common transient failure here.
func (c *Client) GetBrands(ctx context.Context) ([]model.Brand, error) {
	var brands []model.Brand
	err := common.WithRetry(ctx, func() error {
		return c.getJSON(ctx, c.baseURL+"/brands", nil, &brands)
	}, common.RetryOptions{MaxAttempts: 3})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch brands: %w", err)
	}
	return brands, nil
}

// Search executes a listing query. The params come straight from the session's
// query encoding; the response replaces the caller's page wholesale.
func (c *Client) Search(ctx context.Context, params url.Values) (*model.ListingPage, error) {
	var payload carListPayload
	if err := c.getJSON(ctx, c.baseURL+"/cars", params, &payload); err != nil {
		return nil, err
	}

	slog.Debug("Fetched listings", "count", len(payload.Cars), "total", payload.Total, "query", params.Encode())

	page := &model.ListingPage{
		Cars:  make([]model.CarListing, 0, len(payload.Cars)),
		Total: payload.Total,
	}
	for _, raw := range payload.Cars {
		page.Cars = append(page.Cars, normalizeCar(raw))
	}
	return page, nil
}

// GetCar fetches one listing by id. A missing or stale id resolves to
// common.ErrNotFound.
func (c *Client) GetCar(ctx context.Context, id string) (*model.CarListing, error) {
	var payload carPayload
	if err := c.getJSON(ctx, c.baseURL+"/cars/"+url.PathEscape(id), nil, &payload); err != nil {
		return nil, err
	}
	car := normalizeCar(payload)
	return &car, nil
}

// ListAlerts fetches the price alerts owned by the anonymous user id.
func (c *Client) ListAlerts(ctx context.Context, userID string) ([]model.PriceAlert, error) {
	params := url.Values{}
	params.Set("user_id", userID)

	var payload []alertPayload
	if err := c.getJSON(ctx, c.baseURL+"/alerts", params, &payload); err != nil {
		return nil, err
	}

	alerts := make([]model.PriceAlert, 0, len(payload))
	for _, raw := range payload {
		alerts = append(alerts, normalizeAlert(raw))
	}
	return alerts, nil
}

// CreateAlert submits a new price alert. Validation happens at the command
// boundary; by the time a request reaches here it is well-formed.
func (c *Client) CreateAlert(ctx context.Context, userID string, req model.AlertRequest) (*model.PriceAlert, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode alert: %w", err)
	}

	u := c.baseURL + "/alerts?user_id=" + url.QueryEscape(userID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, u, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrBackendUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, statusError(resp)
	}

	var payload alertPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrBadResponse, err)
	}
	alert := normalizeAlert(payload)
	return &alert, nil
}

// DeleteAlert removes an alert owned by the anonymous user id.
func (c *Client) DeleteAlert(ctx context.Context, id int64, userID string) error {
	u := fmt.Sprintf("%s/alerts/%d?user_id=%s", c.baseURL, id, url.QueryEscape(userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, u, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrBackendUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return statusError(resp)
	}
	return nil
}

// getJSON performs a GET and decodes the body into out.
func (c *Client) getJSON(ctx context.Context, rawURL string, params url.Values, out any) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("failed to parse URL: %w", err)
	}
	if params != nil {
		u.RawQuery = params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", common.ErrBackendUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return statusError(resp)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %v", common.ErrBadResponse, err)
	}
	return nil
}

func statusError(resp *http.Response) error {
	if resp.StatusCode == http.StatusNotFound {
		return common.ErrNotFound
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: API error %d - %s", common.ErrBackendUnavailable, resp.StatusCode, string(body))
	}
	return fmt.Errorf("API error: %d - %s", resp.StatusCode, string(body))
}

// normalizeCar augments a raw listing with its derived display name, resolved
// image and parsed timestamp.
func normalizeCar(raw carPayload) model.CarListing {
	imageURL := ""
	if raw.ImageURL != nil {
		imageURL = *raw.ImageURL
	}
	power := 0
	if raw.Power != nil {
		power = *raw.Power
	}
	return model.CarListing{
		ID:           strconv.FormatInt(raw.ID, 10),
		Brand:        raw.Brand,
		Model:        raw.Model,
		FullName:     raw.Brand + " " + raw.Model,
		Year:         raw.Year,
		Price:        int(raw.Price),
		KM:           raw.KM,
		Fuel:         raw.Fuel,
		Transmission: raw.Transmission,
		Power:        power,
		Location:     raw.Location,
		Source:       raw.Source,
		SellerType:   raw.SellerType,
		ImageURL:     imageURL,
		Image:        refdata.ImageFor(raw.Brand, imageURL),
		URL:          raw.URL,
		ScrapedAt:    parseTimestamp(raw.ScrapedAt),
		Negotiable:   raw.Negotiable,
		Warranty:     raw.Warranty,
	}
}

func normalizeAlert(raw alertPayload) model.PriceAlert {
	return model.PriceAlert{
		ID:        raw.ID,
		Email:     raw.Email,
		Brand:     raw.Brand,
		Model:     raw.Model,
		Fuel:      raw.Fuel,
		MinYear:   raw.MinYear,
		MaxKM:     raw.MaxKM,
		MaxPrice:  int(raw.MaxPrice),
		CreatedAt: parseTimestamp(raw.CreatedAt),
	}
}

// parseTimestamp accepts both RFC3339 and the backend's zone-less format. A
// value that parses as neither yields the zero time rather than an error;
// a missing timestamp is cosmetic, not fatal.
func parseTimestamp(s string) time.Time {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts
	}
	if ts, err := time.Parse("2006-01-02T15:04:05", s); err == nil {
		return ts
	}
	return time.Time{}
}
