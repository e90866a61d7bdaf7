// Package catalogfeed provides a client for a waste-program catalog feed: a
// JSON document published by a bank sampah or municipality listing the
// reportable categories, their point rates and quick-report presets.
package catalogfeed

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/abrezinsky/ecoheroes/internal/catalog"
	"github.com/abrezinsky/ecoheroes/internal/logger"
)

// FlexFloat is a float64 that can be unmarshaled from either a number or a
// numeric string. Some feeds publish rates as "15" instead of 15.
type FlexFloat float64

// UnmarshalJSON implements json.Unmarshaler for FlexFloat
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = 0
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		*f = FlexFloat(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := strconv.ParseFloat(strings.TrimSpace(strings.Replace(s, ",", ".", 1)), 64)
		if err != nil {
			return fmt.Errorf("FlexFloat: cannot parse %q", s)
		}
		*f = FlexFloat(v)
		return nil
	}

	return fmt.Errorf("FlexFloat: cannot unmarshal %s", string(data))
}

// Category is one waste category as published by the feed
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	PointsPerKg FlexFloat `json:"points_per_kg"`
	Hint        string    `json:"hint"`
}

// PresetItem is a category/weight pair inside a feed preset
type PresetItem struct {
	CategoryID string    `json:"category_id"`
	WeightKg   FlexFloat `json:"weight_kg"`
}

// Preset is a named quick-report shortcut
type Preset struct {
	Name  string       `json:"name"`
	Items []PresetItem `json:"items"`
}

// Outcome is the status envelope a feed returns on failure
type Outcome struct {
	Summary     string `json:"summary"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// Feed is the full catalog document. A nil Presets means the feed did not
// publish any and the built-in presets apply.
type Feed struct {
	Categories []Category `json:"categories"`
	Presets    []Preset   `json:"presets"`
	Outcome    *Outcome   `json:"outcome,omitempty"`
}

// Catalog converts the feed into a validated catalog
func (f *Feed) Catalog() (*catalog.Catalog, error) {
	cats := make([]catalog.WasteCategory, len(f.Categories))
	for i, c := range f.Categories {
		cats[i] = catalog.WasteCategory{
			ID:           strings.TrimSpace(c.ID),
			DisplayName:  strings.TrimSpace(c.Name),
			PointsPerKg:  float64(c.PointsPerKg),
			EstimateHint: c.Hint,
		}
	}

	if f.Presets == nil {
		return catalog.WithDefaultPresets(cats)
	}
	presets := make([]catalog.Preset, len(f.Presets))
	for i, p := range f.Presets {
		presets[i] = catalog.Preset{Name: p.Name}
		for _, item := range p.Items {
			presets[i].Items = append(presets[i].Items, catalog.PresetItem{
				CategoryID: item.CategoryID,
				WeightKg:   float64(item.WeightKg),
			})
		}
	}
	return catalog.New(cats, presets)
}

// Client defines the interface for catalog feed operations
type Client interface {
	// Fetch retrieves the current catalog document
	Fetch(ctx context.Context) (*Feed, error)
	// BaseURL returns the configured feed URL
	BaseURL() string
	// SetBaseURL updates the feed URL
	SetBaseURL(url string)
}

// HTTPClient fetches the feed over HTTP
type HTTPClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        logger.Logger
}

// NewHTTPClient creates a new feed client
func NewHTTPClient(baseURL string, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}
}

// NewHTTPClientWithHTTPClient creates a new feed client with a custom http.Client
func NewHTTPClientWithHTTPClient(baseURL string, httpClient *http.Client, log logger.Logger) *HTTPClient {
	return &HTTPClient{
		baseURL:    baseURL,
		httpClient: httpClient,
		log:        log,
	}
}

// BaseURL returns the configured feed URL
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

// SetBaseURL updates the feed URL
func (c *HTTPClient) SetBaseURL(url string) {
	c.baseURL = url
}

// SetToken configures a bearer token sent with every request
func (c *HTTPClient) SetToken(token string) {
	c.token = token
}

// Fetch retrieves the catalog document. A failure outcome in the body is
// reported as an error even with a 200 status.
func (c *HTTPClient) Fetch(ctx context.Context) (*Feed, error) {
	c.log.Debug("Catalog feed request", "method", "GET", "url", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to catalog feed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	c.log.Debug("Catalog feed response", "status", resp.StatusCode, "bytes", len(body))

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("catalog feed returned status %d", resp.StatusCode)
	}

	var feed Feed
	if err := json.Unmarshal(body, &feed); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if feed.Outcome != nil && feed.Outcome.Summary == "failure" {
		return nil, fmt.Errorf("catalog feed error: %s (%s)", feed.Outcome.Description, feed.Outcome.Code)
	}
	if len(feed.Categories) == 0 {
		return nil, fmt.Errorf("catalog feed has no categories")
	}

	c.log.Info("Catalog feed loaded", "categories", len(feed.Categories), "presets", len(feed.Presets))
	return &feed, nil
}

// Load fetches the feed and converts it into a catalog
func Load(ctx context.Context, client Client) (*catalog.Catalog, error) {
	feed, err := client.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	return feed.Catalog()
}

// Ensure HTTPClient implements Client
var _ Client = (*HTTPClient)(nil)
