package catalogfeed

import (
	"context"
	"sync"
)

// MockClient is a mock catalog feed for testing
type MockClient struct {
	mu         sync.Mutex
	categories []Category
	presets    []Preset
	baseURL    string
	fetchErr   error
	fetches    int
}

// MockOption configures the mock client
type MockOption func(*MockClient)

// WithCategories sets the categories to return
func WithCategories(categories []Category) MockOption {
	return func(m *MockClient) {
		m.categories = categories
	}
}

// WithPresets sets the presets to return
func WithPresets(presets []Preset) MockOption {
	return func(m *MockClient) {
		m.presets = presets
	}
}

// WithFetchError sets an error to return from Fetch
func WithFetchError(err error) MockOption {
	return func(m *MockClient) {
		m.fetchErr = err
	}
}

// WithBaseURL sets the base URL
func WithBaseURL(url string) MockOption {
	return func(m *MockClient) {
		m.baseURL = url
	}
}

// NewMockClient creates a mock feed publishing DefaultMockCategories and no presets
func NewMockClient(opts ...MockOption) *MockClient {
	m := &MockClient{
		baseURL:    "http://mock-feed.local/catalog.json",
		categories: DefaultMockCategories(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// BaseURL returns the configured base URL
func (m *MockClient) BaseURL() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.baseURL
}

// SetBaseURL updates the base URL
func (m *MockClient) SetBaseURL(url string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.baseURL = url
}

// Fetch returns the configured feed or error
func (m *MockClient) Fetch(ctx context.Context) (*Feed, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches++
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	feed := &Feed{Categories: append([]Category(nil), m.categories...)}
	if m.presets != nil {
		feed.Presets = append([]Preset{}, m.presets...)
	}
	return feed, nil
}

// Fetches returns how many times Fetch was called
func (m *MockClient) Fetches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetches
}

// DefaultMockCategories is a small bank sampah price list
func DefaultMockCategories() []Category {
	return []Category{
		{ID: "organik", Name: "Organik", PointsPerKg: 12, Hint: "sisa dapur"},
		{ID: "plastik", Name: "Plastik PET", PointsPerKg: 25, Hint: "botol bening"},
		{ID: "kertas", Name: "Kertas & Kardus", PointsPerKg: 10},
		{ID: "minyak", Name: "Minyak Jelantah", PointsPerKg: 40, Hint: "1 liter ≈ 0,9 kg"},
	}
}

var _ Client = (*MockClient)(nil)
