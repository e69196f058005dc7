// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/desertthunder/flix/internal/models"
	"github.com/desertthunder/flix/internal/services"
)

var _ services.Catalog = (*MockCatalog)(nil)

// MockCatalog is a test double for [services.Catalog].
//
// Responses are looked up by call name: "trending", "popular/movie", "top_rated/tv", "now_playing",
// "upcoming", "search", "discover", "genres", "details/movie/27205", "credits/tv/1396".
// A missing page yields an empty page; a missing details record yields [ErrMockNotFound].
type MockCatalog struct {
	mu      sync.Mutex
	Pages   map[string]*models.Page
	Records map[string]*models.Details // details by call name
	Genre   []models.Genre
	Errs    map[string]error // per call name
	Err     error            // returned by every call when set
	Gate    chan struct{}    // when non-nil, calls block until it is closed or ctx ends
	calls   []string
}

var ErrMockNotFound = errors.New("mock: not found")

// NewMockCatalog creates a catalog serving pages by call name.
func NewMockCatalog(pages map[string]*models.Page) *MockCatalog {
	if pages == nil {
		pages = map[string]*models.Page{}
	}
	return &MockCatalog{Pages: pages, Records: map[string]*models.Details{}, Errs: map[string]error{}}
}

// Calls returns the recorded call names in order.
func (m *MockCatalog) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func (m *MockCatalog) enter(ctx context.Context, name string) error {
	m.mu.Lock()
	m.calls = append(m.calls, name)
	gate, err := m.Gate, m.Err
	if e, ok := m.Errs[name]; ok {
		err = e
	}
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return err
}

func (m *MockCatalog) page(ctx context.Context, name string) (*models.Page, error) {
	if err := m.enter(ctx, name); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if p, ok := m.Pages[name]; ok {
		return p, nil
	}
	return &models.Page{Page: 1, Results: []models.MediaItem{}}, nil
}

func (m *MockCatalog) Trending(ctx context.Context, page int) (*models.Page, error) {
	return m.page(ctx, "trending")
}

func (m *MockCatalog) Popular(ctx context.Context, kind models.MediaKind, page int) (*models.Page, error) {
	return m.page(ctx, "popular/"+string(kind))
}

func (m *MockCatalog) TopRated(ctx context.Context, kind models.MediaKind, page int) (*models.Page, error) {
	return m.page(ctx, "top_rated/"+string(kind))
}

func (m *MockCatalog) NowPlaying(ctx context.Context, page int) (*models.Page, error) {
	return m.page(ctx, "now_playing")
}

func (m *MockCatalog) Upcoming(ctx context.Context, page int) (*models.Page, error) {
	return m.page(ctx, "upcoming")
}

func (m *MockCatalog) Search(ctx context.Context, query string, page int) (*models.Page, error) {
	return m.page(ctx, "search")
}

func (m *MockCatalog) Discover(ctx context.Context, opts services.DiscoverOptions) (*models.Page, error) {
	return m.page(ctx, "discover")
}

func (m *MockCatalog) Genres(ctx context.Context) ([]models.Genre, error) {
	if err := m.enter(ctx, "genres"); err != nil {
		return nil, err
	}
	return m.Genre, nil
}

func (m *MockCatalog) Details(ctx context.Context, kind models.MediaKind, id int) (*models.Details, error) {
	name := fmt.Sprintf("details/%s/%d", kind, id)
	if err := m.enter(ctx, name); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.Records[name]; ok {
		return d, nil
	}
	return nil, ErrMockNotFound
}

func (m *MockCatalog) Credits(ctx context.Context, kind models.MediaKind, id int) (*models.Credits, error) {
	name := fmt.Sprintf("credits/%s/%d", kind, id)
	if err := m.enter(ctx, name); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if d, ok := m.Records[fmt.Sprintf("details/%s/%d", kind, id)]; ok && d.Credits != nil {
		return d.Credits, nil
	}
	return &models.Credits{}, nil
}

// Items builds n movie summaries with ids starting at first.
func Items(first, n int, kind models.MediaKind) []models.MediaItem {
	items := make([]models.MediaItem, n)
	for i := range items {
		id := first + i
		items[i] = models.MediaItem{ID: id, MediaType: kind, VoteAverage: 7.5, ReleaseDate: "2020-01-01"}
		if kind == models.KindTV {
			items[i].Name = fmt.Sprintf("Series %d", id)
			items[i].ReleaseDate, items[i].FirstAirDate = "", "2019-05-05"
		} else {
			items[i].Title = fmt.Sprintf("Movie %d", id)
		}
	}
	return items
}

// PageOf wraps items in a single page.
func PageOf(items []models.MediaItem) *models.Page {
	return &models.Page{Page: 1, Results: items, TotalPages: 1, TotalResults: len(items)}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing and counts requests.
type MockRoundTripper struct {
	response *http.Response
	err      error
	hits     atomic.Int64
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	m.hits.Add(1)
	return m.response, m.err
}

// Hits is the number of requests that reached the transport.
func (m *MockRoundTripper) Hits() int {
	return int(m.hits.Load())
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
