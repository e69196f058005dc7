// TMDB v3 API implementation of [Catalog]
//
// Response types based on https://developer.themoviedb.org/reference/intro/getting-started
package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/flix/internal/models"
	"github.com/desertthunder/flix/internal/shared"
	"github.com/goccy/go-json"
	"golang.org/x/oauth2"
)

const (
	tmdbBaseURL      = "https://api.themoviedb.org/3"
	tmdbImageBaseURL = "https://image.tmdb.org/t/p"
	defaultSort      = "popularity.desc"
)

// APIError is a non-success response from TMDB.
type APIError struct {
	StatusCode int
	Path       string
	Message    string // TMDB status_message, when the body carried one
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("TMDB API error: %s: status %d: %s", e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("TMDB API error: %s: status %d", e.Path, e.StatusCode)
}

// Unwrap exposes [shared.ErrAPIRequest], plus [shared.ErrNotFound] for 404s.
func (e *APIError) Unwrap() []error {
	if e.StatusCode == http.StatusNotFound {
		return []error{shared.ErrAPIRequest, shared.ErrNotFound}
	}
	return []error{shared.ErrAPIRequest}
}

type tmdbStatus struct {
	StatusCode    int    `json:"status_code"`
	StatusMessage string `json:"status_message"`
}

// TMDBService is an HTTP client for The Movie Database.
//
// A v4 read access token is sent as a bearer token through an oauth2 transport; otherwise the v3 key
// travels as the api_key query parameter.
type TMDBService struct {
	config     shared.TMDBConfig
	httpClient *http.Client
	language   func() string
	logger     *log.Logger
}

// SetLogger replaces the request logger. It must not be called while requests are in flight.
func (s *TMDBService) SetLogger(l *log.Logger) {
	s.logger = l
}

// Option customizes a [TMDBService].
type Option func(*TMDBService)

// WithHTTPClient sets the base client. Bearer auth wraps its transport.
func WithHTTPClient(c *http.Client) Option {
	return func(s *TMDBService) { s.httpClient = c }
}

// WithLanguage sets a function consulted on every request for the language parameter,
// so a changed preference applies without rebuilding the client.
func WithLanguage(fn func() string) Option {
	return func(s *TMDBService) { s.language = fn }
}

func WithLogger(l *log.Logger) Option {
	return func(s *TMDBService) { s.logger = l }
}

// NewTMDBService creates a new TMDB client. Missing URLs fall back to the public endpoints.
//
// Construction never fails: credentials are checked on each request so the UI can show setup instructions.
func NewTMDBService(config shared.TMDBConfig, opts ...Option) *TMDBService {
	if config.BaseURL == "" {
		config.BaseURL = tmdbBaseURL
	}
	if config.ImageBaseURL == "" {
		config.ImageBaseURL = tmdbImageBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")

	s := &TMDBService{config: config, httpClient: http.DefaultClient}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = shared.NewLogger(io.Discard)
	}

	if config.AccessToken != "" {
		ctx := context.WithValue(context.Background(), oauth2.HTTPClient, s.httpClient)
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: config.AccessToken, TokenType: "Bearer"})
		s.httpClient = oauth2.NewClient(ctx, ts)
	}
	return s
}

func (s *TMDBService) Name() string {
	return "TMDB"
}

// HasCredentials reports whether requests will be attempted.
func (s *TMDBService) HasCredentials() bool {
	return s.config.HasCredentials()
}

func (s *TMDBService) lang() string {
	if s.language != nil {
		if l := s.language(); l != "" {
			return l
		}
	}
	return s.config.Language
}

// doRequest performs a GET against endpoint and decodes the JSON body into result.
func (s *TMDBService) doRequest(ctx context.Context, endpoint string, params url.Values, result any) error {
	if !s.config.HasCredentials() {
		return fmt.Errorf("%w: set credentials.tmdb.api_key in config.toml or TMDB_API_KEY in the environment", shared.ErrMissingCredentials)
	}

	if params == nil {
		params = url.Values{}
	}
	if s.config.AccessToken == "" {
		params.Set("api_key", s.config.APIKey)
	}
	if l := s.lang(); l != "" && params.Get("language") == "" {
		params.Set("language", l)
	}

	apiURL := s.config.BaseURL + endpoint + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, apiURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrAPIRequest, err)
	}
	defer resp.Body.Close()

	s.logger.Debug("tmdb request", "path", endpoint, "status", resp.StatusCode, "took", time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Path: endpoint}
		var status tmdbStatus
		if body, err := io.ReadAll(io.LimitReader(resp.Body, 64<<10)); err == nil && json.Unmarshal(body, &status) == nil {
			apiErr.Message = status.StatusMessage
		}
		return apiErr
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("%w: failed to decode response: %w", shared.ErrAPIRequest, err)
	}
	return nil
}

func pageParams(page int) url.Values {
	params := url.Values{}
	if page > 1 {
		params.Set("page", strconv.Itoa(page))
	}
	return params
}

// list fetches a paginated endpoint and stamps kind on results that lack a media type.
func (s *TMDBService) list(ctx context.Context, endpoint string, params url.Values, kind models.MediaKind) (*models.Page, error) {
	var page models.Page
	if err := s.doRequest(ctx, endpoint, params, &page); err != nil {
		return nil, err
	}
	if page.Results == nil {
		page.Results = []models.MediaItem{}
	}
	if kind != "" {
		for i := range page.Results {
			if page.Results[i].MediaType == "" {
				page.Results[i].MediaType = kind
			}
		}
	}
	return &page, nil
}

func titleKind(kind models.MediaKind) error {
	if kind != models.KindMovie && kind != models.KindTV {
		return fmt.Errorf("%w: %q", shared.ErrInvalidMediaKind, kind)
	}
	return nil
}

func (s *TMDBService) Trending(ctx context.Context, page int) (*models.Page, error) {
	return s.list(ctx, "/trending/all/week", pageParams(page), "")
}

func (s *TMDBService) Popular(ctx context.Context, kind models.MediaKind, page int) (*models.Page, error) {
	if err := titleKind(kind); err != nil {
		return nil, err
	}
	return s.list(ctx, "/"+string(kind)+"/popular", pageParams(page), kind)
}

func (s *TMDBService) TopRated(ctx context.Context, kind models.MediaKind, page int) (*models.Page, error) {
	if err := titleKind(kind); err != nil {
		return nil, err
	}
	return s.list(ctx, "/"+string(kind)+"/top_rated", pageParams(page), kind)
}

func (s *TMDBService) NowPlaying(ctx context.Context, page int) (*models.Page, error) {
	return s.list(ctx, "/movie/now_playing", pageParams(page), models.KindMovie)
}

func (s *TMDBService) Upcoming(ctx context.Context, page int) (*models.Page, error) {
	return s.list(ctx, "/movie/upcoming", pageParams(page), models.KindMovie)
}

func (s *TMDBService) Details(ctx context.Context, kind models.MediaKind, id int) (*models.Details, error) {
	if err := titleKind(kind); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("append_to_response", "credits,similar")

	var details models.Details
	endpoint := fmt.Sprintf("/%s/%d", kind, id)
	if err := s.doRequest(ctx, endpoint, params, &details); err != nil {
		return nil, err
	}

	details.MediaType = kind
	if details.Similar != nil {
		for i := range details.Similar.Results {
			if details.Similar.Results[i].MediaType == "" {
				details.Similar.Results[i].MediaType = kind
			}
		}
	}
	return &details, nil
}

func (s *TMDBService) Credits(ctx context.Context, kind models.MediaKind, id int) (*models.Credits, error) {
	if err := titleKind(kind); err != nil {
		return nil, err
	}

	var credits models.Credits
	if err := s.doRequest(ctx, fmt.Sprintf("/%s/%d/credits", kind, id), nil, &credits); err != nil {
		return nil, err
	}
	return &credits, nil
}

func (s *TMDBService) Search(ctx context.Context, query string, page int) (*models.Page, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return &models.Page{Page: 1, Results: []models.MediaItem{}}, nil
	}

	params := pageParams(page)
	params.Set("query", query)
	params.Set("include_adult", "false")
	return s.list(ctx, "/search/multi", params, "")
}

func (s *TMDBService) Discover(ctx context.Context, opts DiscoverOptions) (*models.Page, error) {
	params := pageParams(opts.Page)

	sortBy := opts.SortBy
	if sortBy == "" {
		sortBy = defaultSort
	}
	params.Set("sort_by", sortBy)

	if len(opts.GenreIDs) > 0 {
		ids := make([]string, len(opts.GenreIDs))
		for i, id := range opts.GenreIDs {
			ids[i] = strconv.Itoa(id)
		}
		params.Set("with_genres", strings.Join(ids, ","))
	}
	if opts.Year > 0 {
		params.Set("year", strconv.Itoa(opts.Year))
	}
	if opts.MinRating > 0 {
		params.Set("vote_average.gte", strconv.FormatFloat(opts.MinRating, 'f', -1, 64))
	}

	return s.list(ctx, "/discover/movie", params, models.KindMovie)
}

func (s *TMDBService) Genres(ctx context.Context) ([]models.Genre, error) {
	var response struct {
		Genres []models.Genre `json:"genres"`
	}
	if err := s.doRequest(ctx, "/genre/movie/list", nil, &response); err != nil {
		return nil, err
	}
	return response.Genres, nil
}

// IsMissingCredentials reports whether err stems from absent or placeholder credentials.
func IsMissingCredentials(err error) bool {
	return errors.Is(err, shared.ErrMissingCredentials)
}
