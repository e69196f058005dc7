// package router maps URL fragments such as "#/movies" to page renderers.
//
// Every navigation gets a monotonically increasing generation and its own context. Starting a new
// navigation cancels the previous one, and [Router.Accept] rejects results from any generation but the
// latest, so a slow page can never overwrite the page the user moved on to.
package router

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/flix/internal/shared"
)

// Known routes.
const (
	HomePath      = "/"
	MoviesPath    = "/movies"
	SeriesPath    = "/series"
	WatchlistPath = "/watchlist"
)

// Handler renders the page for a route.
type Handler[T any] func(ctx context.Context) (T, error)

// Route is a registered path and its navigation label.
type Route struct {
	Path  string
	Label string
}

// Navigation identifies one navigation attempt.
type Navigation struct {
	Path       string
	Generation uint64
}

// Result is a finished render tagged with the navigation that started it.
type Result[T any] struct {
	Navigation
	Value T
	Err   error
}

// Router owns the current route and the in-flight render.
type Router[T any] struct {
	mu         sync.Mutex
	routes     []Route
	handlers   map[string]Handler[T]
	current    string
	generation uint64
	loading    bool
	cancel     context.CancelFunc
	logger     *log.Logger
}

// New creates an empty [Router]. The current route starts at home.
func New[T any](logger *log.Logger) *Router[T] {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Router[T]{
		handlers: make(map[string]Handler[T]),
		current:  HomePath,
		logger:   logger.WithPrefix("router"),
	}
}

// Handle registers h for path. Routes keep registration order for navigation tabs.
func (r *Router[T]) Handle(path, label string, h Handler[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()

	path = normalize(path)
	if _, exists := r.handlers[path]; !exists {
		r.routes = append(r.routes, Route{Path: path, Label: label})
	}
	r.handlers[path] = h
}

// Routes returns registered routes in registration order.
func (r *Router[T]) Routes() []Route {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Route(nil), r.routes...)
}

// ParseFragment extracts the route path from a URL fragment: "#/movies?x=1" becomes "/movies" and
// an empty fragment becomes home.
func ParseFragment(fragment string) string {
	fragment = strings.TrimSpace(fragment)
	if i := strings.Index(fragment, "#"); i >= 0 {
		fragment = fragment[i+1:]
	}
	if i := strings.IndexAny(fragment, "?&"); i >= 0 {
		fragment = fragment[:i]
	}
	return normalize(fragment)
}

func normalize(path string) string {
	path = "/" + strings.Trim(path, "/")
	return strings.ToLower(path)
}

// Fragment renders path in URL-fragment form.
func Fragment(path string) string {
	return "#" + normalize(path)
}

// resolve returns path when registered, otherwise home. Callers hold mu.
func (r *Router[T]) resolve(path string) string {
	if _, ok := r.handlers[path]; ok {
		return path
	}
	r.logger.Warn("unknown route, redirecting home", "path", path)
	return HomePath
}

// Navigate makes fragment the current route, cancelling any in-flight render.
//
// Unknown paths redirect to home. The returned context is cancelled by the next navigation.
func (r *Router[T]) Navigate(parent context.Context, fragment string) (context.Context, Navigation) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.cancel != nil {
		r.cancel()
	}
	ctx, cancel := context.WithCancel(parent)
	r.cancel = cancel

	r.generation++
	r.current = r.resolve(ParseFragment(fragment))
	r.loading = true

	nav := Navigation{Path: r.current, Generation: r.generation}
	r.logger.Debug("navigate", "path", nav.Path, "generation", nav.Generation)
	return ctx, nav
}

// Render runs the handler for nav. It blocks and is meant to run off the UI goroutine.
func (r *Router[T]) Render(ctx context.Context, nav Navigation) Result[T] {
	r.mu.Lock()
	h, ok := r.handlers[nav.Path]
	r.mu.Unlock()

	res := Result[T]{Navigation: nav}
	if !ok {
		res.Err = fmt.Errorf("%w: no handler for %s", shared.ErrNotFound, nav.Path)
		return res
	}
	res.Value, res.Err = h(ctx)
	return res
}

// Accept reports whether res belongs to the latest navigation. A stale result is discarded and
// leaves the loading state alone.
func (r *Router[T]) Accept(res Result[T]) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if res.Generation != r.generation {
		r.logger.Debug("discarding stale render", "path", res.Path, "generation", res.Generation, "current", r.generation)
		return false
	}
	r.loading = false
	return true
}

// Current is the active route path.
func (r *Router[T]) Current() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// IsActive reports whether path is the current route, for highlighting navigation links.
func (r *Router[T]) IsActive(path string) bool {
	return r.Current() == normalize(path)
}

// Loading reports whether the latest navigation has not produced a result yet.
func (r *Router[T]) Loading() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.loading
}

// Close cancels the in-flight render, if any.
func (r *Router[T]) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
	}
}
