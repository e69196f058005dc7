// package pages composes catalog rows for each route.
//
// A page issues its fetches in parallel and fails as a whole if any one of them fails.
package pages

import (
	"context"
	"fmt"
	"slices"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/flix/internal/models"
	"github.com/desertthunder/flix/internal/router"
	"github.com/desertthunder/flix/internal/services"
	"github.com/desertthunder/flix/internal/shared"
	"golang.org/x/sync/errgroup"
)

// DefaultHeroSlides is the number of trending titles featured on the home hero.
const DefaultHeroSlides = 5

// Row is a titled strip of catalog items.
type Row struct {
	Title string
	Items []models.MediaItem
}

// Content is everything a route renders.
type Content struct {
	Path      string
	Title     string
	Subtitle  string
	Hero      []models.MediaItem
	Rows      []Row
	Watchlist []models.WatchlistEntry
}

// Empty reports whether the page has nothing to show.
func (c Content) Empty() bool {
	return len(c.Hero) == 0 && len(c.Rows) == 0 && len(c.Watchlist) == 0
}

// WatchlistReader is the storage view the watchlist page needs.
type WatchlistReader interface {
	Watchlist() []models.WatchlistEntry
}

// Pages builds [Content] for every route.
type Pages struct {
	catalog    services.Catalog
	watchlist  WatchlistReader
	heroSlides int
	logger     *log.Logger
}

// New creates the page modules. heroSlides <= 0 uses [DefaultHeroSlides].
func New(catalog services.Catalog, watchlist WatchlistReader, heroSlides int, logger *log.Logger) *Pages {
	if heroSlides <= 0 {
		heroSlides = DefaultHeroSlides
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Pages{catalog: catalog, watchlist: watchlist, heroSlides: heroSlides, logger: logger.WithPrefix("pages")}
}

// Register wires every page into r under its route.
func (p *Pages) Register(r *router.Router[Content]) {
	r.Handle(router.HomePath, "Home", p.Home)
	r.Handle(router.MoviesPath, "Movies", p.Movies)
	r.Handle(router.SeriesPath, "Series", p.Series)
	r.Handle(router.WatchlistPath, "My List", p.Watchlist)
}

type rowFetch struct {
	title string
	fetch func(ctx context.Context) (*models.Page, error)
}

// fetchRows runs every fetch concurrently and returns the non-empty rows in request order.
func (p *Pages) fetchRows(ctx context.Context, fetches []rowFetch) ([]Row, error) {
	pages := make([]*models.Page, len(fetches))

	g, gctx := errgroup.WithContext(ctx)
	for i, f := range fetches {
		g.Go(func() error {
			page, err := f.fetch(gctx)
			if err != nil {
				return fmt.Errorf("%s: %w", f.title, err)
			}
			pages[i] = page
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	rows := make([]Row, 0, len(fetches))
	for i, page := range pages {
		if page == nil || len(page.Results) == 0 {
			p.logger.Debug("skipping empty row", "row", fetches[i].title)
			continue
		}
		rows = append(rows, Row{Title: fetches[i].title, Items: page.Results})
	}
	return rows, nil
}

func (p *Pages) popular(kind models.MediaKind) func(context.Context) (*models.Page, error) {
	return func(ctx context.Context) (*models.Page, error) { return p.catalog.Popular(ctx, kind, 1) }
}

func (p *Pages) topRated(kind models.MediaKind) func(context.Context) (*models.Page, error) {
	return func(ctx context.Context) (*models.Page, error) { return p.catalog.TopRated(ctx, kind, 1) }
}

func (p *Pages) nowPlaying(ctx context.Context) (*models.Page, error) { return p.catalog.NowPlaying(ctx, 1) }
func (p *Pages) upcoming(ctx context.Context) (*models.Page, error)   { return p.catalog.Upcoming(ctx, 1) }
func (p *Pages) trending(ctx context.Context) (*models.Page, error)   { return p.catalog.Trending(ctx, 1) }

// Home shows the trending hero over movie and series rows.
func (p *Pages) Home(ctx context.Context) (Content, error) {
	const heroRow = "Trending"
	rows, err := p.fetchRows(ctx, []rowFetch{
		{heroRow, p.trending},
		{"Now Playing in Theaters", p.nowPlaying},
		{"Popular Movies", p.popular(models.KindMovie)},
		{"Top Rated Movies", p.topRated(models.KindMovie)},
		{"Popular TV Shows", p.popular(models.KindTV)},
		{"Top Rated TV Shows", p.topRated(models.KindTV)},
	})
	if err != nil {
		return Content{}, err
	}

	content := Content{Path: router.HomePath, Title: "Home"}
	if len(rows) > 0 && rows[0].Title == heroRow {
		content.Hero = rows[0].Items[:min(p.heroSlides, len(rows[0].Items))]
		rows = rows[1:]
	}
	content.Rows = rows
	return content, nil
}

// Movies lists theatrical, popular, top rated and upcoming movies.
func (p *Pages) Movies(ctx context.Context) (Content, error) {
	rows, err := p.fetchRows(ctx, []rowFetch{
		{"Now Playing in Theaters", p.nowPlaying},
		{"Popular Movies", p.popular(models.KindMovie)},
		{"Top Rated Movies", p.topRated(models.KindMovie)},
		{"Coming Soon", p.upcoming},
	})
	if err != nil {
		return Content{}, err
	}
	return Content{Path: router.MoviesPath, Title: "Movies", Subtitle: "Explore our collection of movies", Rows: rows}, nil
}

// Series lists popular and top rated TV.
func (p *Pages) Series(ctx context.Context) (Content, error) {
	rows, err := p.fetchRows(ctx, []rowFetch{
		{"Popular TV Shows", p.popular(models.KindTV)},
		{"Top Rated TV Shows", p.topRated(models.KindTV)},
	})
	if err != nil {
		return Content{}, err
	}
	return Content{Path: router.SeriesPath, Title: "TV Series", Subtitle: "Discover amazing TV series", Rows: rows}, nil
}

// Watchlist reads saved titles from storage, newest first. It never touches the network.
func (p *Pages) Watchlist(ctx context.Context) (Content, error) {
	entries := p.watchlist.Watchlist()
	slices.SortStableFunc(entries, func(a, b models.WatchlistEntry) int {
		return b.AddedAt.Compare(a.AddedAt)
	})

	subtitle := "Your list is empty"
	switch n := len(entries); n {
	case 0:
	case 1:
		subtitle = "1 title"
	default:
		subtitle = fmt.Sprintf("%d titles", n)
	}
	return Content{Path: router.WatchlistPath, Title: "My List", Subtitle: subtitle, Watchlist: entries}, ctx.Err()
}
