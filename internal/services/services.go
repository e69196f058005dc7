// package services implements the TMDB catalog client
package services

import (
	"context"

	"github.com/desertthunder/flix/internal/models"
)

// Catalog is the read-only movie and series catalog used by pages, the modal and the CLI.
type Catalog interface {
	// Trending returns this week's trending movies and series.
	Trending(ctx context.Context, page int) (*models.Page, error)

	// Popular returns popular titles of the given kind (movie or tv).
	Popular(ctx context.Context, kind models.MediaKind, page int) (*models.Page, error)

	// TopRated returns the highest rated titles of the given kind (movie or tv).
	TopRated(ctx context.Context, kind models.MediaKind, page int) (*models.Page, error)

	// NowPlaying returns movies currently in theaters.
	NowPlaying(ctx context.Context, page int) (*models.Page, error)

	// Upcoming returns movies releasing soon.
	Upcoming(ctx context.Context, page int) (*models.Page, error)

	// Details returns the full record of a title with credits and similar titles appended.
	Details(ctx context.Context, kind models.MediaKind, id int) (*models.Details, error)

	// Credits returns the cast and crew of a title.
	Credits(ctx context.Context, kind models.MediaKind, id int) (*models.Credits, error)

	// Search runs a multi-kind search. A blank query returns an empty page without a request.
	Search(ctx context.Context, query string, page int) (*models.Page, error)

	// Discover lists movies matching the given filters.
	Discover(ctx context.Context, opts DiscoverOptions) (*models.Page, error)

	// Genres returns the movie genre list.
	Genres(ctx context.Context) ([]models.Genre, error)
}

// DiscoverOptions filters [Catalog.Discover]. Zero values are omitted from the request.
type DiscoverOptions struct {
	Page      int
	SortBy    string // defaults to popularity.desc
	GenreIDs  []int
	Year      int
	MinRating float64
}

var _ Catalog = (*TMDBService)(nil)
