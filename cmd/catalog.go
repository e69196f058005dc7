package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/desertthunder/flix/internal/models"
	"github.com/desertthunder/flix/internal/services"
	"github.com/desertthunder/flix/internal/shared"
	"github.com/urfave/cli/v3"
)

const castLimit = 6

// parseTitle reads the kind and id positional arguments shared by details and watchlist commands.
func parseTitle(cmd *cli.Command) (models.MediaKind, int, error) {
	rawKind, rawID := cmd.StringArg("kind"), cmd.StringArg("id")
	if rawKind == "" || rawID == "" {
		return "", 0, fmt.Errorf("%w: usage: %s <movie|tv> <id>", shared.ErrMissingArgument, cmd.Name)
	}

	kind, err := models.ParseMediaKind(strings.ToLower(rawKind))
	if err != nil || kind == models.KindPerson {
		return "", 0, fmt.Errorf("%w: %q", shared.ErrInvalidMediaKind, rawKind)
	}

	id, err := strconv.Atoi(rawID)
	if err != nil || id <= 0 {
		return "", 0, fmt.Errorf("%w: id must be a positive number, got %q", shared.ErrInvalidArgument, rawID)
	}
	return kind, id, nil
}

func kindHeading(kind models.MediaKind) string {
	if kind == models.KindTV {
		return "TV Shows"
	}
	return "Movies"
}

func parseKindFlag(cmd *cli.Command) (models.MediaKind, error) {
	kind, err := models.ParseMediaKind(strings.ToLower(cmd.String("kind")))
	if err != nil || kind == models.KindPerson {
		return "", fmt.Errorf("%w: --kind must be movie or tv", shared.ErrInvalidFlag)
	}
	return kind, nil
}

// writePage prints a result page as JSON or as a numbered list.
func (r *Runner) writePage(cmd *cli.Command, title string, page *models.Page) error {
	results := page.Results
	if limit := cmd.Int("limit"); limit > 0 && limit < len(results) {
		results = results[:limit]
	}

	if cmd.Bool("json") {
		out := *page
		out.Results = results
		return r.writeJSON(out, cmd.Bool("pretty"))
	}

	if len(results) == 0 {
		r.writePlain("No titles found.\n")
		return nil
	}

	r.writePlain("%s (page %d of %d):\n\n", title, max(page.Page, 1), max(page.TotalPages, 1))
	for i, item := range results {
		r.writeItem(i+1, item)
	}
	return nil
}

func (r *Runner) writeItem(n int, item models.MediaItem) {
	saved := ""
	if r.store.Contains(item) {
		saved = "  ✓ in My List"
	}

	r.writePlain("%d. %s", n, item.DisplayTitle())
	if year := shared.Year(item.DisplayDate()); year != shared.NotAvailable {
		r.writePlain(" (%s)", year)
	}
	r.writePlain("%s\n", saved)
	r.writePlain("   %s %d • ★ %s\n", item.Kind().Label(), item.ID, shared.FormatRating(item.VoteAverage))
	if item.Overview != "" {
		r.writePlain("   %s\n", shared.Truncate(item.Overview, 100))
	}
	r.writePlain("\n")
}

// CatalogTrending lists this week's trending titles.
func (r *Runner) CatalogTrending(ctx context.Context, cmd *cli.Command) error {
	page, err := r.catalog.Trending(ctx, cmd.Int("page"))
	if err != nil {
		return fmt.Errorf("failed to fetch trending titles: %w", err)
	}
	return r.writePage(cmd, "Trending This Week", page)
}

// CatalogPopular lists popular movies or series.
func (r *Runner) CatalogPopular(ctx context.Context, cmd *cli.Command) error {
	kind, err := parseKindFlag(cmd)
	if err != nil {
		return err
	}

	page, err := r.catalog.Popular(ctx, kind, cmd.Int("page"))
	if err != nil {
		return fmt.Errorf("failed to fetch popular titles: %w", err)
	}
	return r.writePage(cmd, "Popular "+kindHeading(kind), page)
}

// CatalogTopRated lists the highest rated movies or series.
func (r *Runner) CatalogTopRated(ctx context.Context, cmd *cli.Command) error {
	kind, err := parseKindFlag(cmd)
	if err != nil {
		return err
	}

	page, err := r.catalog.TopRated(ctx, kind, cmd.Int("page"))
	if err != nil {
		return fmt.Errorf("failed to fetch top rated titles: %w", err)
	}
	return r.writePage(cmd, "Top Rated "+kindHeading(kind), page)
}

func (r *Runner) CatalogNowPlaying(ctx context.Context, cmd *cli.Command) error {
	page, err := r.catalog.NowPlaying(ctx, cmd.Int("page"))
	if err != nil {
		return fmt.Errorf("failed to fetch now playing movies: %w", err)
	}
	return r.writePage(cmd, "Now Playing in Theaters", page)
}

func (r *Runner) CatalogUpcoming(ctx context.Context, cmd *cli.Command) error {
	page, err := r.catalog.Upcoming(ctx, cmd.Int("page"))
	if err != nil {
		return fmt.Errorf("failed to fetch upcoming movies: %w", err)
	}
	return r.writePage(cmd, "Coming Soon", page)
}

// CatalogDetails prints a title with runtime, genres, cast and director.
func (r *Runner) CatalogDetails(ctx context.Context, cmd *cli.Command) error {
	kind, id, err := parseTitle(cmd)
	if err != nil {
		return err
	}

	details, err := r.catalog.Details(ctx, kind, id)
	if err != nil {
		return fmt.Errorf("failed to fetch details: %w", err)
	}

	if cmd.Bool("open") {
		url := shared.TitleURL(string(kind), id)
		if err := shared.OpenBrowser(url); err != nil {
			r.logger.Warn("failed to open browser", "url", url, "error", err)
		}
	}

	if cmd.Bool("json") {
		return r.writeJSON(details, cmd.Bool("pretty"))
	}

	r.writePlainHeader(details.DisplayTitle())
	if details.Tagline != "" {
		r.writePlain("%s\n\n", details.Tagline)
	}

	facts := []string{kind.Label()}
	if year := shared.Year(details.DisplayDate()); year != shared.NotAvailable {
		facts = append(facts, year)
	}
	if runtime := shared.FormatRuntime(details.RuntimeMinutes()); runtime != shared.NotAvailable {
		facts = append(facts, runtime)
	}
	facts = append(facts, "★ "+shared.FormatRating(details.VoteAverage))
	r.writePlain("%s\n", strings.Join(facts, " • "))

	if date := shared.FormatDate(details.DisplayDate()); date != shared.NotAvailable {
		r.writePlain("Released: %s\n", date)
	}
	if genres := details.GenreNames(); len(genres) > 0 {
		r.writePlain("Genres: %s\n", strings.Join(genres, ", "))
	}
	if details.Overview != "" {
		r.writePlainln("%s", details.Overview)
	}

	if cast := details.TopCast(castLimit); len(cast) > 0 {
		r.writePlainln("Cast:")
		for _, c := range cast {
			r.writePlain("  • %s as %s\n", c.Name, c.Character)
		}
	}
	if details.Credits != nil {
		if directors := details.Credits.Directors(); len(directors) > 0 {
			r.writePlain("\nDirector: %s\n", strings.Join(directors, ", "))
		}
	}

	if poster := services.ImageURL(r.imageBase(), details.PosterPath, services.SizeLarge, services.AssetPoster); poster != "" {
		r.writePlain("\nPoster: %s\n", poster)
	}
	r.writePlain("TMDB: %s-%s\n", shared.TitleURL(string(kind), id), shared.Slugify(details.DisplayTitle()))

	if r.store.Contains(details.MediaItem) {
		r.writePlain("\n✓ In My List\n")
	}
	return nil
}

// CatalogSearch runs a multi-kind search and records the query in search history.
//
// Person results are left out, as in the interactive search panel.
func (r *Runner) CatalogSearch(ctx context.Context, cmd *cli.Command) error {
	query := strings.TrimSpace(cmd.StringArg("query"))
	if query == "" {
		return fmt.Errorf("%w: search query is required", shared.ErrMissingArgument)
	}

	shared.WithLogger(r.logger, "query", query).Debug("searching catalog")

	page, err := r.catalog.Search(ctx, query, cmd.Int("page"))
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if !cmd.Bool("no-history") {
		r.store.RecordSearch(query)
	}

	results := make([]models.MediaItem, 0, len(page.Results))
	for _, item := range page.Results {
		if item.Kind() != models.KindPerson {
			results = append(results, item)
		}
	}
	filtered := *page
	filtered.Results = results

	return r.writePage(cmd, fmt.Sprintf("Results for %q", query), &filtered)
}

// CatalogDiscover lists movies filtered by genre, year and rating.
func (r *Runner) CatalogDiscover(ctx context.Context, cmd *cli.Command) error {
	opts := services.DiscoverOptions{
		Page:      cmd.Int("page"),
		SortBy:    cmd.String("sort"),
		Year:      cmd.Int("year"),
		MinRating: cmd.Float("min-rating"),
	}

	if raw := strings.TrimSpace(cmd.String("genres")); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			id, err := strconv.Atoi(strings.TrimSpace(part))
			if err != nil {
				return fmt.Errorf("%w: --genres must be comma separated ids, got %q", shared.ErrInvalidFlag, part)
			}
			opts.GenreIDs = append(opts.GenreIDs, id)
		}
	}

	page, err := r.catalog.Discover(ctx, opts)
	if err != nil {
		return fmt.Errorf("discover failed: %w", err)
	}
	return r.writePage(cmd, "Discover", page)
}

func (r *Runner) CatalogGenres(ctx context.Context, cmd *cli.Command) error {
	genres, err := r.catalog.Genres(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch genres: %w", err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(genres, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d genres:\n\n", len(genres))
	for _, g := range genres {
		r.writePlain("%6d  %s\n", g.ID, g.Name)
	}
	return nil
}
