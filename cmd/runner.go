package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/flix/internal/events"
	"github.com/desertthunder/flix/internal/repositories"
	"github.com/desertthunder/flix/internal/services"
	"github.com/desertthunder/flix/internal/shared"
	"github.com/desertthunder/flix/internal/storage"
	"github.com/desertthunder/flix/internal/tasks"
	"github.com/goccy/go-json"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	catalog    services.Catalog
	store      *storage.Adapter
	backend    string
	bus        *events.Bus
	engine     tasks.Engine
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Catalog    services.Catalog
	Store      *storage.Adapter
	Backend    string // storage backend name, shown by data info
	Bus        *events.Bus
	Engine     tasks.Engine
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration.
//
// A nil store falls back to an in-memory adapter so commands still run without persistence.
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Bus == nil {
		opts.Bus = events.NewBus()
	}
	if opts.Catalog == nil {
		opts.Catalog = services.NewTMDBService(opts.Config.Credentials.TMDB, services.WithLogger(opts.Logger))
	}
	if opts.Store == nil {
		opts.Store = storage.New(repositories.NewMemoryStore(), storage.Options{
			Bus:          opts.Bus,
			Logger:       opts.Logger,
			HistoryLimit: opts.Config.Storage.HistoryLimit,
		})
		opts.Backend = repositories.BackendMemory
	}
	if opts.Backend == "" {
		opts.Backend = opts.Config.Storage.Backend
	}
	if opts.Engine == nil {
		opts.Engine = tasks.NewWatchlistEngine(opts.Catalog, opts.Store, opts.Logger)
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		catalog:    opts.Catalog,
		store:      opts.Store,
		backend:    opts.Backend,
		bus:        opts.Bus,
		engine:     opts.Engine,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

type loggerSetter interface {
	SetLogger(*log.Logger)
}

// SetLogger replaces the logger used by subsequent actions, along with the logger of every
// dependency that accepts one.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
	for _, dep := range []any{r.catalog, r.store, r.engine} {
		if s, ok := dep.(loggerSetter); ok {
			s.SetLogger(l)
		}
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, catalogCommand, watchlistCommand, prefsCommand, historyCommand, dataCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) imageBase() string {
	return r.config.Credentials.TMDB.ImageBaseURL
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
