package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/flix/internal/pages"
	"github.com/desertthunder/flix/internal/router"
	"github.com/desertthunder/flix/internal/shared"
	"github.com/desertthunder/flix/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive catalog browser.
//
// Missing credentials are not an error here: pages render setup instructions instead.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.catalog == nil || r.store == nil {
		return fmt.Errorf("%w: catalog or storage not initialized", shared.ErrServiceUnavailable)
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.UI.LogFile)
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	rt := router.New[pages.Content](fileLogger)
	pages.New(r.catalog, r.store, r.config.UI.HeroSlides, fileLogger).Register(rt)

	model := ui.NewModel(ctx, ui.Options{
		Router:    rt,
		Store:     r.store,
		Catalog:   r.catalog,
		Bus:       r.bus,
		Engine:    r.engine,
		Config:    r.config.UI,
		ImageBase: r.imageBase(),
		Route:     cmd.String("route"),
		Logger:    fileLogger,
	})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseAllMotion(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
