package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/desertthunder/flix/internal/repositories"
	"github.com/desertthunder/flix/internal/shared"
	"github.com/desertthunder/flix/internal/storage"
	"github.com/urfave/cli/v3"
)

// backupFormat prefers the file extension over the --format flag when one is recognizable.
func backupFormat(path, flag string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return storage.FormatYAML
	case ".json":
		return storage.FormatJSON
	}
	return flag
}

// DataExport writes a backup of all stored data to a file or stdout.
func (r *Runner) DataExport(ctx context.Context, cmd *cli.Command) error {
	path := cmd.String("output")
	format := backupFormat(path, cmd.String("format"))

	data, err := storage.EncodeSnapshot(r.store.Export(), format)
	if err != nil {
		return fmt.Errorf("failed to encode backup: %w", err)
	}

	if path == "" {
		return r.writePlain("%s\n", strings.TrimRight(string(data), "\n"))
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}

	r.logger.Info("backup written", "path", path, "format", format)
	r.writePlain("✓ Backup saved to %s\n", path)
	return nil
}

// DataImport restores a backup, replacing the parts it contains.
func (r *Runner) DataImport(ctx context.Context, cmd *cli.Command) error {
	path := cmd.StringArg("path")
	if path == "" {
		return fmt.Errorf("%w: backup path is required", shared.ErrMissingArgument)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read backup: %w", err)
	}

	snapshot, err := storage.DecodeSnapshot(data, backupFormat(path, cmd.String("format")))
	if err != nil {
		return fmt.Errorf("failed to parse backup: %w", err)
	}

	r.store.Import(snapshot)
	r.logger.Info("backup restored", "path", path)
	r.writePlain("✓ Restored %d titles and %d searches from %s\n", r.store.Count(), len(r.store.SearchHistory()), path)
	return nil
}

// DataClear removes the watchlist, preferences and search history.
func (r *Runner) DataClear(ctx context.Context, cmd *cli.Command) error {
	if !cmd.Bool("yes") {
		return fmt.Errorf("%w: this deletes all saved data, pass --yes to confirm", shared.ErrMissingArgument)
	}

	r.store.ClearAll()
	r.writePlain("✓ All flix data cleared\n")
	return nil
}

type dataInfo struct {
	Backend   string  `json:"backend"`
	Path      string  `json:"path,omitempty"`
	Available bool    `json:"available"`
	SizeKB    float64 `json:"sizeKB"`
	Watchlist int     `json:"watchlist"`
	Searches  int     `json:"searches"`
}

// DataInfo reports where data lives and how much of it there is.
func (r *Runner) DataInfo(ctx context.Context, cmd *cli.Command) error {
	info := dataInfo{
		Backend:   r.backend,
		Available: r.store.Available(),
		SizeKB:    r.store.Size(),
		Watchlist: r.store.Count(),
		Searches:  len(r.store.SearchHistory()),
	}
	if r.backend != repositories.BackendMemory {
		info.Path = r.config.Storage.Path
	}

	if cmd.Bool("json") {
		return r.writeJSON(info, cmd.Bool("pretty"))
	}

	status := "✓ available"
	if !info.Available {
		status = "✗ unavailable"
	}

	r.writePlainHeader("Local Storage")
	r.writePlain("Backend:   %s (%s)\n", info.Backend, status)
	if info.Path != "" {
		r.writePlain("Path:      %s\n", info.Path)
	}
	r.writePlain("Size:      %.2f KB\n", info.SizeKB)
	r.writePlain("My List:   %d titles\n", info.Watchlist)
	r.writePlain("Searches:  %d\n", info.Searches)
	return nil
}
