package main

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/desertthunder/flix/internal/shared"
	"github.com/urfave/cli/v3"
)

// allowedValues restricts the preferences the TUI interprets; other keys are stored as given.
var allowedValues = map[string][]string{
	"theme":    {"dark", "light"},
	"quality":  {"auto", "low", "medium", "high", "original"},
	"autoplay": {"true", "false"},
}

// parsePreference stores booleans and numbers typed so they read back the same way from JSON.
func parsePreference(key, raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if allowed, ok := allowedValues[key]; ok && !slices.Contains(allowed, strings.ToLower(raw)) {
		return nil, fmt.Errorf("%w: %s must be one of %s", shared.ErrInvalidArgument, key, strings.Join(allowed, ", "))
	}

	if b, err := strconv.ParseBool(raw); err == nil {
		return b, nil
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return f, nil
	}
	if _, ok := allowedValues[key]; ok {
		return strings.ToLower(raw), nil
	}
	return raw, nil
}

// PrefsShow prints every preference, defaults included.
func (r *Runner) PrefsShow(ctx context.Context, cmd *cli.Command) error {
	prefs := r.store.Preferences()

	if cmd.Bool("json") {
		return r.writeJSON(prefs, cmd.Bool("pretty"))
	}

	keys := make([]string, 0, len(prefs))
	for k := range prefs {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		r.writePlain("%-10s %v\n", k, prefs[k])
	}
	return nil
}

func (r *Runner) PrefsGet(ctx context.Context, cmd *cli.Command) error {
	key := strings.TrimSpace(cmd.StringArg("key"))
	if key == "" {
		return fmt.Errorf("%w: preference key is required", shared.ErrMissingArgument)
	}

	value := r.store.Preference(key)
	if value == nil {
		return fmt.Errorf("%w: preference %q is not set", shared.ErrNotFound, key)
	}
	r.writePlain("%v\n", value)
	return nil
}

// PrefsSet changes one preference.
func (r *Runner) PrefsSet(ctx context.Context, cmd *cli.Command) error {
	key := strings.TrimSpace(cmd.StringArg("key"))
	raw := cmd.StringArg("value")
	if key == "" || raw == "" {
		return fmt.Errorf("%w: usage: prefs set <key> <value>", shared.ErrMissingArgument)
	}

	value, err := parsePreference(key, raw)
	if err != nil {
		return err
	}

	r.store.SetPreference(key, value)
	r.logger.Debug("preference saved", "key", key, "value", value)
	r.writePlain("✓ %s = %v\n", key, value)
	return nil
}

// HistoryShow prints recent searches, most recent first.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	history := r.store.SearchHistory()

	if cmd.Bool("json") {
		return r.writeJSON(history, cmd.Bool("pretty"))
	}

	if len(history) == 0 {
		r.writePlain("No recent searches.\n")
		return nil
	}

	r.writePlain("Recent searches (%d of %d kept):\n\n", len(history), r.store.HistoryLimit())
	for i, q := range history {
		r.writePlain("%d. %s\n", i+1, q)
	}
	return nil
}

func (r *Runner) HistoryClear(ctx context.Context, cmd *cli.Command) error {
	r.store.ClearSearchHistory()
	r.writePlain("✓ Search history cleared\n")
	return nil
}
