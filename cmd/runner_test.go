package main

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/flix/internal/events"
	"github.com/desertthunder/flix/internal/models"
	"github.com/desertthunder/flix/internal/repositories"
	"github.com/desertthunder/flix/internal/shared"
	"github.com/desertthunder/flix/internal/storage"
	"github.com/desertthunder/flix/internal/tasks"
	tu "github.com/desertthunder/flix/internal/testing"
)

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			catalog := tu.NewMockCatalog(nil)
			bus := events.NewBus()
			store := storage.New(repositories.NewMemoryStore(), storage.Options{Bus: bus, Logger: logger})

			runner := NewRunner(RunnerOpts{
				Config:  config,
				Logger:  logger,
				Output:  output,
				Catalog: catalog,
				Store:   store,
				Backend: repositories.BackendSQLite,
				Bus:     bus,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.catalog != catalog {
				t.Error("expected catalog to be set")
			}
			if runner.store != store {
				t.Error("expected store to be set")
			}
			if runner.bus != bus {
				t.Error("expected bus to be set")
			}
			if runner.backend != repositories.BackendSQLite {
				t.Errorf("expected sqlite backend, got %s", runner.backend)
			}
			if runner.engine == nil {
				t.Error("expected engine to be built from catalog and store")
			}
		})

		t.Run("with nil config uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Config: nil})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
		})

		t.Run("with nil logger uses default", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: nil})

			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
		})

		t.Run("with nil output uses stdout", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: nil})

			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
		})

		t.Run("with nil store falls back to memory", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Backend: repositories.BackendBadger})

			if runner.store == nil || !runner.store.Available() {
				t.Fatal("expected an available in-memory store")
			}
			if runner.backend != repositories.BackendMemory {
				t.Errorf("expected memory backend, got %s", runner.backend)
			}
			if runner.catalog == nil {
				t.Error("expected a TMDB catalog by default")
			}
		})

		t.Run("with configPath sets field", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{ConfigPath: "/test/path/config.toml"})

			if runner.configPath != "/test/path/config.toml" {
				t.Errorf("expected configPath to be set, got %s", runner.configPath)
			}
		})
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			data := map[string]string{"key": "value"}
			err := runner.writeJSON(data, true)

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if result := output.String(); result != expected {
				t.Errorf("expected %q, got %q", expected, result)
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			// channels cannot be marshaled to JSON
			err := runner.writeJSON(make(chan int), false)

			if err == nil {
				t.Fatal("expected error for non-serializable data")
			}
			if !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)

			if err == nil {
				t.Fatal("expected error writing newline")
			}
			if !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if result := output.String(); result != "hello world" {
				t.Errorf("expected 'hello world', got %q", result)
			}
		})

		t.Run("writePlainln surrounds with newlines", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			runner.writePlainln("Cast:")
			if result := output.String(); result != "\nCast:\n" {
				t.Errorf("got %q", result)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")

			if err == nil {
				t.Fatal("expected error from failing writer")
			}
			if !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("SetLogger", func(t *testing.T) {
		t.Run("routes storage and refresh errors to the new logger", func(t *testing.T) {
			kv := repositories.NewMemoryStore()
			kv.Set(storage.KeyWatchlist, []byte("{not json"))
			stderr := &bytes.Buffer{}
			logger := log.New(stderr)
			store := storage.New(kv, storage.Options{Logger: logger})

			runner := NewRunner(RunnerOpts{
				Catalog: tu.NewMockCatalog(nil),
				Store:   store,
				Logger:  logger,
				Output:  io.Discard,
			})

			logPath := filepath.Join(t.TempDir(), "flix.log")
			fileLogger, err := shared.NewFileLogger(logPath)
			if err != nil {
				t.Fatalf("NewFileLogger() error = %v", err)
			}
			runner.SetLogger(fileLogger)

			if runner.store.Count() != 0 {
				t.Fatal("corrupt watchlist should read as empty")
			}
			runner.store.Add(models.MediaItem{ID: 1, MediaType: models.KindMovie, Title: "Movie 1"})
			if _, err := runner.engine.Refresh(context.Background(), nil, tasks.RefreshOpts{RateLimit: 100}); err != nil {
				t.Fatalf("Refresh() error = %v", err)
			}

			if stderr.Len() != 0 {
				t.Errorf("expected nothing on the original writer, got %q", stderr.String())
			}
			logged, err := os.ReadFile(logPath)
			if err != nil {
				t.Fatalf("ReadFile() error = %v", err)
			}
			for _, want := range []string{"discarding unreadable value", "refresh failed"} {
				if !strings.Contains(string(logged), want) {
					t.Errorf("log file missing %q:\n%s", want, logged)
				}
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{Logger: log.New(io.Discard)})
		commands := runner.register()

		var names []string
		for i, cmd := range commands {
			if cmd == nil {
				t.Fatalf("command at index %d is nil", i)
			}
			names = append(names, cmd.Name)
		}

		for _, want := range []string{"setup", "catalog", "watchlist", "prefs", "history", "data", "tui"} {
			if !slices.Contains(names, want) {
				t.Errorf("expected %q command, got %v", want, names)
			}
		}
	})
}
