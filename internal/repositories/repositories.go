// package repositories provides the key-value persistence backends behind the local storage adapter.
//
// Each backend implements [models.KeyValueStore]. [Open] selects one from [shared.StorageConfig].
package repositories

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/flix/internal/models"
	"github.com/desertthunder/flix/internal/shared"
)

// Backend names accepted in the storage.backend config key.
const (
	BackendSQLite = "sqlite"
	BackendBadger = "badger"
	BackendMemory = "memory"
)

// Open creates the key-value store named by cfg.Backend.
//
// The sqlite backend runs pending migrations before returning.
func Open(cfg shared.StorageConfig, logger *log.Logger) (models.KeyValueStore, error) {
	switch strings.ToLower(cfg.Backend) {
	case BackendSQLite, "":
		db, err := shared.NewDatabase(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", shared.ErrStorageUnavailable, err)
		}
		shared.ConfigureDatabase(db, cfg.MaxOpenConns, cfg.MaxIdleConns)

		if err := shared.RunMigrations(db); err != nil {
			db.Close()
			return nil, fmt.Errorf("%w: %v", shared.ErrStorageUnavailable, err)
		}
		return NewSQLiteStore(db), nil
	case BackendBadger:
		return OpenBadgerStore(cfg.Path, logger)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("%w: %q", shared.ErrUnknownBackend, cfg.Backend)
	}
}
