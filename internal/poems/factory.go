package poems

import (
	"fmt"

	"github.com/wgomg/versa/internal/config"
	"github.com/wgomg/versa/internal/utils"
)

func NewStore(cfg *config.Config, logger *utils.Logger) (Store, error) {
	switch cfg.Store.Backend {
	case config.BackendFirebase:
		logger.Info(nil, "Using Firebase poem store at %s", cfg.Firebase.URL)
		return NewFirebaseStore(cfg, logger)
	case config.BackendSQLite:
		logger.Info(nil, "Using SQLite poem store at %s", cfg.Store.SQLitePath)
		return OpenSQLite(cfg.Store.SQLitePath)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
