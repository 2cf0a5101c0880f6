// Package stores opens the driven adapters selected by configuration. The
// settings table always lives in the local SQLite file; visit records live
// there too unless the hosted PostgREST store is configured.
package stores

import (
	"fmt"
	"log/slog"

	"github.com/ericfisherdev/placementpanel/internal/adapter/driven/postgrest"
	"github.com/ericfisherdev/placementpanel/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/placementpanel/internal/config"
	"github.com/ericfisherdev/placementpanel/internal/domain/port/driven"
)

// Stores bundles the opened ports.
type Stores struct {
	Visits   driven.VisitStore
	Settings driven.SettingsStore
	Backend  string

	db *sqlite.DB
}

// Open opens the SQLite file, applies migrations and selects the visit store.
func Open(cfg *config.Config, logger *slog.Logger) (*Stores, error) {
	db, err := sqlite.NewDB(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", cfg.DBPath, err)
	}

	if err := sqlite.RunMigrations(db.Writer); err != nil {
		_ = db.Close()
		return nil, err
	}

	s := &Stores{
		Settings: sqlite.NewSettingsRepo(db),
		Backend:  cfg.Store,
		db:       db,
	}

	if cfg.UsesPostgREST() {
		s.Visits = postgrest.NewClient(cfg.PostgRESTURL, cfg.PostgRESTKey, cfg.PostgRESTTable,
			postgrest.WithColumns(cfg.PostgRESTColumns),
			postgrest.WithLogger(logger),
		)
		logger.Info("visit store selected", "backend", cfg.Store, "url", cfg.PostgRESTURL, "table", cfg.PostgRESTTable)
	} else {
		s.Visits = sqlite.NewVisitRepo(db)
		logger.Info("visit store selected", "backend", cfg.Store, "path", cfg.DBPath)
	}

	return s, nil
}

// Close releases the database pools.
func (s *Stores) Close() error {
	return s.db.Close()
}
