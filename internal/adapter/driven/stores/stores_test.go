package stores_test

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/placementpanel/internal/adapter/driven/postgrest"
	"github.com/ericfisherdev/placementpanel/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/placementpanel/internal/adapter/driven/stores"
	"github.com/ericfisherdev/placementpanel/internal/config"
	"github.com/ericfisherdev/placementpanel/internal/domain/model"
)

func TestOpen_SQLite(t *testing.T) {
	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "visits.db"), Store: config.StoreSQLite}

	s, err := stores.Open(cfg, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	assert.IsType(t, &sqlite.VisitRepo{}, s.Visits)

	ctx := context.Background()
	stored, err := s.Visits.Insert(ctx, []model.VisitRecord{{CompanyName: "Acme"}})
	require.NoError(t, err)
	require.Len(t, stored, 1)

	require.NoError(t, s.Settings.Set(ctx, "theme", `{"kind":"standard","id":"crimson_red"}`))
	got, err := s.Settings.Get(ctx, "theme")
	require.NoError(t, err)
	assert.Contains(t, got, "crimson_red")
}

func TestOpen_PostgREST(t *testing.T) {
	cfg := &config.Config{
		DBPath:         filepath.Join(t.TempDir(), "settings.db"),
		Store:          config.StorePostgREST,
		PostgRESTURL:   "https://example.invalid/rest/v1",
		PostgRESTKey:   "anon",
		PostgRESTTable: "placement_records",
	}

	s, err := stores.Open(cfg, slog.Default())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	assert.IsType(t, &postgrest.Client{}, s.Visits)
	assert.Equal(t, config.StorePostgREST, s.Backend)
}

func TestOpen_CreatesDirectory(t *testing.T) {
	cfg := &config.Config{DBPath: filepath.Join(t.TempDir(), "data", "nested", "visits.db"), Store: config.StoreSQLite}

	s, err := stores.Open(cfg, slog.Default())
	require.NoError(t, err)
	require.NoError(t, s.Close())

	assert.FileExists(t, cfg.DBPath)
}

func TestOpen_BadPath(t *testing.T) {
	// A regular file where the parent directory should be.
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o600))

	cfg := &config.Config{DBPath: filepath.Join(blocker, "x.db"), Store: config.StoreSQLite}

	_, err := stores.Open(cfg, slog.Default())
	assert.Error(t, err)
}
