// Package config loads application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ericfisherdev/placementpanel/internal/domain/model"
)

// EnvPrefix is prepended to every configuration key.
const EnvPrefix = "PLACEMENTPANEL"

// Store backends.
const (
	StoreSQLite    = "sqlite"
	StorePostgREST = "postgrest"
)

// Config holds the application configuration.
type Config struct {
	ListenAddr string
	DBPath     string
	Store      string

	PostgRESTURL     string
	PostgRESTKey     string
	PostgRESTTable   string
	PostgRESTColumns map[model.Field]string

	SessionTTL time.Duration
	LogLevel   slog.Level
	LogFormat  string
}

// UsesPostgREST reports whether records live in the hosted store.
func (c *Config) UsesPostgREST() bool {
	return c.Store == StorePostgREST
}

// Load reads PLACEMENTPANEL_* variables, after merging .env and .env.local
// from the working directory when present. Variables already set in the
// environment win over the files.
//
// Defaults: LISTEN_ADDR 127.0.0.1:8080, DB_PATH placementpanel.db, STORE
// sqlite, POSTGREST_TABLE placement_records, SESSION_TTL 2h, LOG_LEVEL info,
// LOG_FORMAT text. POSTGREST_URL and POSTGREST_KEY are required when STORE is
// postgrest.
func Load() (*Config, error) {
	return load(".env", ".env.local")
}

func load(envFiles ...string) (*Config, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()

	v.SetDefault("listen_addr", "127.0.0.1:8080")
	v.SetDefault("db_path", "placementpanel.db")
	v.SetDefault("store", StoreSQLite)
	v.SetDefault("postgrest_table", "placement_records")
	v.SetDefault("session_ttl", "2h")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")

	cfg := &Config{
		ListenAddr:     v.GetString("listen_addr"),
		DBPath:         v.GetString("db_path"),
		Store:          strings.ToLower(strings.TrimSpace(v.GetString("store"))),
		PostgRESTURL:   v.GetString("postgrest_url"),
		PostgRESTKey:   v.GetString("postgrest_key"),
		PostgRESTTable: v.GetString("postgrest_table"),
		LogFormat:      strings.ToLower(v.GetString("log_format")),
	}

	ttl := v.GetString("session_ttl")
	parsed, err := time.ParseDuration(ttl)
	if err != nil {
		return nil, fmt.Errorf("%s_SESSION_TTL has invalid duration %q: %w", EnvPrefix, ttl, err)
	}
	cfg.SessionTTL = parsed

	if err := cfg.LogLevel.UnmarshalText([]byte(v.GetString("log_level"))); err != nil {
		return nil, fmt.Errorf("%s_LOG_LEVEL: %w", EnvPrefix, err)
	}

	switch cfg.LogFormat {
	case "text", "json":
	default:
		return nil, fmt.Errorf("%s_LOG_FORMAT must be text or json, got %q", EnvPrefix, cfg.LogFormat)
	}

	switch cfg.Store {
	case StoreSQLite:
	case StorePostgREST:
		if cfg.PostgRESTURL == "" || cfg.PostgRESTKey == "" {
			return nil, fmt.Errorf("%s_POSTGREST_URL and %s_POSTGREST_KEY are required for the postgrest store", EnvPrefix, EnvPrefix)
		}
	default:
		return nil, fmt.Errorf("%s_STORE must be %s or %s, got %q", EnvPrefix, StoreSQLite, StorePostgREST, cfg.Store)
	}

	cfg.PostgRESTColumns, err = parseColumns(v.GetString("postgrest_columns"))
	if err != nil {
		return nil, fmt.Errorf("%s_POSTGREST_COLUMNS: %w", EnvPrefix, err)
	}

	return cfg, nil
}

// parseColumns reads "field=column" pairs separated by commas.
func parseColumns(s string) (map[model.Field]string, error) {
	out := make(map[model.Field]string)
	for _, pair := range strings.Split(s, ",") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		field, column, ok := strings.Cut(pair, "=")
		field, column = strings.TrimSpace(field), strings.TrimSpace(column)
		if !ok || column == "" {
			return nil, fmt.Errorf("expected field=column, got %q", pair)
		}
		if !model.Field(field).Valid() {
			return nil, fmt.Errorf("unknown field %q", field)
		}
		out[model.Field(field)] = column
	}
	return out, nil
}
