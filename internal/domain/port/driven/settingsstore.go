package driven

import "context"

// SettingsStore defines the driven port for small key/value application settings.
// Get returns ("", nil) when the key has never been set.
type SettingsStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}
