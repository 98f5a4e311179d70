package store

import (
	"context"
	"database/sql"
)

// SettingsStore defines the interface for key-value application settings.
type SettingsStore interface {
	// Get retrieves the value for the given key.
	// Returns ErrSettingNotFound if the key has never been set.
	Get(ctx context.Context, key string) (string, error)

	// Set stores the value for the given key, overwriting any previous value.
	Set(ctx context.Context, key, value string) error

	// All retrieves every stored setting as a key-value map.
	All(ctx context.Context) (map[string]string, error)

	// WithTx returns a new SettingsStore instance that uses the provided transaction.
	WithTx(tx *sql.Tx) SettingsStore
}
