package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/inkgrade/essay-api/internal/platform/logger"
	"github.com/inkgrade/essay-api/internal/store"
)

// PostgresSettingsStore implements the store.SettingsStore interface
// using a PostgreSQL key-value table as the storage backend.
type PostgresSettingsStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSettingsStore creates a new PostgreSQL implementation of the
// SettingsStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresSettingsStore(db store.DBTX, logger *slog.Logger) *PostgresSettingsStore {
	if db == nil {
		panic("db cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSettingsStore{
		db:     db,
		logger: logger.With(slog.String("component", "settings_store")),
	}
}

// Ensure PostgresSettingsStore implements store.SettingsStore interface
var _ store.SettingsStore = (*PostgresSettingsStore)(nil)

// WithTx implements store.SettingsStore.WithTx
func (s *PostgresSettingsStore) WithTx(tx *sql.Tx) store.SettingsStore {
	return &PostgresSettingsStore{
		db:     tx,
		logger: s.logger,
	}
}

// Get implements store.SettingsStore.Get
// Returns store.ErrSettingNotFound if the key has never been set.
func (s *PostgresSettingsStore) Get(ctx context.Context, key string) (string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	var value string
	query := `SELECT value FROM settings WHERE key = $1`
	err := s.db.QueryRowContext(ctx, query, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", store.ErrSettingNotFound
		}
		log.Error("failed to get setting",
			slog.String("error", err.Error()),
			slog.String("key", key))
		return "", fmt.Errorf("failed to get setting: %w", err)
	}
	return value, nil
}

// Set implements store.SettingsStore.Set
func (s *PostgresSettingsStore) Set(ctx context.Context, key, value string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO settings (key, value, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO UPDATE
		SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
	`
	_, err := s.db.ExecContext(ctx, query, key, value, time.Now().UTC())
	if err != nil {
		log.Error("failed to set setting",
			slog.String("error", err.Error()),
			slog.String("key", key))
		return fmt.Errorf("failed to set setting: %w", err)
	}

	log.Debug("setting updated", slog.String("key", key))
	return nil
}

// All implements store.SettingsStore.All
func (s *PostgresSettingsStore) All(ctx context.Context) (map[string]string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		log.Error("failed to list settings", slog.String("error", err.Error()))
		return nil, fmt.Errorf("failed to list settings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	settings := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("failed to scan setting row: %w", err)
		}
		settings[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating setting rows: %w", err)
	}
	return settings, nil
}
