package sqlite

import (
	"context"

	"github.com/wisptel/netbill/domain/settings"
	"github.com/wisptel/netbill/ports"
)

// SettingsStore implements ports.SettingsStore with SQLite.
type SettingsStore struct {
	db *DB
}

// NewSettingsStore creates a new SQLite settings store.
func NewSettingsStore(db *DB) *SettingsStore {
	return &SettingsStore{db: db}
}

// GetAll retrieves all settings.
func (s *SettingsStore) GetAll(ctx context.Context) (settings.Settings, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(settings.Settings)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		out[k] = v
	}
	return out, rows.Err()
}

// Set stores a setting.
func (s *SettingsStore) Set(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	return err
}

// Ensure interface compliance.
var _ ports.SettingsStore = (*SettingsStore)(nil)
