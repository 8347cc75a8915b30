package repository

import (
	"context"
	"encoding/json"

	"github.com/clutchfab/crewmatrix/internal/database"
	"github.com/clutchfab/crewmatrix/internal/models"
)

// SettingRepository handles the free-form key/value settings store.
// Values are opaque JSON documents; the repository imposes no schema.
type SettingRepository struct{}

// NewSettingRepository creates a new SettingRepository instance.
func NewSettingRepository() *SettingRepository {
	return &SettingRepository{}
}

// Get retrieves a setting's value by key.
// Returns database.ErrNotFound when the key does not exist.
func (r *SettingRepository) Get(ctx context.Context, key string) (json.RawMessage, error) {
	var value json.RawMessage
	err := database.DB.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		return nil, database.MapError(err)
	}
	return value, nil
}

// List retrieves all settings.
func (r *SettingRepository) List(ctx context.Context) ([]models.Setting, error) {
	rows, err := database.DB.Query(ctx, `SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, database.MapError(err)
	}
	defer rows.Close()

	var settings []models.Setting
	for rows.Next() {
		var s models.Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}

	return settings, rows.Err()
}

// Upsert stores a setting, replacing the previous value for the key.
func (r *SettingRepository) Upsert(ctx context.Context, setting *models.Setting) error {
	query := `
		INSERT INTO settings (key, value)
		VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
	`

	_, err := database.DB.Exec(ctx, query, setting.Key, setting.Value)
	return database.MapError(err)
}

// Delete removes a setting.
// Returns database.ErrNotFound when the key does not exist.
func (r *SettingRepository) Delete(ctx context.Context, key string) error {
	tag, err := database.DB.Exec(ctx, `DELETE FROM settings WHERE key = $1`, key)
	if err != nil {
		return database.MapError(err)
	}
	if tag.RowsAffected() == 0 {
		return database.ErrNotFound
	}
	return nil
}
