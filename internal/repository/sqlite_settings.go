package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type settingRow struct {
	Profile string `db:"profile"`
	Key     string `db:"key"`
	Value   string `db:"value"`
}

type sqliteSettingsRepository struct {
	db *sqlx.DB
}

// NewSQLiteSettingsRepository creates a SettingsRepository backed by the
// settings table. The repository owns db and closes it.
func NewSQLiteSettingsRepository(db *sqlx.DB) SettingsRepository {
	return &sqliteSettingsRepository{db: db}
}

// Load reads every stored field of profile.
func (r *sqliteSettingsRepository) Load(ctx context.Context, profile string) (Settings, error) {
	ctx, span := tracer.Start(ctx, "SettingsRepository.Load")
	defer span.End()

	var rows []settingRow
	if err := r.db.SelectContext(ctx, &rows, `SELECT profile, key, value FROM settings WHERE profile = ?`, profile); err != nil {
		span.RecordError(err)
		return Settings{}, fmt.Errorf("failed to load settings for %s: %w", profile, err)
	}

	fields := make(map[string]string, len(rows))
	for _, row := range rows {
		fields[row.Key] = row.Value
	}
	return settingsFromFields(fields), nil
}

// Save upserts the non-empty fields of s in one transaction.
func (r *sqliteSettingsRepository) Save(ctx context.Context, profile string, s Settings) error {
	ctx, span := tracer.Start(ctx, "SettingsRepository.Save")
	defer span.End()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for key, value := range s.fields() {
		_, err := tx.NamedExecContext(ctx, `
			INSERT INTO settings (profile, key, value) VALUES (:profile, :key, :value)
			ON CONFLICT (profile, key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
			settingRow{Profile: profile, Key: key, Value: value})
		if err != nil {
			span.RecordError(err)
			return fmt.Errorf("failed to save setting %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to commit settings: %w", err)
	}
	return nil
}

func (r *sqliteSettingsRepository) Close() error {
	return r.db.Close()
}
