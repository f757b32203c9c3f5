package repository

import (
	"context"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/config"
	"ctchen222/Tic-Tac-Toe-Terminal/internal/db"
	"fmt"

	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("repository.settings")

const (
	fieldMode       = "mode"
	fieldDifficulty = "difficulty"
	fieldFirstMover = "first_mover"
)

// Settings are the menu choices remembered between runs. Empty fields were
// never chosen.
type Settings struct {
	Mode       string
	Difficulty string
	FirstMover string
}

func (s Settings) fields() map[string]string {
	out := make(map[string]string, 3)
	if s.Mode != "" {
		out[fieldMode] = s.Mode
	}
	if s.Difficulty != "" {
		out[fieldDifficulty] = s.Difficulty
	}
	if s.FirstMover != "" {
		out[fieldFirstMover] = s.FirstMover
	}
	return out
}

func settingsFromFields(fields map[string]string) Settings {
	return Settings{
		Mode:       fields[fieldMode],
		Difficulty: fields[fieldDifficulty],
		FirstMover: fields[fieldFirstMover],
	}
}

// SettingsRepository stores Settings per profile. Load of an unknown profile
// returns empty Settings and no error. Save only overwrites non-empty fields.
type SettingsRepository interface {
	Load(ctx context.Context, profile string) (Settings, error)
	Save(ctx context.Context, profile string, s Settings) error
	Close() error
}

// Open returns the store selected by cfg.
func Open(ctx context.Context, cfg config.Settings) (SettingsRepository, error) {
	switch cfg.Store {
	case "sqlite":
		pool, err := db.LocalConnect(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return NewSQLiteSettingsRepository(pool), nil
	case "redis":
		rdb, err := db.NewRedisClient(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, err
		}
		return NewRedisSettingsRepository(rdb), nil
	case "none", "":
		return NopSettingsRepository{}, nil
	default:
		return nil, fmt.Errorf("unknown settings store %q", cfg.Store)
	}
}

// NopSettingsRepository remembers nothing.
type NopSettingsRepository struct{}

func (NopSettingsRepository) Load(context.Context, string) (Settings, error) { return Settings{}, nil }
func (NopSettingsRepository) Save(context.Context, string, Settings) error   { return nil }
func (NopSettingsRepository) Close() error                                   { return nil }
