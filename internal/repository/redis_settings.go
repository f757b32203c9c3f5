package repository

import (
	"context"
	"fmt"

	"github.com/go-redis/redis/v8"
)

type redisSettingsRepository struct {
	rdb *redis.Client
}

// NewRedisSettingsRepository creates a Redis-based SettingsRepository that
// keeps one hash per profile. The repository owns rdb and closes it.
func NewRedisSettingsRepository(rdb *redis.Client) SettingsRepository {
	return &redisSettingsRepository{rdb: rdb}
}

func settingsKey(profile string) string {
	return fmt.Sprintf("settings:%s", profile)
}

// Load reads the profile hash.
func (r *redisSettingsRepository) Load(ctx context.Context, profile string) (Settings, error) {
	ctx, span := tracer.Start(ctx, "SettingsRepository.Load")
	defer span.End()

	data, err := r.rdb.HGetAll(ctx, settingsKey(profile)).Result()
	if err != nil {
		span.RecordError(err)
		return Settings{}, fmt.Errorf("failed to load settings for %s: %w", profile, err)
	}
	return settingsFromFields(data), nil
}

// Save writes the non-empty fields of s in one pipeline.
func (r *redisSettingsRepository) Save(ctx context.Context, profile string, s Settings) error {
	ctx, span := tracer.Start(ctx, "SettingsRepository.Save")
	defer span.End()

	fields := s.fields()
	if len(fields) == 0 {
		return nil
	}

	pipe := r.rdb.Pipeline()
	for key, value := range fields {
		pipe.HSet(ctx, settingsKey(profile), key, value)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		span.RecordError(err)
		return fmt.Errorf("failed to save settings for %s: %w", profile, err)
	}
	return nil
}

func (r *redisSettingsRepository) Close() error {
	return r.rdb.Close()
}
