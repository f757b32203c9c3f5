package config

import (
	"ctchen222/Tic-Tac-Toe-Terminal/internal/validator"
	"fmt"
	"log/slog"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Game      Game      `yaml:"game"`
	Log       Log       `yaml:"log"`
	Settings  Settings  `yaml:"settings"`
	Spectator Spectator `yaml:"spectator"`
	Telemetry Telemetry `yaml:"telemetry"`
}

// Game holds the match options. An empty mode or difficulty is asked for
// in a menu.
type Game struct {
	Mode       string        `yaml:"mode" env:"TTT_MODE" validate:"omitempty,oneof=single multi"`
	Difficulty string        `yaml:"difficulty" env:"TTT_DIFFICULTY" validate:"omitempty,oneof=easy medium hard"`
	FirstMover string        `yaml:"first-mover" env:"TTT_FIRST_MOVER" env-default:"human" validate:"oneof=human computer random"`
	ThinkTime  time.Duration `yaml:"think-time" env:"TTT_THINK_TIME" env-default:"400ms" validate:"gte=0"`
}

type Log struct {
	Level string `yaml:"level" env:"TTT_LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn error"`
	// File receives log records; "-" means stderr.
	File string `yaml:"file" env:"TTT_LOG_FILE" env-default:"tictactoe.log" validate:"required"`
}

// Settings selects where the last chosen mode and difficulty are remembered.
type Settings struct {
	Store      string `yaml:"store" env:"TTT_SETTINGS_STORE" env-default:"sqlite" validate:"oneof=none sqlite redis"`
	SQLitePath string `yaml:"sqlite-path" env:"TTT_SQLITE_PATH" env-default:"tictactoe.db" validate:"required_if=Store sqlite"`
	RedisAddr  string `yaml:"redis-addr" env:"TTT_REDIS_ADDR" env-default:"localhost:6379" validate:"required_if=Store redis"`
	Profile    string `yaml:"profile" env:"TTT_PROFILE" env-default:"default" validate:"required,max=64"`
}

// Spectator configures the read-only web view of the running game.
type Spectator struct {
	Enabled  bool          `yaml:"enabled" env:"TTT_SPECTATOR_ENABLED" env-default:"false"`
	Addr     string        `yaml:"addr" env:"TTT_SPECTATOR_ADDR" env-default:"127.0.0.1:8080" validate:"required_if=Enabled true"`
	Secret   string        `yaml:"secret" env:"TTT_SPECTATOR_SECRET" validate:"omitempty,min=16"`
	TokenTTL time.Duration `yaml:"token-ttl" env:"TTT_SPECTATOR_TOKEN_TTL" env-default:"2h" validate:"gt=0"`
}

// Telemetry is disabled while Endpoint is empty.
type Telemetry struct {
	Endpoint       string `yaml:"endpoint" env:"TTT_OTLP_ENDPOINT" validate:"omitempty,hostname_port"`
	ServiceName    string `yaml:"service-name" env:"TTT_SERVICE_NAME" env-default:"tic-tac-toe" validate:"required"`
	ServiceVersion string `yaml:"service-version" env:"TTT_SERVICE_VERSION" env-default:"v0.2.0"`
}

// Load reads the YAML file at path, if any, then the environment, and
// validates the result.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("unable to load config file: %w", err)
		}
	} else if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("unable to read config from environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks every field against its rules.
func (c *Config) Validate() error {
	if err := validator.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// SlogLevel converts the configured level name.
func (l Log) SlogLevel() slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}
	return level
}

// Usage describes every environment variable the config understands.
func Usage() string {
	text, err := cleanenv.GetDescription(&Config{}, nil)
	if err != nil {
		return ""
	}
	return text
}
