package config

import (
	"ctchen222/tictactoe/internal/validator"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds the server settings. Values come from an optional YAML file
// named by CONFIG_PATH, overridden by environment variables.
type Config struct {
	HTTPAddr          string        `yaml:"http-addr" env:"HTTP_ADDR" env-default:":8080"`
	LogLevel          string        `yaml:"log-level" env:"LOG_LEVEL" env-default:"info" validate:"oneof=debug info warn error DEBUG INFO WARN ERROR"`
	Redis             Redis         `yaml:"redis"`
	Otel              Otel          `yaml:"otel"`
	JWTSecret         string        `yaml:"jwt-secret" env:"JWT_SECRET" env-required:"true"`
	TokenTTL          time.Duration `yaml:"token-ttl" env:"TOKEN_TTL" env-default:"72h" validate:"gt=0"`
	ComputerMoveDelay time.Duration `yaml:"computer-move-delay" env:"COMPUTER_MOVE_DELAY" env-default:"300ms" validate:"gte=0"`
	HeartbeatInterval time.Duration `yaml:"heartbeat-interval" env:"HEARTBEAT_INTERVAL" env-default:"10s" validate:"gt=0"`
}

type Redis struct {
	Enabled    bool   `yaml:"enabled" env:"REDIS_ENABLED" env-default:"false"`
	ConnString string `yaml:"connstring" env:"REDIS_CONNSTRING" env-default:"localhost:6379"`
}

type Otel struct {
	Enabled  bool   `yaml:"enabled" env:"OTEL_ENABLED" env-default:"false"`
	Endpoint string `yaml:"endpoint" env:"OTEL_ENDPOINT" env-default:"otel-collector:4317"`
}

// Load reads the configuration.
func Load() (*Config, error) {
	cfg := &Config{}

	var err error
	if path := os.Getenv("CONFIG_PATH"); path != "" {
		err = cleanenv.ReadConfig(path, cfg)
	} else {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("unable to load config: %w", err)
	}

	if err := validator.GetValidator().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// Debug reports whether the log level is debug, in any letter case.
func (c *Config) Debug() bool {
	return strings.EqualFold(c.LogLevel, "debug")
}
