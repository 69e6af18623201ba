package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Defaults apply when only the secret is set", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s3cret")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, ":8080", cfg.HTTPAddr)
		assert.Equal(t, "info", cfg.LogLevel)
		assert.False(t, cfg.Redis.Enabled)
		assert.Equal(t, "localhost:6379", cfg.Redis.ConnString)
		assert.False(t, cfg.Otel.Enabled)
		assert.Equal(t, "otel-collector:4317", cfg.Otel.Endpoint)
		assert.Equal(t, 72*time.Hour, cfg.TokenTTL)
		assert.Equal(t, 300*time.Millisecond, cfg.ComputerMoveDelay)
		assert.Equal(t, 10*time.Second, cfg.HeartbeatInterval)
	})

	t.Run("Environment overrides defaults", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "s3cret")
		t.Setenv("HTTP_ADDR", ":9090")
		t.Setenv("REDIS_ENABLED", "true")
		t.Setenv("COMPUTER_MOVE_DELAY", "0s")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, ":9090", cfg.HTTPAddr)
		assert.True(t, cfg.Redis.Enabled)
		assert.Zero(t, cfg.ComputerMoveDelay)
	})

	t.Run("Missing secret fails", func(t *testing.T) {
		t.Setenv("JWT_SECRET", "")
		os.Unsetenv("JWT_SECRET")

		_, err := Load()

		assert.Error(t, err)
	})

	t.Run("Bad values fail validation", func(t *testing.T) {
		tests := []struct {
			name  string
			key   string
			value string
		}{
			{name: "Unknown log level", key: "LOG_LEVEL", value: "chatty"},
			{name: "Zero heartbeat", key: "HEARTBEAT_INTERVAL", value: "0s"},
			{name: "Negative delay", key: "COMPUTER_MOVE_DELAY", value: "-1s"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				t.Setenv("JWT_SECRET", "s3cret")
				t.Setenv(tt.key, tt.value)

				_, err := Load()

				assert.Error(t, err)
			})
		}
	})

	t.Run("YAML file is read when CONFIG_PATH is set", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yml")
		content := "http-addr: \":7070\"\njwt-secret: from-file\nredis:\n  enabled: true\n  connstring: redis:6379\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
		t.Setenv("CONFIG_PATH", path)
		t.Setenv("JWT_SECRET", "")
		os.Unsetenv("JWT_SECRET")

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, ":7070", cfg.HTTPAddr)
		assert.Equal(t, "from-file", cfg.JWTSecret)
		assert.Equal(t, "redis:6379", cfg.Redis.ConnString)
		assert.Equal(t, 300*time.Millisecond, cfg.ComputerMoveDelay)
	})
}

func TestConfig_Debug(t *testing.T) {
	tests := []struct {
		level string
		want  bool
	}{
		{level: "debug", want: true},
		{level: "DEBUG", want: true},
		{level: "info", want: false},
		{level: "ERROR", want: false},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := &Config{LogLevel: tt.level}
			assert.Equal(t, tt.want, cfg.Debug())
		})
	}
}

func TestLoad_UpperCaseDebug(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()

	require.NoError(t, err)
	assert.True(t, cfg.Debug())
}
