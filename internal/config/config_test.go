// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every mapped variable so host environment cannot leak into
// the test.
func clearEnv(t *testing.T) {
	t.Helper()
	vars := []string{
		"CONFIG_PATH",
		"HTTP_HOST", "HTTP_PORT", "HTTP_TIMEOUT",
		"LOG_LEVEL", "LOG_FORMAT", "LOG_CALLER",
		"GATEWAY_TIMEOUT", "GATEWAY_RETRY_ATTEMPTS", "GATEWAY_RETRY_DELAY",
		"GATEWAY_MAX_FAILURES", "GATEWAY_FAILURE_RESET_TIME",
		"HUB_HEARTBEAT_INTERVAL", "HUB_IDLE_TIMEOUT",
		"STREAM_GLOBAL_INTERVAL", "STREAM_DEFAULT_INTERVAL", "STREAM_DEFAULT_DURATION",
	}
	for _, v := range vars {
		t.Setenv(v, "")
		require.NoError(t, os.Unsetenv(v))
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := LoadWithKoanf()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, 2, cfg.Gateway.RetryAttempts)
	assert.Equal(t, 3, cfg.Gateway.MaxFailures)
	assert.Equal(t, 5*time.Minute, cfg.Gateway.FailureResetTime)
	assert.Equal(t, 10*time.Second, cfg.Hub.HeartbeatInterval)
	assert.Equal(t, 5*time.Second, cfg.Stream.GlobalInterval)
	assert.Equal(t, 60*time.Second, cfg.Stream.DefaultDuration)
}

func TestEnvOverridesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("GATEWAY_MAX_FAILURES", "5")
	t.Setenv("STREAM_GLOBAL_INTERVAL", "2s")

	cfg, err := LoadWithKoanf()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 5, cfg.Gateway.MaxFailures)
	assert.Equal(t, 2*time.Second, cfg.Stream.GlobalInterval)
}

func TestConfigFileOverridesDefaults(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yamlBody := `
server:
  port: 7070
  timeout: 10s
logging:
  level: warn
  format: console
stream:
  default_interval: 1s
  default_duration: 20s
`
	require.NoError(t, os.WriteFile(path, []byte(yamlBody), 0o600))
	t.Setenv("CONFIG_PATH", path)

	cfg, err := LoadWithKoanf()
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.Timeout)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, time.Second, cfg.Stream.DefaultInterval)
	assert.Equal(t, 20*time.Second, cfg.Stream.DefaultDuration)

	// Unset sections keep their defaults.
	assert.Equal(t, 3, cfg.Gateway.MaxFailures)
}

func TestEnvBeatsConfigFile(t *testing.T) {
	clearEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 7070\n"), 0o600))
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("HTTP_PORT", "6060")

	cfg, err := LoadWithKoanf()
	require.NoError(t, err)
	assert.Equal(t, 6060, cfg.Server.Port)
}

func TestInvalidEnvValueFailsValidation(t *testing.T) {
	clearEnv(t)
	t.Setenv("HTTP_PORT", "99999")

	_, err := LoadWithKoanf()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HTTP_PORT")
}

func TestUnmappedEnvVarsIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv("PATH_STYLE_NOISE", "whatever")

	cfg, err := LoadWithKoanf()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"zero port", func(c *Config) { c.Server.Port = 0 }, "HTTP_PORT"},
		{"negative retry delay", func(c *Config) { c.Gateway.RetryDelay = -time.Second }, "GATEWAY_RETRY_DELAY"},
		{"zero max failures", func(c *Config) { c.Gateway.MaxFailures = 0 }, "GATEWAY_MAX_FAILURES"},
		{"zero heartbeat", func(c *Config) { c.Hub.HeartbeatInterval = 0 }, "HUB_HEARTBEAT_INTERVAL"},
		{"duration below interval", func(c *Config) { c.Stream.DefaultDuration = time.Second }, "STREAM_DEFAULT_DURATION"},
		{"bad log level", func(c *Config) { c.Logging.Level = "verbose" }, "LOG_LEVEL"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "LOG_FORMAT"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := defaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestDefaultsAreValid(t *testing.T) {
	require.NoError(t, defaultConfig().Validate())
}
