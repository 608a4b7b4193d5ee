// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

package config

import (
	"fmt"
	"time"
)

// Config is the root configuration for the signalcast server.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Logging LoggingConfig `koanf:"logging"`
	Gateway GatewayConfig `koanf:"gateway"`
	Hub     HubConfig     `koanf:"hub"`
	Stream  StreamConfig  `koanf:"stream"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`
}

// LoggingConfig holds logging settings for zerolog.
//
// Environment Variables:
//   - LOG_LEVEL: trace, debug, info, warn, error (default: info)
//   - LOG_FORMAT: json, console (default: json)
//   - LOG_CALLER: true/false - include caller file:line (default: false)
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// GatewayConfig holds upstream data source fetch settings.
type GatewayConfig struct {
	// Timeout bounds a single upstream request.
	Timeout time.Duration `koanf:"timeout"`

	// RetryAttempts is the number of retries after the initial attempt.
	RetryAttempts int `koanf:"retry_attempts"`

	// RetryDelay is the base delay between retries; the actual delay grows
	// linearly with the attempt number.
	RetryDelay time.Duration `koanf:"retry_delay"`

	// MaxFailures is the per-source failure count that temporarily disables
	// a source.
	MaxFailures int `koanf:"max_failures"`

	// FailureResetTime is the rolling window after which a disabled source
	// is re-enabled automatically.
	FailureResetTime time.Duration `koanf:"failure_reset_time"`
}

// HubConfig holds websocket hub settings.
type HubConfig struct {
	HeartbeatInterval time.Duration `koanf:"heartbeat_interval"`
	IdleTimeout       time.Duration `koanf:"idle_timeout"`
}

// StreamConfig holds recommendation streaming cadence settings.
type StreamConfig struct {
	// GlobalInterval is the broadcast tick for all simulating clients.
	GlobalInterval time.Duration `koanf:"global_interval"`

	// DefaultInterval applies to client simulations that do not set one.
	DefaultInterval time.Duration `koanf:"default_interval"`

	// DefaultDuration applies to client simulations that do not set one.
	DefaultDuration time.Duration `koanf:"default_duration"`
}

// Validate checks that required configuration is present and valid.
func (c *Config) Validate() error {
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateGateway(); err != nil {
		return err
	}
	if err := c.validateHub(); err != nil {
		return err
	}
	if err := c.validateStream(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535, got %d", c.Server.Port)
	}
	if c.Server.Timeout <= 0 {
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.Server.Timeout)
	}
	return nil
}

func (c *Config) validateGateway() error {
	if c.Gateway.Timeout <= 0 {
		return fmt.Errorf("GATEWAY_TIMEOUT must be positive, got %s", c.Gateway.Timeout)
	}
	if c.Gateway.RetryAttempts < 0 {
		return fmt.Errorf("GATEWAY_RETRY_ATTEMPTS must not be negative, got %d", c.Gateway.RetryAttempts)
	}
	if c.Gateway.RetryDelay < 0 {
		return fmt.Errorf("GATEWAY_RETRY_DELAY must not be negative, got %s", c.Gateway.RetryDelay)
	}
	if c.Gateway.MaxFailures < 1 {
		return fmt.Errorf("GATEWAY_MAX_FAILURES must be at least 1, got %d", c.Gateway.MaxFailures)
	}
	if c.Gateway.FailureResetTime <= 0 {
		return fmt.Errorf("GATEWAY_FAILURE_RESET_TIME must be positive, got %s", c.Gateway.FailureResetTime)
	}
	return nil
}

func (c *Config) validateHub() error {
	if c.Hub.HeartbeatInterval <= 0 {
		return fmt.Errorf("HUB_HEARTBEAT_INTERVAL must be positive, got %s", c.Hub.HeartbeatInterval)
	}
	if c.Hub.IdleTimeout <= 0 {
		return fmt.Errorf("HUB_IDLE_TIMEOUT must be positive, got %s", c.Hub.IdleTimeout)
	}
	return nil
}

func (c *Config) validateStream() error {
	if c.Stream.GlobalInterval <= 0 {
		return fmt.Errorf("STREAM_GLOBAL_INTERVAL must be positive, got %s", c.Stream.GlobalInterval)
	}
	if c.Stream.DefaultInterval <= 0 {
		return fmt.Errorf("STREAM_DEFAULT_INTERVAL must be positive, got %s", c.Stream.DefaultInterval)
	}
	if c.Stream.DefaultDuration < c.Stream.DefaultInterval {
		return fmt.Errorf("STREAM_DEFAULT_DURATION must be at least the default interval (%s), got %s",
			c.Stream.DefaultInterval, c.Stream.DefaultDuration)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "trace", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of trace, debug, info, warn, error; got %q", c.Logging.Level)
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("LOG_FORMAT must be json or console, got %q", c.Logging.Format)
	}
	return nil
}
