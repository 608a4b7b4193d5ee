// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

package sources

import (
	"fmt"
	"sync"
)

// APIConfig holds the upstream connection settings for a real_api source.
type APIConfig struct {
	Endpoint   string `json:"endpoint,omitempty" validate:"omitempty,url"`
	AuthToken  string `json:"authToken,omitempty"`
	WebhookURL string `json:"webhookUrl,omitempty" validate:"omitempty,url"`
}

// Config is the mutable per-source configuration. Sources default to mocked
// and enabled; flipping Type to real_api routes fetches through the gateway's
// HTTP client.
type Config struct {
	Type    SourceType `json:"type" validate:"required,oneof=mocked real_api"`
	Enabled bool       `json:"enabled"`
	API     *APIConfig `json:"apiConfig,omitempty"`
}

// Registry owns the per-source configuration map. All state is process
// memory; it resets on restart. Methods are safe for concurrent use.
type Registry struct {
	mu      sync.RWMutex
	configs map[string]Config
}

// NewRegistry creates a registry seeded with the catalog defaults: every
// known source mocked and enabled.
func NewRegistry() *Registry {
	configs := make(map[string]Config, len(catalog))
	for _, d := range catalog {
		configs[d.ID] = Config{Type: d.Type, Enabled: true}
	}
	return &Registry{configs: configs}
}

// Config returns the current configuration for id.
func (r *Registry) Config(id string) (Config, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.configs[id]
	return cfg, ok
}

// SetConfig replaces the configuration for a known source.
func (r *Registry) SetConfig(id string, cfg Config) error {
	if _, ok := Lookup(id); !ok {
		return fmt.Errorf("unknown data source %q", id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[id] = cfg
	return nil
}

// SetEnabled toggles a known source without touching the rest of its config.
func (r *Registry) SetEnabled(id string, enabled bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	cfg, ok := r.configs[id]
	if !ok {
		return fmt.Errorf("unknown data source %q", id)
	}
	cfg.Enabled = enabled
	r.configs[id] = cfg
	return nil
}

// Snapshot returns a copy of every source's configuration keyed by id.
func (r *Registry) Snapshot() map[string]Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]Config, len(r.configs))
	for id, cfg := range r.configs {
		out[id] = cfg
	}
	return out
}
