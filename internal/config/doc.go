// Signalcast - Campaign Recommendation Streaming Simulator
// Copyright 2026 Signalcast contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/signalcast/signalcast

/*
Package config loads and validates server configuration.

Configuration is layered with Koanf v2: built-in defaults, then an optional
YAML config file, then environment variables. Environment variables take the
highest precedence and use flat legacy names (HTTP_PORT, LOG_LEVEL,
GATEWAY_TIMEOUT) mapped onto the nested structure. The config file is found
via CONFIG_PATH or the standard search paths (config.yaml in the working
directory, then /etc/signalcast).

Every load ends with Validate, so a Config obtained from LoadWithKoanf is
always internally consistent.
*/
package config
