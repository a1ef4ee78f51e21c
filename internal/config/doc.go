// Package config handles configuration loading and defaults.
//
// Configuration is loaded from multiple sources in priority order:
//  1. Built-in defaults
//  2. User config file ($XDG_CONFIG_HOME/tada/tada.toml or the OS equivalent)
//  3. Project config file (./tada.toml, ./.tada.toml, or the -config path)
//  4. A .env file in the working directory (never overrides real variables)
//  5. Environment variables (TADA_*, CONNECTION_AI_*, PORT, REDIS_ADDR, GOOGLE_CLOUD_PROJECT)
//  6. CLI flags
//
// Each level overrides the previous one, so CLI flags take precedence.
package config
