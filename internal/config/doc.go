// Package config handles configuration loading and resolution for flake.
//
// # Configuration Precedence
//
// Configuration values are resolved in the following order (highest to lowest priority):
//
//  1. CLI flags (-format, -theme, -no-color, -only, -log-level, -log-format)
//  2. Environment variables (FLAKE_FORMAT, FLAKE_THEME, FLAKE_NO_COLOR, NO_COLOR, FLAKE_ONLY, FLAKE_LOG_LEVEL)
//  3. YAML config file (.flake.yaml in the working directory or $XDG_CONFIG_HOME/flake/.flake.yaml)
//  4. Hardcoded defaults
//
// When a higher-priority source sets a value, it overrides any lower-priority values.
// Every resolved value records the source it came from, which the CLI logs at
// debug level.
//
// # Example
//
//	format: llm
//	theme: orca
//	only: flaky
//	log_level: info
package config
