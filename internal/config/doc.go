// Package config handles configuration loading, parsing, and validation
// from various sources (defaults, a YAML file, environment variables). It
// provides type-safe access to scheduler and logging settings while keeping
// configuration details separate from the scheduling logic.
package config
