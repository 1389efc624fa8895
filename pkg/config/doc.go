// Package config handles configuration management for fmm.
// It layers the embedded defaults, the user's config.toml and FMM_*
// environment variables with koanf, and persists the game setup back to
// config.toml.
package config
