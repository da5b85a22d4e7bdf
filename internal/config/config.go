// Package config reads process-wide settings from the environment. It
// generalizes the teacher's repeated getEnv(key, default) helper
// (internal/db.LoadConfigFromEnv, internal/cache.LoadConfigFromEnv) into
// one viper-backed binding, since this service only has one small knob:
// most configuration (routing settings, render settings, the artifact
// path) travels in the JSON request document, not the environment.
package config

import "github.com/spf13/viper"

const envPrefix = "TRANSITCAT"

// Config holds settings sourced from the environment.
type Config struct {
	// Debug switches the logger to its human-readable development mode.
	Debug bool
}

// Load reads Config from the environment, applying defaults for anything
// unset. Recognized variable: TRANSITCAT_DEBUG.
func Load() Config {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetDefault("debug", false)

	return Config{
		Debug: v.GetBool("debug"),
	}
}
