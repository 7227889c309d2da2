package config

import (
	"github.com/kelseyhightower/envconfig"

	"logpull/internal/cache"
)

// Settings are the ambient knobs read from LOGPULL_* environment variables.
// Per-invocation parameters (group, stream, counts) come from flags instead.
type Settings struct {
	// PageLimit caps events requested per GetLogEvents page; 0 leaves the
	// page size to the service.
	PageLimit int32 `envconfig:"PAGE_LIMIT" default:"10000"`
	// MaxPages bounds fetches per assembly as a stall guard; 0 disables it.
	// Must stay large enough for legitimate long streams.
	MaxPages int `envconfig:"MAX_PAGES" default:"10000"`
	// Workers bounds concurrent stream assemblies during preview.
	Workers int `envconfig:"WORKERS" default:"4"`
	// CacheDir holds full-stream transcript cache files.
	CacheDir string `envconfig:"CACHE_DIR"`
	// LogLevel is a zerolog level name (debug, info, warn, error).
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads settings from the environment.
func Load() (Settings, error) {
	var s Settings
	if err := envconfig.Process("LOGPULL", &s); err != nil {
		return Settings{}, err
	}
	if s.CacheDir == "" {
		s.CacheDir = cache.DefaultDir()
	}
	return s, nil
}
