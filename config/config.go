// Package config holds the run configuration for the carprice pipeline,
// loaded from a .env file or the process environment. Random seeds and
// split fractions are deliberately not configurable: they are named
// constants in their owning packages so that every run of the study is
// reproducible.
package config

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/YuminosukeSato/carprice/pkg/log"
)

// Config holds the application configuration.
type Config struct {
	// DataPath is the advertisement CSV to load.
	DataPath string
	// OutDir receives the rendered PNG figures.
	OutDir string
	// LogLevel is the zerolog level name for the run.
	LogLevel string
}

// Load reads the .env file, if present, and returns the configuration
// with environment overrides applied.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.GetLoggerWithName("config").Debug("no .env file found, using system env vars")
	}

	return &Config{
		DataPath: getEnv("CARPRICE_DATA", "data/ad_table.csv"),
		OutDir:   getEnv("CARPRICE_OUT", "figures"),
		LogLevel: getEnv("CARPRICE_LOG_LEVEL", "info"),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}
