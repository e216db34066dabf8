package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"

	"dashboard/internal/errors"
)

// DefaultDataFile is looked up next to the server binary when DATA_PATH is unset.
const DefaultDataFile = "vehicles_us.csv"

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Port     string
	DataPath string
	LogLevel log.Lvl

	PreviewRows   int
	HistogramBins int
	ScatterLimit  int
}

// Load reads the .env file and returns a validated Config.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Info("[config] No .env file found, falling back to system env vars")
	}

	cfg := &Config{
		Port:     getEnv("PORT", "8080"),
		DataPath: getEnv("DATA_PATH", defaultDataPath()),
		LogLevel: parseLevel(getEnv("LOG_LEVEL", "info")),

		PreviewRows:   getEnvInt("PREVIEW_ROWS", 50),
		HistogramBins: getEnvInt("HISTOGRAM_BINS", 40),
		ScatterLimit:  getEnvInt("SCATTER_LIMIT", 5000),
	}

	if err := cfg.validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return cfg, nil
}

// Addr returns the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

func (c *Config) validate() error {
	if c.DataPath == "" {
		return errors.ConfigInvalid("DATA_PATH is required")
	}
	if c.PreviewRows <= 0 {
		return errors.ConfigInvalid("PREVIEW_ROWS must be positive")
	}
	if c.HistogramBins <= 0 {
		return errors.ConfigInvalid("HISTOGRAM_BINS must be positive")
	}
	if c.ScatterLimit <= 0 {
		return errors.ConfigInvalid("SCATTER_LIMIT must be positive")
	}
	return nil
}

// defaultDataPath resolves the dataset relative to the running binary,
// falling back to the working directory.
func defaultDataPath() string {
	exe, err := os.Executable()
	if err != nil {
		return DefaultDataFile
	}
	return filepath.Join(filepath.Dir(exe), DefaultDataFile)
}

func parseLevel(s string) log.Lvl {
	switch strings.ToLower(s) {
	case "debug":
		return log.DEBUG
	case "warn", "warning":
		return log.WARN
	case "error":
		return log.ERROR
	case "off":
		return log.OFF
	default:
		return log.INFO
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
