package config

import (
	"path/filepath"
	"testing"

	"github.com/labstack/gommon/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dashboard/internal/errors"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("DATA_PATH", "")
	t.Setenv("PREVIEW_ROWS", "")
	t.Setenv("HISTOGRAM_BINS", "")
	t.Setenv("SCATTER_LIMIT", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr())
	assert.Equal(t, DefaultDataFile, filepath.Base(cfg.DataPath))
	assert.Equal(t, 50, cfg.PreviewRows)
	assert.Equal(t, 40, cfg.HistogramBins)
	assert.Equal(t, 5000, cfg.ScatterLimit)
	assert.Equal(t, log.INFO, cfg.LogLevel)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DATA_PATH", "/data/cars.csv")
	t.Setenv("PREVIEW_ROWS", "10")
	t.Setenv("HISTOGRAM_BINS", "not-a-number")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr())
	assert.Equal(t, "/data/cars.csv", cfg.DataPath)
	assert.Equal(t, 10, cfg.PreviewRows)
	assert.Equal(t, 40, cfg.HistogramBins, "unparseable values fall back to the default")
	assert.Equal(t, log.DEBUG, cfg.LogLevel)
}

func TestLoadRejectsNonPositiveSizes(t *testing.T) {
	t.Setenv("SCATTER_LIMIT", "0")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}
