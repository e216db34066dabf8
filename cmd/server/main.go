package main

import (
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/labstack/gommon/log"

	"dashboard/internal/api"
	"dashboard/internal/config"
	"dashboard/internal/engine"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("STARTUP: %v", err)
	}
	log.SetLevel(cfg.LogLevel)

	// 1. Load the dataset once, up front. A missing or unreadable file is fatal.
	t0 := time.Now()
	source := engine.NewSource(cfg.DataPath)
	store, err := source.Store()
	if err != nil {
		log.Fatalf("STARTUP: dataset %s unavailable: %v", source.Path(), err)
	}
	log.Infof("STARTUP: dataset ready in %v (%d rows, %d columns)", time.Since(t0), store.Rows, len(store.Headers))

	// 2. Initialize Echo
	e := echo.New()
	e.HideBanner = true
	e.Logger.SetLevel(cfg.LogLevel)
	e.Use(middleware.CORS())
	e.Use(middleware.Recover())
	e.Use(middleware.Logger())

	// 3. Every request re-runs filter -> summarize -> render over the cached store
	h := api.NewHandler(source, engine.AggregateOptions{
		PreviewRows: cfg.PreviewRows,
		Charts: engine.ChartOptions{
			HistogramBins: cfg.HistogramBins,
			ScatterLimit:  cfg.ScatterLimit,
		},
	})
	h.RegisterRoutes(e)

	log.Infof("Server ready on %s", cfg.Addr())
	e.Logger.Fatal(e.Start(cfg.Addr()))
}
