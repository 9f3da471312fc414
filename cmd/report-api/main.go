package main

import (
	"flag"

	_ "covid-report/docs"
	"covid-report/internal/api"
	"covid-report/internal/api/handler"
	"covid-report/internal/config"
	"covid-report/internal/dataset"
	"covid-report/internal/export"
	"covid-report/internal/logging"
	"covid-report/internal/report"
	"covid-report/internal/store"
	"covid-report/pkg/router"
)

// @title COVID-19 Report API
// @version 1.0
// @description Load, clean and aggregate COVID-19 snapshots and serve the derived report views.
// @BasePath /api/v1
func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logging.Fatal().Err(err).Msg("failed to load config")
	}
	logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})

	if err := store.InitDB(cfg.Store.Path); err != nil {
		logging.Fatal().Err(err).Msg("failed to init store")
	}

	loader := dataset.NewLoader(cfg.Data.TimeSeriesPath, cfg.Data.SnapshotPath)
	engine := report.NewEngine(loader)
	exporter := export.New(cfg.Export.Dir)
	h := handler.New(engine, exporter, cfg.Server.RefreshTimeout)

	r := router.New()
	api.RegisterRoutes(r, h)
	r.Start(cfg.Server.Addr)
}
