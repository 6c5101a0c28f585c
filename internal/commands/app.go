package commands

import (
	"fmt"

	"RallyFinder/internal/cache"
	"RallyFinder/internal/chart"
	"RallyFinder/internal/collector"
	"RallyFinder/internal/config"
	"RallyFinder/internal/logger"
	"RallyFinder/internal/pipeline"

	"github.com/sirupsen/logrus"
)

// app bundles what every subcommand needs.
type app struct {
	cfg     *config.Config
	log     *logrus.Logger
	fetcher collector.Fetcher
	store   cache.Store
}

func setup() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	a := &app{cfg: cfg, log: log, store: cache.NewNoopStore()}
	a.fetcher = newFetcher(cfg, log)

	if cfg.Cache.SQLitePath != "" {
		store, err := cache.NewSQLiteStore(cfg.Cache.SQLitePath, logger.WithComponent(log, "cache"))
		if err != nil {
			log.WithError(err).Warn("init sqlite bar cache failed, fetching uncached")
		} else {
			a.store = store
			a.fetcher = collector.NewCachingFetcher(a.fetcher, store, logger.WithComponent(log, "cache"))
		}
	}
	log.WithField("provider", a.fetcher.Name()).Debug("data source ready")
	return a, nil
}

func newFetcher(cfg *config.Config, log *logrus.Logger) collector.Fetcher {
	ds := cfg.DataSource
	switch ds.Provider {
	case "mock":
		return &collector.MockFetcher{}
	case "rest":
		return collector.NewRESTFetcher(ds.BaseURL, ds.APIKey, cfg.Proxy, ds.Timeout)
	default:
		return collector.NewYahooFetcher(cfg.Proxy, ds.Timeout, logger.WithComponent(log, "yahoo"))
	}
}

func (a *app) runner(outDir string, charts, strict bool) *pipeline.Runner {
	var presenter chart.Presenter = chart.Discard{}
	if charts {
		presenter = chart.NewPNGPresenter(outDir, a.cfg.Output.Width, a.cfg.Output.Height)
	}
	return &pipeline.Runner{
		Fetcher:      a.fetcher,
		Presenter:    presenter,
		Params:       a.cfg.Indicators,
		StrictPeriod: strict,
		Log:          logger.WithComponent(a.log, "pipeline"),
	}
}

func (a *app) close() {
	if err := a.store.Close(); err != nil {
		a.log.WithError(err).Warn("close bar cache")
	}
}
