// Package app wires configuration, storage, clients, the tool catalog, and
// the agent into one shared application core.
package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/rfin/internal/agent"
	"github.com/bobmcallan/rfin/internal/clients/gemini"
	"github.com/bobmcallan/rfin/internal/clients/holiday"
	"github.com/bobmcallan/rfin/internal/clients/sectors"
	"github.com/bobmcallan/rfin/internal/clients/storedata"
	"github.com/bobmcallan/rfin/internal/common"
	"github.com/bobmcallan/rfin/internal/dates"
	"github.com/bobmcallan/rfin/internal/interfaces"
	"github.com/bobmcallan/rfin/internal/querycache"
	"github.com/bobmcallan/rfin/internal/storage/chartsink"
	"github.com/bobmcallan/rfin/internal/storage/marketdb"
	"github.com/bobmcallan/rfin/internal/tools"
	"github.com/bobmcallan/rfin/internal/vocab"
)

// App holds all initialized clients, storage, and services.
type App struct {
	Config       *common.Config
	Logger       *common.Logger
	MarketStore  interfaces.MarketStore
	Cache        *querycache.Cache
	Sectors      interfaces.SectorsClient
	StoreData    interfaces.StoreDataClient
	Holidays     interfaces.HolidayCalendar
	Validator    *vocab.Validator
	Resolver     *dates.Resolver
	ChartSink    interfaces.ChartSink
	Registry     *tools.Registry
	Orchestrator *agent.Orchestrator
	StartupTime  time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes the application core. configPath may be empty, in which
// case RFIN_CONFIG, then rfin.toml next to the binary, then config/rfin.toml
// are tried in order.
func NewApp(ctx context.Context, configPath string) (*App, error) {
	binDir := getBinaryDir()

	if configPath == "" {
		configPath = os.Getenv("RFIN_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "rfin.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/rfin.toml" // fallback for development
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative storage paths to the binary directory
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}
	if config.Storage.ChartPath != "" && !filepath.IsAbs(config.Storage.ChartPath) {
		config.Storage.ChartPath = filepath.Join(binDir, config.Storage.ChartPath)
	}

	logger := common.NewLogger(config.Logging.Level)

	marketStore, err := marketdb.NewStore(logger, config.Storage.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open market store: %w", err)
	}

	sink, err := chartsink.NewSink(logger, config.Storage.ChartPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize chart sink: %w", err)
	}

	if config.Clients.Sectors.APIKey == "" {
		logger.Warn().Msg("Sectors API key not configured - provider-backed tools will fail")
	}
	sectorsClient := sectors.NewClient(config.Clients.Sectors.APIKey,
		sectors.WithBaseURL(config.Clients.Sectors.BaseURL),
		sectors.WithRateLimit(config.Clients.Sectors.RateLimit),
		sectors.WithTimeout(config.Clients.Sectors.GetTimeout()),
		sectors.WithLogger(logger),
	)

	storeClient := storedata.NewClient(
		storedata.WithBaseURL(config.Clients.Store.BaseURL),
		storedata.WithTimeout(config.Clients.Store.GetTimeout()),
		storedata.WithLogger(logger),
	)

	holidayClient := holiday.NewClient(
		holiday.WithBaseURL(config.Clients.Holiday.BaseURL),
		holiday.WithTimeout(config.Clients.Holiday.GetTimeout()),
		holiday.WithCacheInterval(config.Clients.Holiday.GetCacheInterval()),
		holiday.WithLogger(logger),
	)

	if config.Clients.Gemini.APIKey == "" {
		logger.Warn().Msg("Gemini API key not configured - chat endpoint will be unavailable")
	}
	geminiClient, err := gemini.NewClient(ctx, config.Clients.Gemini.APIKey,
		gemini.WithModel(config.Clients.Gemini.Model),
		gemini.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Gemini client: %w", err)
	}

	validator := vocab.NewValidator(sectorsClient, logger)
	resolver := dates.NewResolver(holidayClient, logger)
	charts := tools.NewChartRenderer(sink, logger)

	registry := tools.NewRegistry(sectorsClient, storeClient, validator, resolver, charts, logger)
	orchestrator := agent.NewOrchestrator(geminiClient, registry, logger, config.Agent.MaxToolIterations)

	logger.Info().
		Str("environment", config.Environment).
		Str("storage", config.Storage.Path).
		Int("tools", registry.Len()).
		Msg("Application initialized")

	return &App{
		Config:       config,
		Logger:       logger,
		MarketStore:  marketStore,
		Cache:        querycache.New(config.Cache.GetFreshnessWindow(), logger),
		Sectors:      sectorsClient,
		StoreData:    storeClient,
		Holidays:     holidayClient,
		Validator:    validator,
		Resolver:     resolver,
		ChartSink:    sink,
		Registry:     registry,
		Orchestrator: orchestrator,
		StartupTime:  time.Now(),
	}, nil
}

// Close releases held resources.
func (a *App) Close() error {
	if a.MarketStore != nil {
		return a.MarketStore.Close()
	}
	return nil
}
