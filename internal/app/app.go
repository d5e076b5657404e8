// Package app wires configuration, storage, clients and services into the
// shared application core used by the server entrypoint.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bobmcallan/folio/internal/backtest"
	"github.com/bobmcallan/folio/internal/clients/coingecko"
	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/services/portfolio"
	"github.com/bobmcallan/folio/internal/storage"
)

// App holds all initialized services, clients and storage.
type App struct {
	Config           *common.Config
	Logger           *common.Logger
	Storage          interfaces.StorageManager
	MarketClient     interfaces.MarketDataClient
	PortfolioService interfaces.PortfolioService
	BacktestService  interfaces.BacktestService
	StartupTime      time.Time
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// NewApp initializes all services, clients and storage.
// configPath may be empty, in which case the default resolution logic is used.
func NewApp(configPath string) (*App, error) {
	binDir := getBinaryDir()

	// Resolve config: provided path, FOLIO_CONFIG, binary dir, dev fallback.
	if configPath == "" {
		configPath = os.Getenv("FOLIO_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(binDir, "folio.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/folio.toml"
		}
	}

	config, err := common.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Resolve relative paths to the binary directory for self-contained runs.
	if config.Storage.Path != "" && !filepath.IsAbs(config.Storage.Path) {
		config.Storage.Path = filepath.Join(binDir, config.Storage.Path)
	}
	if config.Logging.FilePath != "" && !filepath.IsAbs(config.Logging.FilePath) {
		config.Logging.FilePath = filepath.Join(binDir, config.Logging.FilePath)
	}

	logger := common.NewLoggerFromConfig(config.Logging)

	storageManager, err := storage.NewManager(logger, config)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	cgConfig := config.Clients.CoinGecko
	marketClient := coingecko.NewClient(
		coingecko.WithBaseURL(cgConfig.BaseURL),
		coingecko.WithAPIKey(cgConfig.APIKey),
		coingecko.WithRateLimit(cgConfig.RateLimit),
		coingecko.WithTimeout(cgConfig.GetTimeout()),
		coingecko.WithRetries(cgConfig.Retries),
		coingecko.WithLogger(logger),
	)

	portfolioService := portfolio.NewService(storageManager, marketClient, config, logger)
	backtestService := backtest.NewService(portfolioService, marketClient, storageManager, logger)

	logger.Info().
		Str("environment", config.Environment).
		Str("currency", config.DisplayCurrency).
		Str("storage", config.Storage.Path).
		Msg("Application initialized")

	return &App{
		Config:           config,
		Logger:           logger,
		Storage:          storageManager,
		MarketClient:     marketClient,
		PortfolioService: portfolioService,
		BacktestService:  backtestService,
		StartupTime:      time.Now(),
	}, nil
}

// Close releases application resources.
func (a *App) Close() {
	if a.Storage != nil {
		if err := a.Storage.Close(); err != nil {
			a.Logger.Warn().Err(err).Msg("Failed to close storage")
		}
	}
}
