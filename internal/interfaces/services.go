package interfaces

import (
	"context"

	"github.com/bobmcallan/folio/internal/models"
)

// HoldingInput is the payload for adding or editing a position.
// BuyPrice is in EntryCurrency; the service converts it to USD.
type HoldingInput struct {
	ID            string  `json:"id"`
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Amount        float64 `json:"amount"`
	BuyPrice      float64 `json:"buy_price"`
	EntryCurrency string  `json:"entry_currency"`
}

// PortfolioService manages holdings and derives analytics from them.
type PortfolioService interface {
	AddHolding(ctx context.Context, input HoldingInput) (*models.Holding, error)
	UpdateHolding(ctx context.Context, input HoldingInput) (*models.Holding, error)
	RemoveHolding(ctx context.Context, id string) error
	ListHoldings(ctx context.Context) ([]models.Holding, error)

	// Valuate refreshes live prices and computes the valuation snapshot in
	// the given display currency (falls back to configured default on "").
	Valuate(ctx context.Context, currency string) (*models.ValuationResult, error)

	// Series returns the synthetic value series for a timeframe, anchored
	// to the current total value.
	Series(ctx context.Context, timeframe models.Timeframe) ([]models.SeriesPoint, error)

	// Indicators computes the indicator overlays for a timeframe's series.
	Indicators(ctx context.Context, timeframe models.Timeframe) (*models.IndicatorSet, error)

	// RiskMetrics computes series metrics and VaR from the 30d series.
	RiskMetrics(ctx context.Context) (*models.RiskReport, error)

	// RenderChart renders the synthetic series with Bollinger overlay as PNG.
	RenderChart(ctx context.Context, timeframe models.Timeframe) ([]byte, error)
}

// BacktestService replays a strategy over real historical closes.
type BacktestService interface {
	Run(ctx context.Context, strategy models.StrategyID, periodDays int) (*models.BacktestResult, error)
	ListRuns(ctx context.Context) ([]models.BacktestRun, error)
	Strategies() []models.StrategyID
}
