// Package interfaces defines service, client and storage contracts for Folio
package interfaces

import (
	"context"

	"github.com/bobmcallan/folio/internal/models"
)

// MarketDataClient is the live and historical price feed collaborator.
type MarketDataClient interface {
	// GetSimplePrices returns quote rows for the given asset ids in the given
	// currencies, including 24h change columns. Missing ids are tolerated.
	GetSimplePrices(ctx context.Context, ids []string, currencies []string) (models.QuoteBook, error)

	// GetMarketChart returns daily closes for an asset, oldest first,
	// covering at least the requested number of days.
	GetMarketChart(ctx context.Context, id string, days int) ([]models.PricePoint, error)
}

// HistoricalPriceFetcher is the narrow fetch contract the backtest simulator
// depends on. MarketDataClient satisfies it.
type HistoricalPriceFetcher interface {
	GetMarketChart(ctx context.Context, id string, days int) ([]models.PricePoint, error)
}
