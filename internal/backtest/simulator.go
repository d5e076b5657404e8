package backtest

import (
	"context"
	"errors"
	"fmt"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// Typed failures the HTTP layer maps to user-facing messages.
var (
	ErrNoHoldings         = errors.New("no holdings with positive value")
	ErrHistoryUnavailable = errors.New("historical prices unavailable")
	ErrNotEnoughHistory   = errors.New("not enough history to backtest")
	ErrUnknownStrategy    = errors.New("unknown strategy")
	ErrRunInProgress      = errors.New("a backtest run is already in progress")
)

// Nominal starting capital for every simulation.
const startValue = 10000.0

// weightedAsset pairs an asset's composite weight with its history window.
type weightedAsset struct {
	id     string
	weight float64
	closes []float64
}

// Simulate replays the strategy over historical closes for the given valued
// holdings. Individual fetch failures are logged and the asset skipped;
// the run fails only when no asset's history is obtainable or the common
// overlap is shorter than two days.
func Simulate(
	ctx context.Context,
	strategyID models.StrategyID,
	periodDays int,
	holdings []models.DetailedHolding,
	fetcher interfaces.HistoricalPriceFetcher,
	logger *common.Logger,
) (*models.BacktestResult, error) {
	strategy, ok := ForID(strategyID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, strategyID)
	}

	qualifying := make([]models.DetailedHolding, 0, len(holdings))
	totalValue := 0.0
	for _, h := range holdings {
		if h.Value > 0 {
			qualifying = append(qualifying, h)
			totalValue += h.Value
		}
	}
	if len(qualifying) == 0 || totalValue <= 0 {
		return nil, ErrNoHoldings
	}

	assets := make([]weightedAsset, 0, len(qualifying))
	skipped := make([]string, 0)
	for _, h := range qualifying {
		points, err := fetcher.GetMarketChart(ctx, h.ID, periodDays+1)
		if err != nil {
			logger.Warn().Err(err).Str("asset", h.ID).Msg("Failed to fetch history, skipping asset")
			skipped = append(skipped, h.ID)
			continue
		}
		closes := models.Prices(points)
		if len(closes) == 0 {
			skipped = append(skipped, h.ID)
			continue
		}
		assets = append(assets, weightedAsset{
			id:     h.ID,
			weight: h.Value / totalValue,
			closes: closes,
		})
	}
	if len(assets) == 0 {
		return nil, ErrHistoryUnavailable
	}

	minLen := len(assets[0].closes)
	for _, a := range assets[1:] {
		if len(a.closes) < minLen {
			minLen = len(a.closes)
		}
	}
	if minLen < 2 {
		return nil, ErrNotEnoughHistory
	}

	pricePath := compositePath(assets, minLen)
	equityCurve := runStrategy(strategy, pricePath)

	strategyStats := computeCurveStats(equityCurve)
	buyHoldStats := computeCurveStats(pricePath)

	assetIDs := make([]string, len(assets))
	for i, a := range assets {
		assetIDs[i] = a.id
	}

	return &models.BacktestResult{
		Strategy:           strategyID,
		PeriodDays:         periodDays,
		StartValue:         startValue,
		BuyHoldCurve:       pricePath,
		StrategyCurve:      equityCurve,
		Sharpe:             strategyStats.Sharpe,
		Sortino:            strategyStats.Sortino,
		MaxDrawdown:        strategyStats.MaxDrawdown,
		BuyHoldSharpe:      buyHoldStats.Sharpe,
		BuyHoldMaxDrawdown: buyHoldStats.MaxDrawdown,
		Assets:             assetIDs,
		Skipped:            skipped,
	}, nil
}

// compositePath builds the weighted value trajectory over the shortest
// common window: each asset normalized to its first close, combined by
// portfolio weight, scaled to the nominal start value.
func compositePath(assets []weightedAsset, length int) []float64 {
	path := make([]float64, length)
	for i := 0; i < length; i++ {
		norm := 0.0
		for _, a := range assets {
			start := a.closes[0]
			if start == 0 {
				continue
			}
			norm += a.weight * (a.closes[i] / start)
		}
		path[i] = startValue * norm
	}
	return path
}

// runStrategy walks the composite path applying the strategy's decisions.
// Buys convert all cash at that day's price; sells convert back wholesale.
// The returned equity curve is marked-to-market daily, aligned with the path.
func runStrategy(strategy Strategy, path []float64) []float64 {
	cash := startValue
	invested := 0.0

	curve := make([]float64, len(path))
	for i, price := range path {
		switch strategy.Evaluate(i, path, invested > 0) {
		case ActionBuy:
			if price > 0 {
				invested = cash / price
				cash = 0
			}
		case ActionSell:
			cash = invested * price
			invested = 0
		}
		curve[i] = cash + invested*price
	}
	return curve
}
