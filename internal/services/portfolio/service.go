// Package portfolio orchestrates holdings management and the analytics
// core: valuation refresh, synthetic series, indicators and risk metrics.
package portfolio

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/bobmcallan/folio/internal/analytics"
	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// fxRatesKey is the KV key the FX table persists under.
const fxRatesKey = "fx_rates"

// valuationTTL bounds how long a cached valuation is reused by the series
// and metrics endpoints before prices are refreshed.
const valuationTTL = time.Minute

// Service implements PortfolioService.
type Service struct {
	storage interfaces.StorageManager
	market  interfaces.MarketDataClient
	cache   *analytics.SeriesCache
	logger  *common.Logger

	defaultCurrency string

	mu            sync.Mutex
	fxRates       models.FXRates
	lastValuation *models.ValuationResult
}

// NewService creates a new portfolio service.
func NewService(storage interfaces.StorageManager, market interfaces.MarketDataClient, config *common.Config, logger *common.Logger) *Service {
	s := &Service{
		storage:         storage,
		market:          market,
		cache:           analytics.NewSeriesCache(),
		logger:          logger,
		defaultCurrency: config.DisplayCurrency,
		fxRates:         models.FXRates{"usd": 1},
	}
	s.loadFXRates()
	return s
}

// loadFXRates restores the persisted FX table, if any.
func (s *Service) loadFXRates() {
	var rates models.FXRates
	if err := s.storage.KV().Get(context.Background(), fxRatesKey, &rates); err == nil && len(rates) > 0 {
		s.mu.Lock()
		s.fxRates = rates
		s.mu.Unlock()
	}
}

// AddHolding adds a new position, or tops up an existing one with a
// weighted-average cost basis recompute. The buy price arrives in the
// entry currency and is converted to USD before storing.
func (s *Service) AddHolding(ctx context.Context, input interfaces.HoldingInput) (*models.Holding, error) {
	if input.ID == "" {
		return nil, fmt.Errorf("asset id is required")
	}
	if input.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}

	buyPriceUSD := s.toUSD(input.BuyPrice, input.EntryCurrency)

	existing, err := s.storage.Holdings().GetHolding(ctx, input.ID)
	if err == nil {
		// Top-up: recompute the weighted-average cost across old and new units.
		totalAmount := existing.Amount + input.Amount
		addCost := buyPriceUSD
		if addCost == 0 {
			addCost = existing.BuyPriceUSD
		}
		newCost := (existing.BuyPriceUSD*existing.Amount + addCost*input.Amount) / totalAmount
		existing.Amount = totalAmount
		if newCost > 0 {
			existing.BuyPriceUSD = newCost
		}
		if err := s.storage.Holdings().SaveHolding(ctx, existing); err != nil {
			return nil, err
		}
		s.logger.Info().Str("id", existing.ID).Float64("amount", existing.Amount).Msg("Position topped up")
		return existing, nil
	}

	holding := &models.Holding{
		ID:          input.ID,
		Symbol:      strings.ToUpper(firstNonEmpty(input.Symbol, input.ID)),
		Name:        firstNonEmpty(input.Name, input.ID),
		Amount:      input.Amount,
		BuyPriceUSD: buyPriceUSD,
	}
	if err := s.storage.Holdings().SaveHolding(ctx, holding); err != nil {
		return nil, err
	}
	s.logger.Info().Str("id", holding.ID).Float64("amount", holding.Amount).Msg("Position added")
	return holding, nil
}

// UpdateHolding replaces an existing position's amount and cost basis.
func (s *Service) UpdateHolding(ctx context.Context, input interfaces.HoldingInput) (*models.Holding, error) {
	if input.Amount <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}

	holding, err := s.storage.Holdings().GetHolding(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	holding.Amount = input.Amount
	holding.BuyPriceUSD = s.toUSD(input.BuyPrice, input.EntryCurrency)
	if err := s.storage.Holdings().SaveHolding(ctx, holding); err != nil {
		return nil, err
	}
	s.logger.Info().Str("id", holding.ID).Float64("amount", holding.Amount).Msg("Position updated")
	return holding, nil
}

// RemoveHolding deletes a position.
func (s *Service) RemoveHolding(ctx context.Context, id string) error {
	if err := s.storage.Holdings().DeleteHolding(ctx, id); err != nil {
		return err
	}
	s.logger.Info().Str("id", id).Msg("Position removed")
	return nil
}

// ListHoldings returns the stored holdings.
func (s *Service) ListHoldings(ctx context.Context) ([]models.Holding, error) {
	return s.storage.Holdings().ListHoldings(ctx)
}

// Valuate refreshes live prices and computes the valuation snapshot.
// When the feed is entirely unavailable, deterministic fallback quotes keep
// the snapshot rendering; the result is flagged accordingly.
func (s *Service) Valuate(ctx context.Context, currency string) (*models.ValuationResult, error) {
	currency = strings.ToLower(currency)
	if currency == "" {
		currency = s.defaultCurrency
	}
	if !common.IsSupportedCurrency(currency) {
		return nil, fmt.Errorf("unsupported currency: %s", currency)
	}

	holdings, err := s.storage.Holdings().ListHoldings(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load holdings: %w", err)
	}

	ids := make([]string, 0, len(holdings)+1)
	for _, h := range holdings {
		ids = append(ids, h.ID)
	}
	// Tether is always included so the FX table refreshes off its quote row.
	ids = appendUnique(ids, "tether")

	source := "live"
	quotes, err := s.market.GetSimplePrices(ctx, ids, common.SupportedCurrencies)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Live price feed unavailable, using fallback quotes")
		quotes = fallbackQuotes(ids, s.currentFXRates(), time.Now().UnixMilli())
		source = "fallback"
	} else {
		s.refreshFXRates(ctx, quotes)
	}

	rate := s.currentFXRates().Rate(currency)
	result := analytics.Valuate(holdings, quotes, currency, rate)
	result.Source = source

	s.mu.Lock()
	s.lastValuation = result
	s.mu.Unlock()

	return result, nil
}

// Series returns the synthetic value series for a timeframe, anchored to
// the current total value.
func (s *Service) Series(ctx context.Context, timeframe models.Timeframe) ([]models.SeriesPoint, error) {
	if !timeframe.Valid() {
		return nil, fmt.Errorf("unknown timeframe: %s", timeframe)
	}

	total, err := s.currentTotalValue(ctx)
	if err != nil {
		return nil, err
	}

	return s.cache.Ensure(timeframe, total), nil
}

// Indicators computes the indicator overlays for a timeframe's series.
func (s *Service) Indicators(ctx context.Context, timeframe models.Timeframe) (*models.IndicatorSet, error) {
	series, err := s.Series(ctx, timeframe)
	if err != nil {
		return nil, err
	}
	return analytics.ComputeIndicators(series), nil
}

// RiskMetrics computes series metrics over the 30d series plus 1-day and
// 5-day Value-at-Risk at 95% confidence.
func (s *Service) RiskMetrics(ctx context.Context) (*models.RiskReport, error) {
	total, err := s.currentTotalValue(ctx)
	if err != nil {
		return nil, err
	}

	series := s.cache.Ensure(models.Timeframe30d, total)
	metrics := analytics.ComputeSeriesMetrics(series)
	dailyVol := analytics.DailyVolatility(metrics.Volatility)

	report := &models.RiskReport{
		Metrics:    metrics,
		TotalValue: total,
		VaR1Day:    models.Unknown(),
		VaR5Day:    models.Unknown(),
	}
	if total > 0 && !metrics.Volatility.IsUnknown() {
		report.VaR1Day = models.NullFloat(analytics.ValueAtRisk(total, dailyVol, 1))
		report.VaR5Day = models.NullFloat(analytics.ValueAtRisk(total, dailyVol, 5))
	}

	return report, nil
}

// currentTotalValue returns the last valuation's total, refreshing prices
// when the cached snapshot is stale or absent.
func (s *Service) currentTotalValue(ctx context.Context) (float64, error) {
	s.mu.Lock()
	last := s.lastValuation
	s.mu.Unlock()

	if last != nil && time.Since(last.AsOf) < valuationTTL {
		return last.Totals.TotalValue, nil
	}

	result, err := s.Valuate(ctx, s.defaultCurrency)
	if err != nil {
		return 0, err
	}
	return result.Totals.TotalValue, nil
}

// refreshFXRates derives the FX table from the tether quote row and
// persists it. Tether tracks USD, so its price in each currency is the
// USD multiplier.
func (s *Service) refreshFXRates(ctx context.Context, quotes models.QuoteBook) {
	tether, ok := quotes["tether"]
	if !ok {
		return
	}
	usd, hasUSD := tether.USD()
	if !hasUSD || usd == 0 {
		usd = 1
	}

	rates := models.FXRates{}
	for _, code := range common.SupportedCurrencies {
		if v, ok := tether[code]; ok && v > 0 {
			rates[code] = v / usd
		}
	}
	if len(rates) == 0 {
		return
	}
	rates["usd"] = 1

	s.mu.Lock()
	s.fxRates = rates
	s.mu.Unlock()

	if err := s.storage.KV().Set(ctx, fxRatesKey, rates); err != nil {
		s.logger.Debug().Err(err).Msg("Failed to persist FX rates")
	}
}

// currentFXRates returns a copy of the FX table.
func (s *Service) currentFXRates() models.FXRates {
	s.mu.Lock()
	defer s.mu.Unlock()
	rates := make(models.FXRates, len(s.fxRates))
	for k, v := range s.fxRates {
		rates[k] = v
	}
	return rates
}

// toUSD converts a buy price from the entry currency to USD. Zero or
// negative input means the cost basis is unknown.
func (s *Service) toUSD(price float64, entryCurrency string) float64 {
	if price <= 0 {
		return 0
	}
	code := strings.ToLower(entryCurrency)
	if code == "" || code == "usd" {
		return price
	}
	rate := s.currentFXRates().Rate(code)
	return price / rate
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func appendUnique(ids []string, id string) []string {
	for _, existing := range ids {
		if existing == id {
			return ids
		}
	}
	return append(ids, id)
}
