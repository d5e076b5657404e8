package backtest

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
	"github.com/bobmcallan/folio/internal/models"
)

// Valuator is the slice of the portfolio service the simulator needs:
// a current valuation to weight the composite path.
type Valuator interface {
	Valuate(ctx context.Context, currency string) (*models.ValuationResult, error)
}

// Service implements BacktestService: it guards against concurrent runs,
// weights holdings from a fresh valuation, replays the strategy and
// persists a run record.
type Service struct {
	valuator Valuator
	fetcher  interfaces.HistoricalPriceFetcher
	storage  interfaces.StorageManager
	logger   *common.Logger

	mu      sync.Mutex
	running bool
}

// NewService creates a new backtest service.
func NewService(valuator Valuator, fetcher interfaces.HistoricalPriceFetcher, storage interfaces.StorageManager, logger *common.Logger) *Service {
	return &Service{
		valuator: valuator,
		fetcher:  fetcher,
		storage:  storage,
		logger:   logger,
	}
}

// Strategies lists the available strategy ids.
func (s *Service) Strategies() []models.StrategyID {
	return IDs()
}

// Run executes one simulation. Re-entrant invocation while a run is pending
// is rejected with ErrRunInProgress; output is only ever replaced wholesale.
func (s *Service) Run(ctx context.Context, strategy models.StrategyID, periodDays int) (*models.BacktestResult, error) {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return nil, ErrRunInProgress
	}
	s.running = true
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
	}()

	if periodDays < 2 {
		periodDays = 30
	}

	valuation, err := s.valuator.Valuate(ctx, "usd")
	if err != nil {
		return nil, fmt.Errorf("failed to value portfolio: %w", err)
	}

	fetcher := s.fetcher
	if s.storage != nil {
		fetcher = &cachingFetcher{next: s.fetcher, kv: s.storage.KV(), logger: s.logger}
	}

	started := time.Now()
	result, err := Simulate(ctx, strategy, periodDays, valuation.Holdings, fetcher, s.logger)
	if err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("strategy", string(strategy)).
		Int("period_days", periodDays).
		Int("assets", len(result.Assets)).
		Dur("elapsed", time.Since(started)).
		Msg("Backtest completed")

	s.saveRun(ctx, result)

	return result, nil
}

// saveRun persists the run record; storage failures are logged, not fatal.
func (s *Service) saveRun(ctx context.Context, result *models.BacktestResult) {
	if s.storage == nil {
		return
	}
	run := &models.BacktestRun{
		ID:          uuid.NewString(),
		Strategy:    result.Strategy,
		PeriodDays:  result.PeriodDays,
		RunAt:       time.Now(),
		Sharpe:      result.Sharpe,
		Sortino:     result.Sortino,
		MaxDrawdown: result.MaxDrawdown,
		Assets:      result.Assets,
		Skipped:     result.Skipped,
	}
	if n := len(result.StrategyCurve); n > 0 {
		run.FinalValue = result.StrategyCurve[n-1]
	}
	if n := len(result.BuyHoldCurve); n > 0 {
		run.BuyHoldEnd = result.BuyHoldCurve[n-1]
	}
	if err := s.storage.BacktestRuns().SaveRun(ctx, run); err != nil {
		s.logger.Warn().Err(err).Msg("Failed to save backtest run record")
	}
}

// ListRuns returns stored run records, newest first.
func (s *Service) ListRuns(ctx context.Context) ([]models.BacktestRun, error) {
	if s.storage == nil {
		return nil, nil
	}
	runs, err := s.storage.BacktestRuns().ListRuns(ctx)
	if err != nil {
		return nil, err
	}
	sort.Slice(runs, func(i, j int) bool {
		return runs[i].RunAt.After(runs[j].RunAt)
	})
	return runs, nil
}

// cachedHistory is the KV payload for one (asset, days) history window.
type cachedHistory struct {
	FetchedAt time.Time           `json:"fetched_at"`
	Points    []models.PricePoint `json:"points"`
}

// historyCacheTTL bounds how long a cached window is reused.
const historyCacheTTL = time.Hour

// cachingFetcher wraps the market client with a KV-backed cache keyed on
// (asset, days) so repeated backtests don't refetch the feed.
type cachingFetcher struct {
	next   interfaces.HistoricalPriceFetcher
	kv     interfaces.KVStore
	logger *common.Logger
}

func (c *cachingFetcher) GetMarketChart(ctx context.Context, id string, days int) ([]models.PricePoint, error) {
	key := fmt.Sprintf("history:%s:%d", id, days)

	var cached cachedHistory
	if err := c.kv.Get(ctx, key, &cached); err == nil && time.Since(cached.FetchedAt) < historyCacheTTL && len(cached.Points) > 0 {
		return cached.Points, nil
	}

	points, err := c.next.GetMarketChart(ctx, id, days)
	if err != nil {
		return nil, err
	}

	if err := c.kv.Set(ctx, key, cachedHistory{FetchedAt: time.Now(), Points: points}); err != nil {
		c.logger.Debug().Err(err).Str("asset", id).Msg("Failed to cache history window")
	}

	return points, nil
}
