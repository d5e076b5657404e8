package interfaces

import (
	"context"

	"github.com/bobmcallan/folio/internal/models"
)

// HoldingStore persists the portfolio holdings collection.
type HoldingStore interface {
	GetHolding(ctx context.Context, id string) (*models.Holding, error)
	ListHoldings(ctx context.Context) ([]models.Holding, error)
	SaveHolding(ctx context.Context, holding *models.Holding) error
	DeleteHolding(ctx context.Context, id string) error
}

// BacktestRunStore persists completed backtest run records.
type BacktestRunStore interface {
	SaveRun(ctx context.Context, run *models.BacktestRun) error
	ListRuns(ctx context.Context) ([]models.BacktestRun, error)
}

// KVStore is a small system key-value area (FX rates, history cache).
type KVStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}) error
	Delete(ctx context.Context, key string) error
}

// StorageManager bundles the storage areas behind one lifecycle.
type StorageManager interface {
	Holdings() HoldingStore
	BacktestRuns() BacktestRunStore
	KV() KVStore
	Close() error
}
