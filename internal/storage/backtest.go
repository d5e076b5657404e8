package storage

import (
	"context"
	"fmt"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
)

type backtestRunStore struct {
	store  *Store
	logger *common.Logger
}

func (s *backtestRunStore) SaveRun(_ context.Context, run *models.BacktestRun) error {
	if run.ID == "" {
		return fmt.Errorf("backtest run id is required")
	}
	if err := s.store.db.Upsert(run.ID, run); err != nil {
		return fmt.Errorf("failed to save backtest run: %w", err)
	}
	s.logger.Debug().Str("id", run.ID).Str("strategy", string(run.Strategy)).Msg("Backtest run saved")
	return nil
}

func (s *backtestRunStore) ListRuns(_ context.Context) ([]models.BacktestRun, error) {
	var runs []models.BacktestRun
	if err := s.store.db.Find(&runs, nil); err != nil {
		return nil, fmt.Errorf("failed to list backtest runs: %w", err)
	}
	return runs, nil
}
