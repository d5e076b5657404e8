package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/models"
)

type holdingStore struct {
	store  *Store
	logger *common.Logger
}

func (s *holdingStore) GetHolding(_ context.Context, id string) (*models.Holding, error) {
	var holding models.Holding
	err := s.store.db.Get(id, &holding)
	if err != nil {
		if err == badgerhold.ErrNotFound {
			return nil, fmt.Errorf("holding '%s' not found", id)
		}
		return nil, fmt.Errorf("failed to get holding '%s': %w", id, err)
	}
	return &holding, nil
}

func (s *holdingStore) ListHoldings(_ context.Context) ([]models.Holding, error) {
	var holdings []models.Holding
	if err := s.store.db.Find(&holdings, nil); err != nil {
		return nil, fmt.Errorf("failed to list holdings: %w", err)
	}
	return holdings, nil
}

func (s *holdingStore) SaveHolding(_ context.Context, holding *models.Holding) error {
	holding.UpdatedAt = time.Now()
	if holding.CreatedAt.IsZero() {
		holding.CreatedAt = time.Now()
	}

	if err := s.store.db.Upsert(holding.ID, holding); err != nil {
		return fmt.Errorf("failed to save holding: %w", err)
	}
	s.logger.Debug().Str("id", holding.ID).Float64("amount", holding.Amount).Msg("Holding saved")
	return nil
}

func (s *holdingStore) DeleteHolding(_ context.Context, id string) error {
	if err := s.store.db.Delete(id, &models.Holding{}); err != nil {
		if err == badgerhold.ErrNotFound {
			return fmt.Errorf("holding '%s' not found", id)
		}
		return fmt.Errorf("failed to delete holding '%s': %w", id, err)
	}
	s.logger.Debug().Str("id", id).Msg("Holding deleted")
	return nil
}
