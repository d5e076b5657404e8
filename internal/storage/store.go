// Package storage provides BadgerHold-based persistence for Folio:
// holdings, backtest run records and a small system KV area.
package storage

import (
	"fmt"
	"os"

	"github.com/timshannon/badgerhold/v4"

	"github.com/bobmcallan/folio/internal/common"
	"github.com/bobmcallan/folio/internal/interfaces"
)

// Store wraps a BadgerHold database connection.
type Store struct {
	db     *badgerhold.Store
	logger *common.Logger
}

// NewStore creates a new BadgerHold store at the given directory path.
func NewStore(logger *common.Logger, path string) (*Store, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory %s: %w", path, err)
	}

	options := badgerhold.DefaultOptions
	options.Dir = path
	options.ValueDir = path
	options.Logger = nil // Disable default badger logger

	db, err := badgerhold.Open(options)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger database: %w", err)
	}

	logger.Debug().Str("path", path).Msg("BadgerHold store opened")

	return &Store{
		db:     db,
		logger: logger,
	}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Manager bundles the storage areas over one BadgerHold store.
type Manager struct {
	store    *Store
	holdings *holdingStore
	runs     *backtestRunStore
	kv       *kvStore
}

// NewManager creates a storage manager from configuration.
func NewManager(logger *common.Logger, config *common.Config) (*Manager, error) {
	store, err := NewStore(logger, config.Storage.Path)
	if err != nil {
		return nil, err
	}
	return &Manager{
		store:    store,
		holdings: &holdingStore{store: store, logger: logger},
		runs:     &backtestRunStore{store: store, logger: logger},
		kv:       &kvStore{store: store},
	}, nil
}

// Holdings returns the holdings storage area.
func (m *Manager) Holdings() interfaces.HoldingStore { return m.holdings }

// BacktestRuns returns the backtest run storage area.
func (m *Manager) BacktestRuns() interfaces.BacktestRunStore { return m.runs }

// KV returns the system key-value area.
func (m *Manager) KV() interfaces.KVStore { return m.kv }

// Close closes the underlying store.
func (m *Manager) Close() error { return m.store.Close() }
