package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/timshannon/badgerhold/v4"
)

// kvEntry is the stored shape of one system KV record. Values are kept as
// raw JSON so the area can hold heterogeneous payloads.
type kvEntry struct {
	Key       string    `json:"key" badgerhold:"key"`
	Value     []byte    `json:"value"`
	UpdatedAt time.Time `json:"updated_at"`
}

type kvStore struct {
	store *Store
}

func (s *kvStore) Get(_ context.Context, key string, dest interface{}) error {
	var entry kvEntry
	if err := s.store.db.Get(key, &entry); err != nil {
		if err == badgerhold.ErrNotFound {
			return fmt.Errorf("key '%s' not found", key)
		}
		return fmt.Errorf("failed to get key '%s': %w", key, err)
	}
	if err := json.Unmarshal(entry.Value, dest); err != nil {
		return fmt.Errorf("failed to decode value for key '%s': %w", key, err)
	}
	return nil
}

func (s *kvStore) Set(_ context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value for key '%s': %w", key, err)
	}
	entry := kvEntry{Key: key, Value: data, UpdatedAt: time.Now()}
	if err := s.store.db.Upsert(key, &entry); err != nil {
		return fmt.Errorf("failed to set key '%s': %w", key, err)
	}
	return nil
}

func (s *kvStore) Delete(_ context.Context, key string) error {
	if err := s.store.db.Delete(key, &kvEntry{}); err != nil && err != badgerhold.ErrNotFound {
		return fmt.Errorf("failed to delete key '%s': %w", key, err)
	}
	return nil
}
