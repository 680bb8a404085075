// Package storage implements the core.Storage persistence boundary
// with two interchangeable backends: an embedded BuntDB store and a
// GORM-backed SQL store.
package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/raykavin/tradepulse/core"
	"github.com/tidwall/buntdb"
)

// BuntStorage implements core.Storage on top of BuntDB, storing each
// keyed PersistedState snapshot as a JSON blob.
type BuntStorage struct {
	db *buntdb.DB
}

// NewBuntMemory opens an in-memory BuntDB store.
func NewBuntMemory() (*BuntStorage, error) {
	return NewBuntFile(":memory:")
}

// NewBuntFile opens a file-backed BuntDB store at path.
func NewBuntFile(path string) (*BuntStorage, error) {
	db, err := buntdb.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open buntdb: %w", err)
	}
	if err := db.SetConfig(buntdb.Config{SyncPolicy: buntdb.Never}); err != nil {
		return nil, fmt.Errorf("failed to configure buntdb: %w", err)
	}
	return &BuntStorage{db: db}, nil
}

// SaveState persists state under key, overwriting any prior snapshot.
func (b *BuntStorage) SaveState(_ context.Context, key string, state core.PersistedState) error {
	content, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("failed to marshal persisted state: %w", err)
	}
	return b.db.Update(func(tx *buntdb.Tx) error {
		_, _, err := tx.Set(key, string(content), nil)
		return err
	})
}

// LoadState retrieves a prior snapshot for key. The second return
// value is false when no snapshot exists yet, not an error.
func (b *BuntStorage) LoadState(_ context.Context, key string) (core.PersistedState, bool, error) {
	var state core.PersistedState
	var content string

	err := b.db.View(func(tx *buntdb.Tx) error {
		val, err := tx.Get(key)
		if err != nil {
			return err
		}
		content = val
		return nil
	})
	if err == buntdb.ErrNotFound {
		return core.PersistedState{}, false, nil
	}
	if err != nil {
		return core.PersistedState{}, false, fmt.Errorf("failed to read persisted state: %w", err)
	}

	if err := json.Unmarshal([]byte(content), &state); err != nil {
		return core.PersistedState{}, false, fmt.Errorf("failed to unmarshal persisted state: %w", err)
	}
	return state, true, nil
}

// Close releases the underlying BuntDB handle.
func (b *BuntStorage) Close() error {
	if b.db == nil {
		return nil
	}
	return b.db.Close()
}

var _ core.Storage = (*BuntStorage)(nil)
