// Package preferences persists per-user view configuration such as the ledger filters.
package preferences

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/MrJamesThe3rd/arbitra/internal/transaction"
)

var ErrNotFound = errors.New("preference not found")

// Store is a key-value store scoped by owner. Values are raw JSON.
type Store interface {
	Get(ctx context.Context, owner, key string) ([]byte, error)
	Set(ctx context.Context, owner, key string, value []byte) error
}

const ledgerFilterKey = "ledger_filter"

// LoadFilter returns the saved ledger filter of owner, or the zero filter when none is saved.
func LoadFilter(ctx context.Context, s Store, owner string) (transaction.ListFilter, error) {
	var f transaction.ListFilter

	raw, err := s.Get(ctx, owner, ledgerFilterKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return f, nil
		}

		return f, fmt.Errorf("loading filter: %w", err)
	}

	if err := json.Unmarshal(raw, &f); err != nil {
		return transaction.ListFilter{}, fmt.Errorf("decoding filter: %w", err)
	}

	return f, nil
}

// SaveFilter stores f for owner. Preset periods drop their dates so they resolve fresh on load.
func SaveFilter(ctx context.Context, s Store, owner string, f transaction.ListFilter) error {
	if f.Period != transaction.PeriodCustom {
		f.StartDate = nil
		f.EndDate = nil
	}

	raw, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding filter: %w", err)
	}

	if err := s.Set(ctx, owner, ledgerFilterKey, raw); err != nil {
		return fmt.Errorf("saving filter: %w", err)
	}

	return nil
}

// Memory is an in-process Store.
type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, owner, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.values[owner+"\x00"+key]
	if !ok {
		return nil, ErrNotFound
	}

	return v, nil
}

func (m *Memory) Set(_ context.Context, owner, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.values[owner+"\x00"+key] = append([]byte(nil), value...)

	return nil
}
