// Package store provides StatementStore implementations.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/finbook/ledger-engine/ledger"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu     sync.RWMutex
	byID   map[ledger.StatementID]ledger.Statement
	byUser map[ledger.UserID][]ledger.StatementID
}

func NewMemory() *Memory {
	return &Memory{
		byID:   make(map[ledger.StatementID]ledger.Statement),
		byUser: make(map[ledger.UserID][]ledger.StatementID),
	}
}

// Append adds a single statement. Append-only.
func (m *Memory) Append(_ context.Context, st ledger.Statement) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.byID[st.ID] = st
	m.byUser[st.UserID] = append(m.byUser[st.UserID], st.ID)
	return nil
}

func (m *Memory) ByUser(_ context.Context, userID ledger.UserID) ([]ledger.Statement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := m.byUser[userID]
	result := make([]ledger.Statement, 0, len(ids))
	for _, id := range ids {
		result = append(result, m.byID[id])
	}
	sort.SliceStable(result, func(i, j int) bool {
		return result[i].CreatedAt.Before(result[j].CreatedAt)
	})
	return result, nil
}

func (m *Memory) ByID(_ context.Context, userID ledger.UserID, id ledger.StatementID) (*ledger.Statement, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	st, ok := m.byID[id]
	// Ownership is part of the key: a foreign statement looks missing.
	if !ok || st.UserID != userID {
		return nil, nil
	}
	return &st, nil
}

var _ ledger.StatementStore = (*Memory)(nil)
