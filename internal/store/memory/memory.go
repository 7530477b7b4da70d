// Package memory implements the default in-process expense table.
// One Store owns one session's table; all access is serialized by a mutex.
package memory

import (
	"context"
	"fmt"
	"sync"

	"expensetracker/internal/core"
)

type Store struct {
	mu      sync.Mutex
	items   []core.Expense
	budget  int64
	version int64
}

// New creates an empty table with the default monthly budget.
func New() *Store {
	return &Store{budget: core.DefaultBudgetCents}
}

// Append stores the expense and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, e)
	s.version++
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// ListAll returns a copy of the table in insertion order.
func (s *Store) ListAll(_ context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Expense, len(s.items))
	copy(out, s.items)
	return out, nil
}

// ReplaceAll swaps the whole table for items.
func (s *Store) ReplaceAll(_ context.Context, items []core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append([]core.Expense(nil), items...)
	s.version++
	return nil
}

// AppendAll adds items after the existing rows.
func (s *Store) AppendAll(_ context.Context, items []core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, items...)
	s.version++
	return nil
}

// Reset clears the table.
func (s *Store) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	s.version++
	return nil
}

func (s *Store) Budget(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.budget, nil
}

func (s *Store) SetBudget(_ context.Context, cents int64) error {
	if cents < 0 {
		return core.ErrInvalidAmount
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.budget = cents
	return nil
}

// Version changes whenever the table is mutated.
func (s *Store) Version(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.version, nil
}
