package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"expensetracker/internal/amqp"
	"expensetracker/internal/core"
	"expensetracker/internal/csvio"
	"expensetracker/internal/store"
)

// ImportMode selects what an import does with the existing table.
type ImportMode string

const (
	// ImportReplace swaps the whole table for the uploaded rows.
	ImportReplace ImportMode = "replace"
	// ImportAppend adds the uploaded rows after the existing ones.
	ImportAppend ImportMode = "append"
)

// EventPublisher is the slice of the AMQP client the service needs.
type EventPublisher interface {
	PublishExpenseEvent(ctx context.Context, msg *amqp.ExpenseEventMessage) error
}

// ExpenseService orchestrates expense operations across the store and AMQP
type ExpenseService struct {
	store     store.Store
	publisher EventPublisher
}

func NewExpenseService(st store.Store, publisher EventPublisher) *ExpenseService {
	return &ExpenseService{
		store:     st,
		publisher: publisher,
	}
}

// CreateExpense validates and stores an expense, then publishes an event.
func (s *ExpenseService) CreateExpense(ctx context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}

	ref, err := s.store.Append(ctx, e)
	if err != nil {
		return "", fmt.Errorf("save expense: %w", err)
	}

	// Publish async event (non-blocking, the expense is already saved)
	s.publishEvent(ctx, amqp.EventCreated, 1)

	return ref, nil
}

// ImportCSV parses r and applies the rows according to mode. The import is
// all or nothing: a single bad row rejects the whole file and leaves the
// table untouched.
func (s *ExpenseService) ImportCSV(ctx context.Context, r io.Reader, mode ImportMode) (int, error) {
	items, err := csvio.Read(r)
	if err != nil {
		return 0, fmt.Errorf("parse upload: %w", err)
	}

	switch mode {
	case ImportReplace:
		err = s.store.ReplaceAll(ctx, items)
	case ImportAppend:
		err = s.store.AppendAll(ctx, items)
	default:
		return 0, fmt.Errorf("unknown import mode %q", mode)
	}
	if err != nil {
		return 0, fmt.Errorf("apply import: %w", err)
	}

	s.publishEvent(ctx, amqp.EventImported, len(items))

	return len(items), nil
}

// ResetTable clears the expense table.
func (s *ExpenseService) ResetTable(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return fmt.Errorf("reset table: %w", err)
	}

	s.publishEvent(ctx, amqp.EventReset, 0)

	return nil
}

// LoadSampleData replaces the table with the bundled sample records.
func (s *ExpenseService) LoadSampleData(ctx context.Context) (int, error) {
	items := store.SampleData()
	if err := s.store.ReplaceAll(ctx, items); err != nil {
		return 0, fmt.Errorf("load sample data: %w", err)
	}

	s.publishEvent(ctx, amqp.EventImported, len(items))

	return len(items), nil
}

// Overview bundles the read model behind the dashboard page.
type Overview struct {
	Items   []core.Expense
	Summary core.Summary
	Budget  core.BudgetStatus
}

// Overview loads the table and derives the dashboard metrics. Budget usage
// is computed over the calendar month containing ref.
func (s *ExpenseService) Overview(ctx context.Context, ref time.Time) (Overview, error) {
	items, err := s.store.ListAll(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("list expenses: %w", err)
	}

	budget, err := s.store.Budget(ctx)
	if err != nil {
		return Overview{}, fmt.Errorf("read budget: %w", err)
	}

	return Overview{
		Items:   items,
		Summary: core.Summarize(items),
		Budget:  core.BudgetUsage(items, budget, ref),
	}, nil
}

// ApplyConfiguredBudget writes the environment-configured budget only while
// the store still carries the built-in default, so a budget saved through
// the settings page survives restarts.
func (s *ExpenseService) ApplyConfiguredBudget(ctx context.Context, cents int64) error {
	if cents <= 0 {
		return nil
	}
	current, err := s.store.Budget(ctx)
	if err != nil {
		return fmt.Errorf("read budget: %w", err)
	}
	if current != core.DefaultBudgetCents {
		return nil
	}
	return s.SetBudget(ctx, cents)
}

// SetBudget stores a new monthly budget threshold.
func (s *ExpenseService) SetBudget(ctx context.Context, cents int64) error {
	if cents < 0 {
		return core.ErrInvalidAmount
	}
	if err := s.store.SetBudget(ctx, cents); err != nil {
		return fmt.Errorf("set budget: %w", err)
	}
	return nil
}

func (s *ExpenseService) publishEvent(ctx context.Context, kind string, count int) {
	if s.publisher == nil {
		return
	}

	version, err := s.store.Version(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "Failed to read table version for event", "error", err)
		version = 0
	}

	if err := s.publisher.PublishExpenseEvent(ctx, amqp.NewExpenseEventMessage(kind, count, version)); err != nil {
		slog.ErrorContext(ctx, "Failed to publish expense event",
			"kind", kind, "error", err)
		// Don't fail the request - the table mutation already succeeded
	}
}
