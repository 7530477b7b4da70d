// Package store defines the ports the dashboard uses to own its expense
// table, plus the sample data used to seed an empty session.
package store

import (
	"context"

	"expensetracker/internal/core"
)

type (
	// ExpenseAppender records a single expense.
	ExpenseAppender interface {
		Append(ctx context.Context, e core.Expense) (rowRef string, err error)
	}

	// ExpenseLister returns the full table in insertion order.
	ExpenseLister interface {
		ListAll(ctx context.Context) ([]core.Expense, error)
	}

	// TableReplacer performs the bulk mutations behind import and reset.
	TableReplacer interface {
		// ReplaceAll swaps the whole table for items.
		ReplaceAll(ctx context.Context, items []core.Expense) error
		// AppendAll adds items after the existing rows.
		AppendAll(ctx context.Context, items []core.Expense) error
		// Reset clears the table.
		Reset(ctx context.Context) error
	}

	// BudgetStore holds the monthly budget threshold.
	BudgetStore interface {
		Budget(ctx context.Context) (cents int64, err error)
		SetBudget(ctx context.Context, cents int64) error
	}

	// Versioner exposes a counter that changes on every table mutation,
	// used to key derived-view caches.
	Versioner interface {
		Version(ctx context.Context) (int64, error)
	}

	// Store is the full set of operations a backend must provide.
	Store interface {
		ExpenseAppender
		ExpenseLister
		TableReplacer
		BudgetStore
		Versioner
	}
)
