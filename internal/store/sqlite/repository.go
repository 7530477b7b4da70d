// Package sqlite persists the expense table in a local SQLite database.
// The schema is managed by embedded migrations and the monthly budget
// lives in a key/value settings table alongside the table version counter.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	_ "modernc.org/sqlite"

	"expensetracker/internal/core"
)

type Repository struct {
	db      *sql.DB
	queries *Queries
}

// NewRepository opens (creating if needed) the database at dbPath and
// brings the schema up to date.
func NewRepository(dbPath string) (*Repository, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	return &Repository{db: db, queries: New(db)}, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

// Append stores the expense and returns its row id as a reference.
func (r *Repository) Append(ctx context.Context, e core.Expense) (string, error) {
	if err := e.Validate(); err != nil {
		return "", err
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)
	id, err := qtx.CreateExpense(ctx, ExpenseRow{
		ExpenseDate: e.Date.String(),
		Category:    e.Category,
		AmountCents: e.Amount.Cents,
		Note:        e.Note,
	})
	if err != nil {
		return "", fmt.Errorf("insert expense: %w", err)
	}
	if err := qtx.BumpTableVersion(ctx); err != nil {
		return "", fmt.Errorf("bump table version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("commit transaction: %w", err)
	}

	slog.InfoContext(ctx, "expense stored",
		"component", "sqlite",
		"id", id,
		"category", e.Category)

	return fmt.Sprintf("sqlite:%d", id), nil
}

// ListAll returns the full table in insertion order.
func (r *Repository) ListAll(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.queries.ListExpenses(ctx)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}

	out := make([]core.Expense, 0, len(rows))
	for _, row := range rows {
		e, err := rowToExpense(row)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, nil
}

// ReplaceAll swaps the whole table for items in one transaction.
func (r *Repository) ReplaceAll(ctx context.Context, items []core.Expense) error {
	return r.bulkMutate(ctx, "replace expenses", true, items)
}

// AppendAll adds items after the existing rows in one transaction.
func (r *Repository) AppendAll(ctx context.Context, items []core.Expense) error {
	return r.bulkMutate(ctx, "append expenses", false, items)
}

// Reset clears the table.
func (r *Repository) Reset(ctx context.Context) error {
	return r.bulkMutate(ctx, "reset expenses", true, nil)
}

func (r *Repository) bulkMutate(ctx context.Context, op string, clear bool, items []core.Expense) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%s: begin transaction: %w", op, err)
	}
	defer tx.Rollback()

	qtx := r.queries.WithTx(tx)
	if clear {
		if err := qtx.DeleteAllExpenses(ctx); err != nil {
			return fmt.Errorf("%s: clear table: %w", op, err)
		}
	}
	for _, e := range items {
		if _, err := qtx.CreateExpense(ctx, ExpenseRow{
			ExpenseDate: e.Date.String(),
			Category:    e.Category,
			AmountCents: e.Amount.Cents,
			Note:        e.Note,
		}); err != nil {
			return fmt.Errorf("%s: insert row: %w", op, err)
		}
	}
	if err := qtx.BumpTableVersion(ctx); err != nil {
		return fmt.Errorf("%s: bump table version: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%s: commit transaction: %w", op, err)
	}

	slog.InfoContext(ctx, "expense table mutated",
		"component", "sqlite",
		"op", op,
		"rows", len(items))

	return nil
}

const budgetKey = "monthly_budget_cents"

func (r *Repository) Budget(ctx context.Context) (int64, error) {
	v, err := r.queries.GetSetting(ctx, budgetKey)
	if err == sql.ErrNoRows {
		return core.DefaultBudgetCents, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read budget: %w", err)
	}
	cents, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse budget setting %q: %w", v, err)
	}
	return cents, nil
}

func (r *Repository) SetBudget(ctx context.Context, cents int64) error {
	if cents < 0 {
		return core.ErrInvalidAmount
	}
	if err := r.queries.SetSetting(ctx, budgetKey, strconv.FormatInt(cents, 10)); err != nil {
		return fmt.Errorf("write budget: %w", err)
	}
	return nil
}

// Version changes whenever the table is mutated.
func (r *Repository) Version(ctx context.Context) (int64, error) {
	v, err := r.queries.GetSetting(ctx, "table_version")
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read table version: %w", err)
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse table version %q: %w", v, err)
	}
	return n, nil
}

func rowToExpense(row ExpenseRow) (core.Expense, error) {
	d, err := core.ParseDate(row.ExpenseDate)
	if err != nil {
		return core.Expense{}, fmt.Errorf("row %d: %w", row.ID, err)
	}
	return core.Expense{
		Date:     d,
		Category: row.Category,
		Amount:   core.Money{Cents: row.AmountCents},
		Note:     row.Note,
	}, nil
}
