package sqlite

import (
	"context"
	"database/sql"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx so queries can run
// standalone or inside a transaction.
type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

// Queries bundles the raw SQL statements used by the repository.
type Queries struct {
	db DBTX
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// WithTx returns Queries bound to the given transaction.
func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

// ExpenseRow mirrors one row of the expenses table.
type ExpenseRow struct {
	ID          int64
	ExpenseDate string
	Category    string
	AmountCents int64
	Note        string
}

const createExpense = `
INSERT INTO expenses (expense_date, category, amount_cents, note)
VALUES (?, ?, ?, ?)
RETURNING id`

func (q *Queries) CreateExpense(ctx context.Context, r ExpenseRow) (int64, error) {
	var id int64
	err := q.db.QueryRowContext(ctx, createExpense,
		r.ExpenseDate, r.Category, r.AmountCents, r.Note).Scan(&id)
	return id, err
}

const listExpenses = `
SELECT id, expense_date, category, amount_cents, note
FROM expenses
ORDER BY id`

func (q *Queries) ListExpenses(ctx context.Context) ([]ExpenseRow, error) {
	rows, err := q.db.QueryContext(ctx, listExpenses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []ExpenseRow
	for rows.Next() {
		var r ExpenseRow
		if err := rows.Scan(&r.ID, &r.ExpenseDate, &r.Category, &r.AmountCents, &r.Note); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

const deleteAllExpenses = `DELETE FROM expenses`

func (q *Queries) DeleteAllExpenses(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, deleteAllExpenses)
	return err
}

const getSetting = `SELECT value FROM settings WHERE key = ?`

func (q *Queries) GetSetting(ctx context.Context, key string) (string, error) {
	var v string
	err := q.db.QueryRowContext(ctx, getSetting, key).Scan(&v)
	return v, err
}

const upsertSetting = `
INSERT INTO settings (key, value) VALUES (?, ?)
ON CONFLICT (key) DO UPDATE SET value = excluded.value`

func (q *Queries) SetSetting(ctx context.Context, key, value string) error {
	_, err := q.db.ExecContext(ctx, upsertSetting, key, value)
	return err
}

const bumpVersion = `
UPDATE settings SET value = CAST(CAST(value AS INTEGER) + 1 AS TEXT)
WHERE key = 'table_version'`

func (q *Queries) BumpTableVersion(ctx context.Context) error {
	_, err := q.db.ExecContext(ctx, bumpVersion)
	return err
}
