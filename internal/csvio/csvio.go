// Package csvio implements the tabular import/export format for the
// expense table.
//
// The on-disk shape is a CSV file with a header row naming the columns
// date, category, amount and note. On import, columns are matched by
// header name (case-insensitive, any order) rather than by position; a
// file whose header is missing a required column is rejected whole.
package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"

	"expensetracker/internal/core"
)

// Header is the canonical column order written on export.
const Header = "date,category,amount,note"

const (
	colDate     = "date"
	colCategory = "category"
	colAmount   = "amount"
	colNote     = "note"
)

var (
	ErrEmptyFile     = errors.New("file has no header row")
	ErrMissingColumn = errors.New("missing required column")
)

// columnIndex maps the canonical column names to their position in the
// file's header row.
type columnIndex map[string]int

func indexHeader(header []string) (columnIndex, error) {
	idx := make(columnIndex, len(header))
	for i, name := range header {
		idx[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{colDate, colCategory, colAmount} {
		if _, ok := idx[required]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, required)
		}
	}
	return idx, nil
}

func (idx columnIndex) get(record []string, col string) string {
	i, ok := idx[col]
	if !ok || i >= len(record) {
		return ""
	}
	return record[i]
}

// Read parses a full expense table from r. The import is all-or-nothing:
// the first invalid row aborts with an error naming the row number and
// no records are returned.
func Read(r io.Reader) ([]core.Expense, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading expense CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, ErrEmptyFile
	}

	idx, err := indexHeader(records[0])
	if err != nil {
		return nil, err
	}

	var items []core.Expense
	for i, rec := range records[1:] {
		e, err := unmarshalExpense(idx, rec)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		items = append(items, e)
	}
	return items, nil
}

// Write serializes the table to w in the canonical column order,
// including the header row.
func Write(w io.Writer, items []core.Expense) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(strings.Split(Header, ",")); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	for i, e := range items {
		if err := cw.Write(marshalExpense(e)); err != nil {
			return fmt.Errorf("writing row %d: %w", i+2, err)
		}
	}
	return cw.Error()
}

func marshalExpense(e core.Expense) []string {
	return []string{
		e.Date.String(),
		e.Category,
		FormatAmount(e.Amount.Cents),
		e.Note,
	}
}

func unmarshalExpense(idx columnIndex, record []string) (core.Expense, error) {
	date, err := core.ParseDate(idx.get(record, colDate))
	if err != nil {
		return core.Expense{}, fmt.Errorf("parsing date %q: %w", idx.get(record, colDate), err)
	}

	cents, err := ParseAmount(idx.get(record, colAmount))
	if err != nil {
		return core.Expense{}, fmt.Errorf("parsing amount %q: %w", idx.get(record, colAmount), err)
	}

	e := core.Expense{
		Date:     date,
		Category: strings.TrimSpace(idx.get(record, colCategory)),
		Amount:   core.Money{Cents: cents},
		Note:     strings.TrimSpace(idx.get(record, colNote)),
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

// ParseAmount converts a decimal amount string to positive cents,
// rounding half-up past the second decimal place.
func ParseAmount(s string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, core.ErrInvalidAmount
	}
	cents := d.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
	if cents <= 0 {
		return 0, core.ErrInvalidAmount
	}
	return cents, nil
}

// FormatAmount renders cents as a plain decimal string with two places
// (no currency symbol), the form the amount column carries on disk.
func FormatAmount(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}
