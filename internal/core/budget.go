package core

import (
	"time"

	"github.com/jinzhu/now"
)

// DefaultBudgetCents is the monthly budget applied until the user sets one.
const DefaultBudgetCents int64 = 100000 // $1000.00

// BudgetStatus reports how much of the monthly budget the current
// calendar month has consumed.
type BudgetStatus struct {
	Budget Money
	Spent  Money
	// Ratio is spent/budget. Zero when the budget is zero or unset.
	Ratio float64
}

// BudgetUsage computes the budget status for the calendar month containing ref.
// Records outside that month do not count against the budget.
func BudgetUsage(items []Expense, budgetCents int64, ref time.Time) BudgetStatus {
	// Normalize to UTC so the window lines up with UTC-midnight record dates.
	ref = ref.UTC()
	monthStart := now.New(ref).BeginningOfMonth()
	monthEnd := now.New(ref).EndOfMonth()

	st := BudgetStatus{Budget: Money{Cents: budgetCents}}
	for _, e := range items {
		if e.Date.Before(monthStart) || e.Date.After(monthEnd) {
			continue
		}
		st.Spent.Cents += e.Amount.Cents
	}
	if budgetCents > 0 {
		st.Ratio = float64(st.Spent.Cents) / float64(budgetCents)
	}
	return st
}

// Percent returns the usage ratio as a whole percentage clamped to [0, 100],
// suitable for a progress bar.
func (b BudgetStatus) Percent() int {
	p := int(b.Ratio * 100)
	if p < 0 {
		p = 0
	}
	if p > 100 {
		p = 100
	}
	return p
}

// Over reports whether the month's spend exceeds the budget.
func (b BudgetStatus) Over() bool {
	return b.Budget.Cents > 0 && b.Spent.Cents > b.Budget.Cents
}
