package store

import "expensetracker/internal/core"

// SampleData returns a small starter table so a fresh dashboard is not blank.
func SampleData() []core.Expense {
	return []core.Expense{
		{Date: core.NewDate(2025, 1, 1), Category: "Food", Amount: core.Money{Cents: 1575}, Note: "Breakfast"},
		{Date: core.NewDate(2025, 1, 2), Category: "Transport", Amount: core.Money{Cents: 780}, Note: "Bus fare"},
		{Date: core.NewDate(2025, 1, 3), Category: "Entertainment", Amount: core.Money{Cents: 2250}, Note: "Movie ticket"},
	}
}
