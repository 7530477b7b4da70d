// This file implements utilities for parsing and validating HTTP request
// data shared by the form handlers.

package http

import (
	"fmt"
	"net/url"
	"strings"

	"expensetracker/internal/core"
	"expensetracker/internal/services"
)

// ParseExpenseForm builds an Expense from the add-expense form.
// Amounts accept both comma and dot decimal separators.
func ParseExpenseForm(form url.Values) (core.Expense, error) {
	dateStr := strings.TrimSpace(form.Get("date"))
	if dateStr == "" {
		return core.Expense{}, fmt.Errorf("date is required")
	}
	date, err := core.ParseDate(dateStr)
	if err != nil {
		return core.Expense{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", dateStr)
	}

	category := sanitizeInput(form.Get("category"))
	if category == "" {
		return core.Expense{}, fmt.Errorf("category is required")
	}

	amountStr := strings.TrimSpace(form.Get("amount"))
	cents, err := core.ParseDecimalToCents(amountStr)
	if err != nil {
		return core.Expense{}, fmt.Errorf("invalid amount %q", amountStr)
	}

	e := core.Expense{
		Date:     date,
		Category: category,
		Amount:   core.Money{Cents: cents},
		Note:     sanitizeInput(form.Get("note")),
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}
	return e, nil
}

// ParseImportMode reads the import mode form field, defaulting to replace.
func ParseImportMode(form url.Values) (services.ImportMode, error) {
	switch mode := strings.TrimSpace(form.Get("mode")); mode {
	case "", string(services.ImportReplace):
		return services.ImportReplace, nil
	case string(services.ImportAppend):
		return services.ImportAppend, nil
	default:
		return "", fmt.Errorf("invalid import mode %q, expected replace or append", mode)
	}
}

// ParseBudgetForm reads the monthly budget form field into cents.
func ParseBudgetForm(form url.Values) (int64, error) {
	budgetStr := strings.TrimSpace(form.Get("budget"))
	if budgetStr == "" {
		return 0, fmt.Errorf("budget is required")
	}
	cents, err := core.ParseDecimalToCents(budgetStr)
	if err != nil {
		return 0, fmt.Errorf("invalid budget %q", budgetStr)
	}
	return cents, nil
}
