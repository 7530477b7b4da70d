package core

import "sort"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// DailyAmount represents an amount aggregated by calendar date.
type DailyAmount struct {
	Date   Date
	Amount Money
}

// Summary holds the headline metrics for a record set.
type Summary struct {
	Total        Money
	Transactions int
	Categories   int
}

// Summarize computes the dashboard metrics over the whole table.
// An empty table yields the zero Summary.
func Summarize(items []Expense) Summary {
	var s Summary
	seen := make(map[string]struct{})
	for _, e := range items {
		s.Total.Cents += e.Amount.Cents
		s.Transactions++
		if _, ok := seen[e.Category]; !ok {
			seen[e.Category] = struct{}{}
			s.Categories++
		}
	}
	return s
}

// SumByCategory aggregates amounts per category, preserving first-seen order.
func SumByCategory(items []Expense) []CategoryAmount {
	idx := make(map[string]int)
	var out []CategoryAmount
	for _, e := range items {
		if i, ok := idx[e.Category]; ok {
			out[i].Amount.Cents += e.Amount.Cents
			continue
		}
		idx[e.Category] = len(out)
		out = append(out, CategoryAmount{Name: e.Category, Amount: e.Amount})
	}
	return out
}

// SumByDay aggregates amounts per calendar date in chronological order.
func SumByDay(items []Expense) []DailyAmount {
	idx := make(map[string]int)
	var out []DailyAmount
	for _, e := range items {
		key := e.Date.String()
		if i, ok := idx[key]; ok {
			out[i].Amount.Cents += e.Amount.Cents
			continue
		}
		idx[key] = len(out)
		out = append(out, DailyAmount{Date: e.Date, Amount: e.Amount})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date.Time)
	})
	return out
}
