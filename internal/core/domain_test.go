package core

import (
	"errors"
	"strings"
	"testing"
)

func TestExpenseValidate(t *testing.T) {
	valid := Expense{
		Date:     NewDate(2024, 1, 5),
		Category: "Food",
		Amount:   Money{Cents: 1250},
		Note:     "lunch",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid expense rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(e *Expense)
		want   error
	}{
		{"zero date", func(e *Expense) { e.Date = Date{} }, ErrInvalidDate},
		{"empty category", func(e *Expense) { e.Category = "  " }, ErrEmptyCategory},
		{"zero amount", func(e *Expense) { e.Amount.Cents = 0 }, ErrInvalidAmount},
		{"negative amount", func(e *Expense) { e.Amount.Cents = -5 }, ErrInvalidAmount},
		{"long note", func(e *Expense) { e.Note = strings.Repeat("x", 201) }, ErrNoteTooLong},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := valid
			tc.mutate(&e)
			if err := e.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	// Note is optional
	noNote := valid
	noNote.Note = ""
	if err := noNote.Validate(); err != nil {
		t.Fatalf("expense without note rejected: %v", err)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-05")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if d.Year() != 2024 || d.Month() != 1 || d.Day() != 5 {
		t.Fatalf("unexpected date %v", d)
	}
	if d.String() != "2024-01-05" {
		t.Fatalf("round trip: %q", d.String())
	}

	for _, bad := range []string{"", "05/01/2024", "2024-13-01", "yesterday"} {
		if _, err := ParseDate(bad); err == nil {
			t.Fatalf("%q expected error", bad)
		}
	}
}
