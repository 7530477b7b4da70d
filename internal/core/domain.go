package core

import (
	"errors"
	"strings"
	"time"
)

type (
	// Date is a calendar date at UTC midnight.
	Date struct {
		time.Time
	}

	// Money is a fixed-point monetary amount in cents.
	Money struct {
		Cents int64
	}

	// Expense is one logged transaction in the session table.
	Expense struct {
		Date     Date
		Category string
		Amount   Money
		Note     string // optional free text
	}
)

var (
	ErrInvalidDate   = errors.New("invalid date")
	ErrInvalidAmount = errors.New("invalid amount")
	ErrEmptyCategory = errors.New("empty category")
	ErrNoteTooLong   = errors.New("note too long (max 200 characters)")
)

// DateLayout is the wire format for dates in forms and CSV files.
const DateLayout = "2006-01-02"

// NewDate creates a Date from year, month, day at UTC midnight.
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string into a Date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

// String formats the date in the wire layout.
func (d Date) String() string {
	return d.Format(DateLayout)
}

// Day returns the day of the month.
func (d Date) Day() int {
	return d.Time.Day()
}

// Month returns the month as 1-12.
func (d Date) Month() int {
	return int(d.Time.Month())
}

// Year returns the year.
func (d Date) Year() int {
	return d.Time.Year()
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

func (e Expense) Validate() error {
	if err := e.Date.Validate(); err != nil {
		return err
	}
	if strings.TrimSpace(e.Category) == "" {
		return ErrEmptyCategory
	}
	if len(e.Category) > 100 {
		return errors.New("category too long (max 100 characters)")
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if len(e.Note) > 200 {
		return ErrNoteTooLong
	}
	return nil
}
