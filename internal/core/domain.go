package core

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

// DateLayout is the wire and form layout of a calendar date.
const DateLayout = "2006-01-02"

// MaxDescriptionLength is counted in characters, not bytes.
const MaxDescriptionLength = 200

type (
	// Date is a calendar day, always normalized to midnight UTC.
	Date struct {
		time.Time
	}

	// Expense is one persisted record. ID and CreatedAt are assigned by the
	// store and never change afterwards.
	Expense struct {
		ID          string    `json:"id"`
		Amount      Money     `json:"amount"`
		Category    Category  `json:"category"`
		Description string    `json:"description"`
		Date        Date      `json:"date"`
		CreatedAt   time.Time `json:"createdAt"`
	}

	// NewExpense carries the caller-supplied fields of an expense.
	NewExpense struct {
		Amount      Money
		Category    Category
		Description string
		Date        Date
	}
)

var (
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyDescription = errors.New("empty description")
	ErrInvalidCategory  = errors.New("invalid category")

	ErrDescriptionTooLong = errors.New("description too long")
)

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// Today returns the current calendar day of now.
func Today(now time.Time) Date {
	return NewDate(now.Year(), int(now.Month()), now.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return Date{}, ErrInvalidDate
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) Validate() error {
	if d.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*d = Date{}
		return nil
	}
	// Accept full timestamps too; only the calendar day is kept.
	if len(s) > len(DateLayout) {
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return ErrInvalidDate
		}
		*d = Today(t.UTC())
		return nil
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Validate applies the form rules: positive amount, known category,
// non-empty description and a date. The store itself never calls it.
func (e NewExpense) Validate() error {
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if !e.Category.Valid() {
		return ErrInvalidCategory
	}
	if len(strings.TrimSpace(e.Description)) == 0 {
		return ErrEmptyDescription
	}
	if utf8.RuneCountInString(e.Description) > MaxDescriptionLength {
		return ErrDescriptionTooLong
	}
	return e.Date.Validate()
}
