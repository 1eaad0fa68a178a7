package core

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestDateJSON(t *testing.T) {
	b, err := json.Marshal(NewDate(2024, 1, 3))
	if err != nil || string(b) != `"2024-01-03"` {
		t.Fatalf("marshal: %s %v", b, err)
	}

	var d Date
	if err := json.Unmarshal([]byte(`"2024-02-29"`), &d); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if d != NewDate(2024, 2, 29) {
		t.Fatalf("unexpected date %v", d)
	}

	if err := json.Unmarshal([]byte(`"2024-03-05T23:10:00.000Z"`), &d); err != nil {
		t.Fatalf("unmarshal timestamp: %v", err)
	}
	if d != NewDate(2024, 3, 5) {
		t.Fatalf("unexpected date from timestamp %v", d)
	}

	for _, bad := range []string{`"2024-13-01"`, `"yesterday"`, `20240101`} {
		if err := json.Unmarshal([]byte(bad), &d); err == nil {
			t.Errorf("%s expected error", bad)
		}
	}
}

func TestToday(t *testing.T) {
	now := time.Date(2025, 6, 7, 22, 30, 0, 0, time.UTC)
	if got := Today(now); got != NewDate(2025, 6, 7) {
		t.Fatalf("Today = %v", got)
	}
}

func TestNewExpenseValidate(t *testing.T) {
	good := NewExpense{
		Amount:      FromUnits(1000),
		Category:    CategoryFood,
		Description: "점심",
		Date:        NewDate(2025, 1, 1),
	}
	if err := good.Validate(); err != nil {
		t.Fatalf("expected ok, got %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*NewExpense)
		want   error
	}{
		{"zero amount", func(e *NewExpense) { e.Amount = Money{} }, ErrInvalidAmount},
		{"negative amount", func(e *NewExpense) { e.Amount = Money{Cents: -1} }, ErrInvalidAmount},
		{"blank description", func(e *NewExpense) { e.Description = "   " }, ErrEmptyDescription},
		{"unknown category", func(e *NewExpense) { e.Category = "Food" }, ErrInvalidCategory},
		{"zero date", func(e *NewExpense) { e.Date = Date{} }, ErrInvalidDate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := good
			tc.mutate(&e)
			if err := e.Validate(); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}

	long := good
	long.Description = strings.Repeat("a", 201)
	if err := long.Validate(); !errors.Is(err, ErrDescriptionTooLong) {
		t.Fatalf("expected ErrDescriptionTooLong, got %v", err)
	}

	// the limit counts characters: 200 Hangul syllables are 600 bytes
	korean := good
	korean.Description = strings.Repeat("점", 200)
	if err := korean.Validate(); err != nil {
		t.Fatalf("expected 200 characters to pass, got %v", err)
	}
}

func TestParseCategory(t *testing.T) {
	cases := []struct {
		in   string
		want Category
		ok   bool
	}{
		{"식비", CategoryFood, true},
		{" 교통비 ", CategoryTransport, true},
		{"culture", CategoryCulture, true},
		{"OTHER", CategoryOther, true},
		{"Rent", "", false},
		{"", "", false},
	}
	for _, tc := range cases {
		got, err := ParseCategory(tc.in)
		if tc.ok && (err != nil || got != tc.want) {
			t.Errorf("ParseCategory(%q) = %q, %v", tc.in, got, err)
		}
		if !tc.ok && err == nil {
			t.Errorf("ParseCategory(%q) expected error", tc.in)
		}
	}
	if Categories[0] != CategoryFood {
		t.Fatalf("form default must be %s", CategoryFood)
	}
	if CategoryMedical.Name() != "Medical" || Category("x").Name() != "x" {
		t.Fatal("unexpected category names")
	}
}
