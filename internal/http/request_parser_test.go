package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"budget/internal/core"
)

func parseBody(t *testing.T, contentType, body string) *RequestBodyParser {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/expenses", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	p := NewRequestBodyParser(req)
	if err := p.Parse(); err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return p
}

func TestRequestBodyParser_Form(t *testing.T) {
	p := parseBody(t, "application/x-www-form-urlencoded", "amount=12000&description=%20%EC%A0%90%EC%8B%AC%00%20&category=%EC%8B%9D%EB%B9%84")

	if p.IsJSON() {
		t.Fatal("form body reported as JSON")
	}
	if got := p.Get("description"); got != "점심" {
		t.Errorf("description = %q, want trimmed and without control chars", got)
	}
	if got := p.Get("category"); got != "식비" {
		t.Errorf("category = %q", got)
	}
	if got := p.Get("missing"); got != "" {
		t.Errorf("missing key = %q, want empty", got)
	}
}

func TestRequestBodyParser_JSON(t *testing.T) {
	p := parseBody(t, "application/json", `{"amount": 12.5, "description": "커피", "id": "abc"}`)

	if !p.IsJSON() {
		t.Fatal("JSON body not detected")
	}
	if got := p.Get("amount"); got != "12.5" {
		t.Errorf("amount = %q, want 12.5", got)
	}
	if got := p.Get("id"); got != "abc" {
		t.Errorf("id = %q", got)
	}
}

func TestRequestBodyParser_JSONWithoutContentType(t *testing.T) {
	p := parseBody(t, "", `{"id":"abc"}`)
	if !p.IsJSON() || p.Get("id") != "abc" {
		t.Fatalf("expected JSON sniffed from body, got id=%q", p.Get("id"))
	}
}

func TestRequestBodyParser_MalformedJSON(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/expenses", strings.NewReader(`{"amount":`))
	req.Header.Set("Content-Type", "application/json")
	p := NewRequestBodyParser(req)
	if err := p.Parse(); err == nil {
		t.Fatal("Parse() error = nil, want JSON error")
	}
	if err := p.Parse(); err == nil {
		t.Fatal("second Parse() must return the same error")
	}
}

func TestExpenseForm_NewExpense(t *testing.T) {
	today := core.NewDate(2024, 3, 15)

	got, err := ExpenseForm{Amount: "1234,5", Description: "택시", Category: "Transport", Date: "2024-03-01"}.NewExpense(today)
	if err != nil {
		t.Fatalf("NewExpense() error = %v", err)
	}
	want := core.NewExpense{
		Amount:      core.Money{Cents: 123450},
		Category:    core.CategoryTransport,
		Description: "택시",
		Date:        core.NewDate(2024, 3, 1),
	}
	if got != want {
		t.Errorf("NewExpense() = %+v, want %+v", got, want)
	}
}

func TestExpenseForm_Defaults(t *testing.T) {
	today := core.NewDate(2024, 3, 15)

	got, err := ExpenseForm{Amount: "5000", Description: "점심"}.NewExpense(today)
	if err != nil {
		t.Fatalf("NewExpense() error = %v", err)
	}
	if got.Category != core.Categories[0] {
		t.Errorf("Category = %q, want first category %q", got.Category, core.Categories[0])
	}
	if got.Date != today {
		t.Errorf("Date = %v, want today %v", got.Date, today)
	}
}

func TestExpenseForm_Errors(t *testing.T) {
	today := core.NewDate(2024, 3, 15)
	tests := []struct {
		name      string
		form      ExpenseForm
		wantField string
		wantMsg   string
	}{
		{"empty amount", ExpenseForm{Description: "점심"}, "amount", msgAmountAndDescriptionRequired},
		{"empty description", ExpenseForm{Amount: "5000"}, "description", msgAmountAndDescriptionRequired},
		{"not a number", ExpenseForm{Amount: "많이", Description: "점심"}, "amount", msgInvalidAmount},
		{"zero", ExpenseForm{Amount: "0", Description: "점심"}, "amount", msgInvalidAmount},
		{"negative", ExpenseForm{Amount: "-100", Description: "점심"}, "amount", msgInvalidAmount},
		{"unknown category", ExpenseForm{Amount: "100", Description: "점심", Category: "여행"}, "category", msgInvalidCategory},
		{"bad date", ExpenseForm{Amount: "100", Description: "점심", Date: "15/03/2024"}, "date", msgInvalidDate},
		{"long description", ExpenseForm{Amount: "100", Description: strings.Repeat("a", 201)}, "description", msgDescriptionTooLong},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.form.NewExpense(today)
			var fe *FormError
			if !errors.As(err, &fe) {
				t.Fatalf("NewExpense() error = %v, want *FormError", err)
			}
			if fe.Field != tt.wantField || fe.Message != tt.wantMsg {
				t.Errorf("FormError = {%s, %q}, want {%s, %q}", fe.Field, fe.Message, tt.wantField, tt.wantMsg)
			}
		})
	}
}

func TestExpenseForm_AmountErrorWrapsSentinel(t *testing.T) {
	_, err := ExpenseForm{Amount: "abc", Description: "x"}.NewExpense(core.NewDate(2024, 1, 1))
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("error = %v, want core.ErrInvalidAmount in chain", err)
	}
}
