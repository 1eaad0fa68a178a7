package http

import (
	"strings"
	"testing"

	"budget/internal/core"
)

func TestFormatWon(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "0원"},
		{100000, "1,000원"},
		{123456700, "1,234,567원"},
		{1250, "12.5원"},
		{123456789, "1,234,567.89원"},
		{-500000, "-5,000원"},
	}
	for _, tt := range tests {
		if got := formatWon(core.Money{Cents: tt.cents}); got != tt.want {
			t.Errorf("formatWon(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}

func TestSanitizeInput(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"  lunch  ", "lunch"},
		{"a\x00b\x07c", "abc"},
		{"tab\tkept", "tab\tkept"},
		{"점심 식사", "점심 식사"},
	}
	for _, tt := range tests {
		if got := sanitizeInput(tt.in); got != tt.want {
			t.Errorf("sanitizeInput(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestGenerateRequestID(t *testing.T) {
	a, b := generateRequestID(), generateRequestID()
	if !strings.HasPrefix(a, "req_") || len(a) != len("req_")+16 {
		t.Errorf("generateRequestID() = %q, want req_ plus 16 hex chars", a)
	}
	if a == b {
		t.Error("generateRequestID() returned the same id twice")
	}
}
