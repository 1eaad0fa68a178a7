package http

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"budget/internal/core"
)

// formatWon renders an amount with thousands separators, e.g. "12,500원".
// Fractional amounts keep up to two decimals.
func formatWon(m core.Money) string {
	if m.Cents%100 == 0 {
		return humanize.Comma(m.Cents/100) + "원"
	}
	return humanize.CommafWithDigits(m.Units(), 2) + "원"
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}
