package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"budget/internal/core"
	"budget/internal/storage"
)

// Namespace keys under which each store persists its whole state.
const (
	ExpenseNamespace = "expense-storage"
	ThemeNamespace   = "theme-storage"
)

// documentVersion is written into every envelope. Documents from a newer
// version are treated as malformed.
const documentVersion = 0

var ErrMalformedDocument = errors.New("malformed persisted document")

type (
	// ExpenseRepository loads and saves the whole expense collection.
	ExpenseRepository interface {
		Load(ctx context.Context) ([]core.Expense, error)
		Save(ctx context.Context, expenses []core.Expense) error
	}

	// ThemeRepository loads and saves the dark mode flag.
	ThemeRepository interface {
		Load(ctx context.Context) (bool, error)
		Save(ctx context.Context, dark bool) error
	}
)

type envelope[T any] struct {
	State   T   `json:"state"`
	Version int `json:"version"`
}

type expenseState struct {
	Expenses []core.Expense `json:"expenses"`
}

type themeState struct {
	IsDarkMode bool `json:"isDarkMode"`
}

// ExpenseDocuments persists the collection as one JSON document.
type ExpenseDocuments struct {
	kv  storage.KV
	key string
}

var _ ExpenseRepository = (*ExpenseDocuments)(nil)

func NewExpenseDocuments(kv storage.KV) *ExpenseDocuments {
	return &ExpenseDocuments{kv: kv, key: ExpenseNamespace}
}

// Load returns nil when nothing was persisted yet.
func (d *ExpenseDocuments) Load(ctx context.Context) ([]core.Expense, error) {
	doc, ok, err := loadDocument[expenseState](ctx, d.kv, d.key)
	if err != nil || !ok {
		return nil, err
	}
	return doc.Expenses, nil
}

func (d *ExpenseDocuments) Save(ctx context.Context, expenses []core.Expense) error {
	if expenses == nil {
		expenses = []core.Expense{}
	}
	return saveDocument(ctx, d.kv, d.key, expenseState{Expenses: expenses})
}

// ThemeDocuments persists the theme flag as one JSON document.
type ThemeDocuments struct {
	kv  storage.KV
	key string
}

var _ ThemeRepository = (*ThemeDocuments)(nil)

func NewThemeDocuments(kv storage.KV) *ThemeDocuments {
	return &ThemeDocuments{kv: kv, key: ThemeNamespace}
}

func (d *ThemeDocuments) Load(ctx context.Context) (bool, error) {
	doc, _, err := loadDocument[themeState](ctx, d.kv, d.key)
	if err != nil {
		return false, err
	}
	return doc.IsDarkMode, nil
}

func (d *ThemeDocuments) Save(ctx context.Context, dark bool) error {
	return saveDocument(ctx, d.kv, d.key, themeState{IsDarkMode: dark})
}

func loadDocument[T any](ctx context.Context, kv storage.KV, key string) (T, bool, error) {
	var zero T
	body, ok, err := kv.Get(ctx, key)
	if err != nil {
		return zero, false, fmt.Errorf("read %s: %w", key, err)
	}
	if !ok {
		return zero, false, nil
	}

	var env envelope[T]
	if err := json.Unmarshal(body, &env); err != nil {
		return zero, false, fmt.Errorf("decode %s: %w: %v", key, ErrMalformedDocument, err)
	}
	if env.Version > documentVersion {
		return zero, false, fmt.Errorf("decode %s: %w: unsupported version %d", key, ErrMalformedDocument, env.Version)
	}
	return env.State, true, nil
}

func saveDocument[T any](ctx context.Context, kv storage.KV, key string, state T) error {
	body, err := json.Marshal(envelope[T]{State: state, Version: documentVersion})
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if err := kv.Put(ctx, key, body); err != nil {
		return fmt.Errorf("write %s: %w", key, err)
	}
	return nil
}
