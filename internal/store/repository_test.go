package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budget/internal/core"
	"budget/internal/storage/memory"
)

type failingKV struct{ err error }

func (f failingKV) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, f.err
}

func (f failingKV) Put(context.Context, string, []byte) error {
	return f.err
}

func (f failingKV) Delete(context.Context, string) error {
	return f.err
}

func TestExpenseDocuments_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	repo := NewExpenseDocuments(kv)

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Nil(t, got, "absent key loads as empty")

	want := []core.Expense{
		{
			ID:          "0190c3c4-0000-7000-8000-000000000002",
			Amount:      core.FromUnits(3000),
			Category:    core.CategoryFood,
			Description: "dinner",
			Date:        core.NewDate(2024, 1, 3),
			CreatedAt:   time.Date(2024, 1, 3, 19, 0, 0, 123000000, time.UTC),
		},
		{
			ID:          "0190c3c4-0000-7000-8000-000000000001",
			Amount:      core.Money{Cents: 150},
			Category:    core.CategoryTransport,
			Description: "bus",
			Date:        core.NewDate(2024, 1, 2),
			CreatedAt:   time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC),
		},
	}
	require.NoError(t, repo.Save(ctx, want))

	got, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestExpenseDocuments_Layout(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	repo := NewExpenseDocuments(kv)

	require.NoError(t, repo.Save(ctx, []core.Expense{{
		ID:          "id-1",
		Amount:      core.FromUnits(1000),
		Category:    core.CategoryFood,
		Description: "lunch",
		Date:        core.NewDate(2024, 1, 1),
		CreatedAt:   time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC),
	}}))

	body, ok, err := kv.Get(ctx, ExpenseNamespace)
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{
		"state": {"expenses": [{
			"id": "id-1",
			"amount": 1000,
			"category": "식비",
			"description": "lunch",
			"date": "2024-01-01",
			"createdAt": "2024-01-01T12:00:00Z"
		}]},
		"version": 0
	}`, string(body))

	require.NoError(t, repo.Save(ctx, nil))
	body, _, _ = kv.Get(ctx, ExpenseNamespace)
	assert.JSONEq(t, `{"state":{"expenses":[]},"version":0}`, string(body))
}

func TestExpenseDocuments_Malformed(t *testing.T) {
	ctx := context.Background()
	cases := map[string]string{
		"not json":       `{{`,
		"bad amount":     `{"state":{"expenses":[{"id":"a","amount":"lots"}]},"version":0}`,
		"bad date":       `{"state":{"expenses":[{"id":"a","amount":1,"date":"soon"}]},"version":0}`,
		"future version": `{"state":{"expenses":[]},"version":3}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			kv := memory.New()
			require.NoError(t, kv.Put(ctx, ExpenseNamespace, []byte(body)))
			_, err := NewExpenseDocuments(kv).Load(ctx)
			assert.ErrorIs(t, err, ErrMalformedDocument)
		})
	}
}

func TestDocuments_PropagateBackendErrors(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("storage unavailable")

	_, err := NewExpenseDocuments(failingKV{boom}).Load(ctx)
	assert.ErrorIs(t, err, boom)
	assert.ErrorIs(t, NewExpenseDocuments(failingKV{boom}).Save(ctx, nil), boom)
	assert.ErrorIs(t, NewThemeDocuments(failingKV{boom}).Save(ctx, true), boom)
}

func TestThemeDocuments_RoundTrip(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	repo := NewThemeDocuments(kv)

	dark, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.False(t, dark)

	require.NoError(t, repo.Save(ctx, true))
	body, _, _ := kv.Get(ctx, ThemeNamespace)
	assert.JSONEq(t, `{"state":{"isDarkMode":true},"version":0}`, string(body))

	dark, err = repo.Load(ctx)
	require.NoError(t, err)
	assert.True(t, dark)
}
