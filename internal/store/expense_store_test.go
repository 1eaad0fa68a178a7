package store

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"budget/internal/core"
	applog "budget/internal/log"
	"budget/internal/storage/memory"
)

// fakeExpenseRepo records saves and can be told to fail.
type fakeExpenseRepo struct {
	initial []core.Expense
	loadErr error
	saveErr error
	saves   int
	saved   []core.Expense
}

func (f *fakeExpenseRepo) Load(context.Context) ([]core.Expense, error) {
	return f.initial, f.loadErr
}

func (f *fakeExpenseRepo) Save(_ context.Context, expenses []core.Expense) error {
	f.saves++
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saved = append([]core.Expense(nil), expenses...)
	return nil
}

func quietLogger() *applog.Logger {
	return applog.New(applog.Config{Output: io.Discard, Component: applog.ComponentStore})
}

func fixedClock() func() time.Time {
	t := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func newTestStore(t *testing.T, repo ExpenseRepository, opts ...Option) *ExpenseStore {
	t.Helper()
	opts = append([]Option{WithLogger(quietLogger()), WithClock(fixedClock())}, opts...)
	return NewExpenseStore(context.Background(), repo, opts...)
}

func expense(units int64, c core.Category, desc string, day int) core.NewExpense {
	return core.NewExpense{
		Amount:      core.FromUnits(units),
		Category:    c,
		Description: desc,
		Date:        core.NewDate(2024, 1, day),
	}
}

func TestExpenseStore_Scenario(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, &fakeExpenseRepo{})

	lunch := s.AddExpense(ctx, expense(1000, core.CategoryFood, "lunch", 1))
	bus := s.AddExpense(ctx, expense(2000, core.CategoryTransport, "bus", 2))
	dinner := s.AddExpense(ctx, expense(3000, core.CategoryFood, "dinner", 3))

	assert.Equal(t, core.FromUnits(6000), s.TotalExpenses())

	food := s.ExpensesByCategory(core.CategoryFood)
	require.Len(t, food, 2)
	assert.Equal(t, dinner.ID, food[0].ID, "newest insertion comes first")
	assert.Equal(t, lunch.ID, food[1].ID)

	assert.True(t, s.RemoveExpense(ctx, bus.ID))
	assert.Equal(t, core.FromUnits(4000), s.TotalExpenses())
}

func TestExpenseStore_AddAssignsIdentity(t *testing.T) {
	ctx := context.Background()
	repo := &fakeExpenseRepo{}
	s := newTestStore(t, repo)

	first := s.AddExpense(ctx, expense(1, core.CategoryOther, "a", 1))
	second := s.AddExpense(ctx, expense(2, core.CategoryOther, "b", 1))

	assert.NotEmpty(t, first.ID)
	assert.NotEqual(t, first.ID, second.ID)
	assert.False(t, first.CreatedAt.IsZero())
	assert.Equal(t, time.UTC, first.CreatedAt.Location())

	// CreatedAt is stable across reads
	got, ok := s.Get(first.ID)
	require.True(t, ok)
	assert.True(t, got.CreatedAt.Equal(first.CreatedAt))
	assert.True(t, s.Expenses()[1].CreatedAt.Equal(first.CreatedAt))

	assert.Equal(t, 2, repo.saves, "every add persists")
	require.Len(t, repo.saved, 2)
	assert.Equal(t, second.ID, repo.saved[0].ID)
}

func TestExpenseStore_AcceptsUnvalidatedInput(t *testing.T) {
	s := newTestStore(t, &fakeExpenseRepo{})
	e := s.AddExpense(context.Background(), core.NewExpense{
		Amount:   core.Money{Cents: -500},
		Category: "Rent",
	})
	assert.Equal(t, core.Category("Rent"), e.Category)
	assert.Equal(t, int64(-500), s.TotalExpenses().Cents)
}

func TestExpenseStore_UniqueIDsWithCollidingGenerator(t *testing.T) {
	s := newTestStore(t, &fakeExpenseRepo{}, WithIDGenerator(func() string { return "same" }))
	ctx := context.Background()

	ids := map[string]bool{}
	for i := 0; i < 5; i++ {
		e := s.AddExpense(ctx, expense(int64(i+1), core.CategoryFood, fmt.Sprint(i), 1))
		assert.False(t, ids[e.ID], "duplicate id %s", e.ID)
		ids[e.ID] = true
	}
	assert.True(t, ids["same"])
}

func TestExpenseStore_RemoveUnknownIsNoop(t *testing.T) {
	ctx := context.Background()
	repo := &fakeExpenseRepo{}
	s := newTestStore(t, repo)
	s.AddExpense(ctx, expense(1000, core.CategoryFood, "lunch", 1))
	before := s.Expenses()
	saves := repo.saves

	assert.False(t, s.RemoveExpense(ctx, "missing"))
	assert.Equal(t, before, s.Expenses())
	assert.Equal(t, saves, repo.saves, "no-op remove must not persist")
}

func TestExpenseStore_TotalMatchesSurvivors(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, &fakeExpenseRepo{})
	assert.True(t, s.TotalExpenses().IsZero())

	var want int64
	var added []core.Expense
	for i := int64(1); i <= 20; i++ {
		e := s.AddExpense(ctx, core.NewExpense{Amount: core.Money{Cents: i*137 + 1}, Category: core.CategoryShopping})
		added = append(added, e)
		want += e.Amount.Cents
	}
	for i, e := range added {
		if i%3 == 0 {
			require.True(t, s.RemoveExpense(ctx, e.ID))
			want -= e.Amount.Cents
		}
	}
	assert.Equal(t, want, s.TotalExpenses().Cents)
}

func TestExpenseStore_ByCategoryEmpty(t *testing.T) {
	s := newTestStore(t, &fakeExpenseRepo{})
	s.AddExpense(context.Background(), expense(1000, core.CategoryFood, "lunch", 1))

	got := s.ExpensesByCategory(core.CategoryMedical)
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestExpenseStore_SaveFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	repo := &fakeExpenseRepo{saveErr: errors.New("quota exceeded")}
	s := newTestStore(t, repo)

	e := s.AddExpense(ctx, expense(1000, core.CategoryFood, "lunch", 1))
	assert.Equal(t, 1, s.Len())
	assert.Equal(t, 1, repo.saves)

	assert.True(t, s.RemoveExpense(ctx, e.ID))
	assert.Equal(t, 0, s.Len())
}

func TestExpenseStore_LoadFailuresStartEmpty(t *testing.T) {
	s := newTestStore(t, &fakeExpenseRepo{loadErr: ErrMalformedDocument})
	assert.Equal(t, 0, s.Len())
	assert.NotNil(t, s.Expenses())

	ctx := context.Background()
	kv := memory.New()
	require.NoError(t, kv.Put(ctx, ExpenseNamespace, []byte(`{"state":{"expenses":"oops"}`)))
	s = newTestStore(t, NewExpenseDocuments(kv))
	assert.Equal(t, 0, s.Len())
}

func TestExpenseStore_LoadDropsDuplicateIDs(t *testing.T) {
	repo := &fakeExpenseRepo{initial: []core.Expense{
		{ID: "a", Amount: core.FromUnits(1)},
		{ID: "b", Amount: core.FromUnits(2)},
		{ID: "a", Amount: core.FromUnits(3)},
	}}
	s := newTestStore(t, repo)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, core.FromUnits(3), s.TotalExpenses())
}

func TestExpenseStore_PersistsAcrossRestart(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()

	s := newTestStore(t, NewExpenseDocuments(kv))
	s.AddExpense(ctx, expense(1000, core.CategoryFood, "lunch", 1))
	s.AddExpense(ctx, core.NewExpense{Amount: core.Money{Cents: 1250}, Category: core.CategoryCulture, Description: "영화", Date: core.NewDate(2024, 2, 29)})
	want := s.Expenses()

	restarted := newTestStore(t, NewExpenseDocuments(kv))
	assert.Equal(t, want, restarted.Expenses())
}

func TestExpenseStore_Summary(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t, &fakeExpenseRepo{})
	for i := 1; i <= 7; i++ {
		s.AddExpense(ctx, expense(int64(i*100), core.CategoryFood, fmt.Sprint(i), i))
	}

	sum := s.Summary(5)
	assert.Equal(t, 7, sum.Count)
	assert.Equal(t, 2, sum.More)
	require.Len(t, sum.Recent, 5)
	assert.Equal(t, "7", sum.Recent[0].Description)
	assert.Equal(t, core.FromUnits(2800), sum.Total)
}
