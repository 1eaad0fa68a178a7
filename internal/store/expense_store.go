// Package store holds the application state containers. Each store owns an
// in-memory copy of its state and mirrors every mutation to a repository.
// Persistence is best effort: a failed save is logged and the in-memory
// state stays authoritative.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"budget/internal/core"
	applog "budget/internal/log"
)

// ExpenseStore owns the expense collection, newest first by insertion.
type ExpenseStore struct {
	mu       sync.RWMutex
	expenses []core.Expense
	repo     ExpenseRepository
	now      func() time.Time
	newID    func() string
	logger   *applog.Logger
}

// NewExpenseStore restores the collection from repo. A missing, unreadable
// or malformed document yields an empty collection.
func NewExpenseStore(ctx context.Context, repo ExpenseRepository, opts ...Option) *ExpenseStore {
	o := buildOptions(opts)
	s := &ExpenseStore{
		repo:   repo,
		now:    o.now,
		newID:  o.newID,
		logger: o.logger,
	}

	loaded, err := repo.Load(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to load expenses, starting empty",
			applog.NewFields().WithError(err).WithOperation(applog.OpLoad).WithNamespace(ExpenseNamespace).ToSlice()...)
		loaded = nil
	}
	s.expenses = dedupe(loaded)

	s.logger.InfoContext(ctx, "Expense store ready", applog.FieldCount, len(s.expenses))
	return s
}

// AddExpense assigns an ID and creation time, prepends the record and
// persists the collection. Input is stored as given; validation belongs to
// the caller.
func (s *ExpenseStore) AddExpense(ctx context.Context, in core.NewExpense) core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := core.Expense{
		ID:          s.uniqueID(),
		Amount:      in.Amount,
		Category:    in.Category,
		Description: in.Description,
		Date:        in.Date,
		CreatedAt:   s.now().UTC().Truncate(time.Millisecond),
	}

	next := make([]core.Expense, 0, len(s.expenses)+1)
	next = append(next, e)
	s.expenses = append(next, s.expenses...)
	s.persist(ctx, applog.OpCreate)

	s.logger.DebugContext(ctx, "Expense added",
		applog.NewFields().WithExpense(e.ID, e.Description, e.Amount.Cents, e.Category.String()).ToSlice()...)
	return e
}

// RemoveExpense drops the record with id. It reports whether a record was
// removed; an unknown id changes nothing and is not persisted.
func (s *ExpenseStore) RemoveExpense(ctx context.Context, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx := -1
	for i, e := range s.expenses {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return false
	}

	next := make([]core.Expense, 0, len(s.expenses)-1)
	next = append(next, s.expenses[:idx]...)
	s.expenses = append(next, s.expenses[idx+1:]...)
	s.persist(ctx, applog.OpDelete)

	s.logger.DebugContext(ctx, "Expense removed", applog.FieldExpenseID, id)
	return true
}

// TotalExpenses sums every amount; zero for an empty collection.
func (s *ExpenseStore) TotalExpenses() core.Money {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var total core.Money
	for _, e := range s.expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// ExpensesByCategory returns the records of category c in collection order.
// The result is never nil.
func (s *ExpenseStore) ExpensesByCategory(c core.Category) []core.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]core.Expense, 0)
	for _, e := range s.expenses {
		if e.Category == c {
			out = append(out, e)
		}
	}
	return out
}

// Expenses returns a copy of the collection, newest first.
func (s *ExpenseStore) Expenses() []core.Expense {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]core.Expense{}, s.expenses...)
}

// Get returns the record with id.
func (s *ExpenseStore) Get(id string) (core.Expense, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.expenses {
		if e.ID == id {
			return e, true
		}
	}
	return core.Expense{}, false
}

func (s *ExpenseStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.expenses)
}

// Summary aggregates the collection with the recent newest records.
func (s *ExpenseStore) Summary(recent int) core.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.Summarize(s.expenses, recent)
}

// persist must be called with mu held.
func (s *ExpenseStore) persist(ctx context.Context, op string) {
	if err := s.repo.Save(ctx, s.expenses); err != nil {
		s.logger.WarnContext(ctx, "Failed to persist expenses, keeping in-memory state",
			applog.NewFields().WithError(err).WithOperation(op).WithNamespace(ExpenseNamespace).ToSlice()...)
	}
}

// uniqueID must be called with mu held.
func (s *ExpenseStore) uniqueID() string {
	for range 8 {
		id := s.newID()
		if id != "" && !s.hasID(id) {
			return id
		}
	}
	id := uuid.NewString()
	for s.hasID(id) {
		id = uuid.NewString()
	}
	return id
}

func (s *ExpenseStore) hasID(id string) bool {
	for _, e := range s.expenses {
		if e.ID == id {
			return true
		}
	}
	return false
}

// dedupe drops records whose ID was already seen; the first one wins.
func dedupe(in []core.Expense) []core.Expense {
	out := make([]core.Expense, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, e := range in {
		if _, ok := seen[e.ID]; ok {
			continue
		}
		seen[e.ID] = struct{}{}
		out = append(out, e)
	}
	return out
}
