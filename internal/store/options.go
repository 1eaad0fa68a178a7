package store

import (
	"time"

	"github.com/google/uuid"

	applog "budget/internal/log"
)

type options struct {
	now    func() time.Time
	newID  func() string
	logger *applog.Logger
}

// Option customizes a store.
type Option func(*options)

// WithClock replaces time.Now for CreatedAt stamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator replaces the UUIDv7 generator.
func WithIDGenerator(newID func() string) Option {
	return func(o *options) { o.newID = newID }
}

func WithLogger(logger *applog.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func buildOptions(opts []Option) options {
	o := options{
		now:   time.Now,
		newID: newExpenseID,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = applog.Default(applog.ComponentStore)
	}
	return o
}

// newExpenseID returns a time-ordered UUIDv7, falling back to a random v4.
func newExpenseID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
