package store

import (
	"context"
	"sync"

	applog "budget/internal/log"
)

// ThemeStore holds the dark mode flag. Light mode is the default.
type ThemeStore struct {
	mu     sync.RWMutex
	dark   bool
	repo   ThemeRepository
	logger *applog.Logger
}

func NewThemeStore(ctx context.Context, repo ThemeRepository, opts ...Option) *ThemeStore {
	o := buildOptions(opts)
	s := &ThemeStore{repo: repo, logger: o.logger}

	dark, err := repo.Load(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to load theme, using light mode",
			applog.NewFields().WithError(err).WithOperation(applog.OpLoad).WithNamespace(ThemeNamespace).ToSlice()...)
		dark = false
	}
	s.dark = dark
	return s
}

func (s *ThemeStore) IsDarkMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dark
}

// Toggle flips the flag and returns the new value.
func (s *ThemeStore) Toggle(ctx context.Context) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dark = !s.dark
	s.persist(ctx, applog.OpToggle)
	return s.dark
}

func (s *ThemeStore) SetDarkMode(ctx context.Context, dark bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dark == dark {
		return
	}
	s.dark = dark
	s.persist(ctx, applog.OpSave)
}

func (s *ThemeStore) persist(ctx context.Context, op string) {
	if err := s.repo.Save(ctx, s.dark); err != nil {
		s.logger.WarnContext(ctx, "Failed to persist theme, keeping in-memory state",
			applog.NewFields().WithError(err).WithOperation(op).WithNamespace(ThemeNamespace).ToSlice()...)
	}
}
