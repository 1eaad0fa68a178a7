package backend

import (
	"context"
	"fmt"

	applog "budget/internal/log"
	"budget/internal/storage"
	"budget/internal/storage/memory"
)

type opener struct {
	logger *applog.Logger
}

// NewOpener returns the default Opener. A nil logger falls back to the
// package default.
func NewOpener(logger *applog.Logger) Opener {
	if logger == nil {
		logger = applog.Default(applog.ComponentBackend)
	}
	return &opener{logger: logger.WithComponent(applog.ComponentBackend)}
}

func (o *opener) Open(ctx context.Context, opts Options) (*Backend, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("backend options: %w", err)
	}

	switch opts.Kind {
	case KindSQLite:
		return o.openSQLite(ctx, opts.SQLitePath)
	case KindMemory:
		return o.openMemory(ctx), nil
	}
	return nil, fmt.Errorf("unsupported backend %q", opts.Kind)
}

func (o *opener) openSQLite(ctx context.Context, path string) (*Backend, error) {
	repo, err := storage.NewSQLiteRepository(path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite backend: %w", err)
	}

	version, err := repo.SchemaVersion(ctx)
	if err != nil {
		o.logger.WarnContext(ctx, "Could not read schema version", applog.FieldError, err)
	}
	o.logger.InfoContext(ctx, "SQLite backend ready", "db_path", path, "schema_version", version)

	return &Backend{
		Kind:  KindSQLite,
		KV:    repo,
		Ready: repo.Ping,
		close: repo.Close,
	}, nil
}

func (o *opener) openMemory(ctx context.Context) *Backend {
	o.logger.WarnContext(ctx, "Memory backend selected, documents are lost on restart")

	kv := memory.New()
	return &Backend{
		Kind:  KindMemory,
		KV:    kv,
		Ready: func(context.Context) error { return nil },
	}
}
