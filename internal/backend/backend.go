// Package backend opens the key/value store that holds the persisted
// documents, selected by DATA_BACKEND.
package backend

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"budget/internal/config"
	"budget/internal/storage"
)

// Kind names a document backend.
type Kind string

const (
	KindSQLite Kind = config.BackendSQLite
	KindMemory Kind = config.BackendMemory
)

// Kinds lists the supported backends in preference order.
func Kinds() []Kind {
	return []Kind{KindSQLite, KindMemory}
}

func (k Kind) String() string { return string(k) }

// ParseKind accepts a backend name case-insensitively.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range Kinds() {
		if k == known {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown backend %q", s)
}

// Options selects and parameterizes a backend.
type Options struct {
	Kind       Kind
	SQLitePath string
}

// OptionsFromConfig extracts backend options from the application config.
func OptionsFromConfig(cfg *config.Config) (Options, error) {
	if cfg == nil {
		return Options{}, errors.New("backend: nil config")
	}
	kind, err := ParseKind(cfg.DataBackend)
	if err != nil {
		return Options{}, err
	}
	return Options{Kind: kind, SQLitePath: cfg.SQLiteDBPath}, nil
}

func (o Options) Validate() error {
	if _, err := ParseKind(string(o.Kind)); err != nil {
		return err
	}
	if o.Kind == KindSQLite && strings.TrimSpace(o.SQLitePath) == "" {
		return errors.New("sqlite backend needs a database path")
	}
	return nil
}

// Backend is an opened document store.
type Backend struct {
	Kind Kind
	KV   storage.KV

	// Ready reports whether the store can serve requests.
	Ready func(ctx context.Context) error

	close func() error
}

// Close releases the store. Safe on a nil Backend and safe to call twice.
func (b *Backend) Close() error {
	if b == nil || b.close == nil {
		return nil
	}
	closeFn := b.close
	b.close = nil
	return closeFn()
}

// Opener opens the backend described by Options.
type Opener interface {
	Open(ctx context.Context, opts Options) (*Backend, error)
}
