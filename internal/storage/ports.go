package storage

import "context"

// KV stores opaque documents under namespace keys.
type KV interface {
	// Get returns the document stored under key. ok is false when the key
	// has never been written or was deleted.
	Get(ctx context.Context, key string) (body []byte, ok bool, err error)
	// Put replaces the document stored under key.
	Put(ctx context.Context, key string, body []byte) error
	Delete(ctx context.Context, key string) error
}

// Pinger is implemented by backends that can report readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}
