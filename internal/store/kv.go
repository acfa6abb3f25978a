// Package store persists the usage record in a small key-value store.
package store

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
)

// ErrNotFound is returned by KV.Get when the key is absent.
var ErrNotFound = errors.New("key not found")

// KV is a minimal key-value store.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Close() error
}

const (
	BackendBlob   = "blob"
	BackendSQLite = "sqlite"

	sqliteFileName = "glassqr.db"
)

// Open returns the backend named by backend rooted at dir.
func Open(ctx context.Context, backend, dir string) (KV, error) {
	switch backend {
	case "", BackendBlob:
		return OpenBlobKV(dir)
	case BackendSQLite:
		return OpenSQLiteKV(ctx, filepath.Join(dir, sqliteFileName))
	}
	return nil, fmt.Errorf("unknown storage backend %q", backend)
}
