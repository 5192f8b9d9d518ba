// Package db persists client-only preferences in a local SQLite file.
package db

import (
	"context"
	"errors"
	"strings"
)

// Store is a small key/value preference store.
type Store interface {
	GetPref(ctx context.Context, key string) (string, error)
	SetPref(ctx context.Context, key, value string) error
	DeletePref(ctx context.Context, key string) error
	ListPrefs(ctx context.Context) (map[string]string, error)
	Close() error
}

var ErrNotFound = errors.New("not found")

// MemoryDSN opens a process-local store with no file behind it.
const MemoryDSN = "memory://"

// Open returns a Store for dsn: "memory://" or a sqlite path
// (optionally prefixed with sqlite://).
func Open(ctx context.Context, dsn string) (Store, error) {
	if strings.TrimSpace(dsn) == MemoryDSN {
		return newMemStore(), nil
	}
	s, err := openSQLite(ctx, dsn)
	if err != nil {
		return nil, err
	}
	return s, nil
}
