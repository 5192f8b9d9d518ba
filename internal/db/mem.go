package db

import (
	"context"
	"sync"
)

type memStore struct {
	mu    sync.RWMutex
	prefs map[string]string
}

func newMemStore() *memStore {
	return &memStore{prefs: make(map[string]string)}
}

func (m *memStore) GetPref(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.prefs[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *memStore) SetPref(ctx context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs[key] = value
	return nil
}

func (m *memStore) DeletePref(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.prefs, key)
	return nil
}

func (m *memStore) ListPrefs(ctx context.Context) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.prefs))
	for k, v := range m.prefs {
		out[k] = v
	}
	return out, nil
}

func (m *memStore) Close() error { return nil }
