package client

import (
	"context"
	"sync"

	"github.com/mithrel/dossier/pkg/api"
)

// KeywordFetcher is the subset of Client the cache needs.
type KeywordFetcher interface {
	Keywords(ctx context.Context, id int64) (api.KeywordSet, error)
}

// KeywordCache holds the keyword set of the current report. It refetches
// only when the report identity or text changes. It is safe for concurrent
// use; concurrent Gets are serialized so one fetch runs at a time.
type KeywordCache struct {
	c KeywordFetcher

	mu  sync.Mutex
	key string
	set api.KeywordSet
}

func NewKeywordCache(c KeywordFetcher) *KeywordCache {
	return &KeywordCache{c: c}
}

// Get returns the cached set for r, fetching it on first use.
func (k *KeywordCache) Get(ctx context.Context, r api.Report) (api.KeywordSet, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	key := r.ContentKey()
	if k.key != "" && k.key == key {
		return k.set, nil
	}
	set, err := k.c.Keywords(ctx, r.ID)
	if err != nil {
		return api.KeywordSet{}, err
	}
	k.key, k.set = key, set
	return set, nil
}

// Invalidate drops the cached set.
func (k *KeywordCache) Invalidate() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.key = ""
	k.set = api.KeywordSet{}
}
