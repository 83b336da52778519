package cache

import (
	"context"
	"sync"
)

type MemoryCache struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{values: make(map[string][]byte)}
}

func (memory *MemoryCache) Get(ctx context.Context, key string) ([]byte, error) {
	memory.mu.RLock()
	defer memory.mu.RUnlock()

	value, ok := memory.values[key]
	if !ok {
		return nil, ErrCacheMiss
	}
	return append([]byte(nil), value...), nil
}

func (memory *MemoryCache) Set(ctx context.Context, key string, value []byte) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	memory.values[key] = append([]byte(nil), value...)
	return nil
}

func (memory *MemoryCache) Delete(ctx context.Context, keys ...string) error {
	memory.mu.Lock()
	defer memory.mu.Unlock()

	for _, key := range keys {
		delete(memory.values, key)
	}
	return nil
}
