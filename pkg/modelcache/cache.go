package modelcache

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/hotaru-ai/promptchat/pkg/backend"
	"github.com/hotaru-ai/promptchat/pkg/logger"
)

// Cache lazily loads and memoizes one generator per model identifier.
// Entries are immutable once installed and never evicted; the loaded set is
// expected to stay small.
type Cache struct {
	mu      sync.Mutex
	loader  backend.Loader
	entries map[string]backend.Generator
}

func New(loader backend.Loader) *Cache {
	return &Cache{
		loader:  loader,
		entries: make(map[string]backend.Generator),
	}
}

// GetOrLoad returns the generator for modelName, loading it on first use.
// The load itself runs with no lock held, so loads of different models can
// proceed in parallel and bookkeeping never stalls behind a slow load.
// If two goroutines race the same unseen model, the first writer wins and the
// loser's generator is discarded unused. A failed load leaves the cache
// untouched.
func (c *Cache) GetOrLoad(ctx context.Context, modelName string) (backend.Generator, error) {
	c.mu.Lock()
	if gen, ok := c.entries[modelName]; ok {
		c.mu.Unlock()
		return gen, nil
	}
	c.mu.Unlock()

	logger.InfoCF("modelcache", "Loading model", map[string]interface{}{"model": modelName})
	gen, err := c.loader.Load(ctx, modelName)
	if err != nil {
		return nil, fmt.Errorf("load model %s: %w", modelName, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.entries[modelName]; ok {
		return existing, nil
	}
	c.entries[modelName] = gen
	return gen, nil
}

// Loaded returns the sorted identifiers of all installed entries.
func (c *Cache) Loaded() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	names := make([]string, 0, len(c.entries))
	for name := range c.entries {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
