package cache

import (
	"sync"
	"time"
)

// TTLCache - явная кэш-способность с временем жизни записей.
// Передается зависимостью компонентам, которым нужен кэш,
// вместо амбиентных глобальных map.
type TTLCache[V any] struct {
	mu    sync.RWMutex
	ttl   time.Duration
	items map[string]entry[V]
}

type entry[V any] struct {
	value  V
	expiry time.Time
}

func New[V any](ttl time.Duration) *TTLCache[V] {
	return &TTLCache[V]{
		ttl:   ttl,
		items: map[string]entry[V]{},
	}
}

func (c *TTLCache[V]) Get(key string) (value V, ok bool) {
	c.mu.RLock()
	item, exist := c.items[key]
	c.mu.RUnlock()
	if !exist || time.Now().After(item.expiry) {
		var zero V
		return zero, false
	}
	return item.value, true
}

func (c *TTLCache[V]) Set(key string, value V) {
	c.mu.Lock()
	c.items[key] = entry[V]{
		value:  value,
		expiry: time.Now().Add(c.ttl),
	}
	c.mu.Unlock()
}

func (c *TTLCache[V]) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

// Cleanup - удаление протухших записей, вызывается фоновой задачей
func (c *TTLCache[V]) Cleanup() {
	now := time.Now()
	c.mu.Lock()
	for key, item := range c.items {
		if now.After(item.expiry) {
			delete(c.items, key)
		}
	}
	c.mu.Unlock()
}
