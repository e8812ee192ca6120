package cache

import (
	"sync"

	lru "github.com/hashicorp/golang-lru"
)

type Key string

type Cache[I interface{}] interface {
	Get(key Key) (I, bool)
	Set(key Key, value I)
	Delete(key Key)
	Iterate(func(key Key, value I) error) error
	Len() int
}

var _ Cache[interface{}] = &MapCache[interface{}]{}

// MapCache grows without bound.
type MapCache[I interface{}] struct {
	cache map[Key]I
	mu    sync.RWMutex
}

func NewMapCache[I interface{}]() *MapCache[I] {
	return &MapCache[I]{
		cache: map[Key]I{},
		mu:    sync.RWMutex{},
	}
}

func (m *MapCache[I]) Get(key Key) (I, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	value, ok := m.cache[key]
	return value, ok
}

func (m *MapCache[I]) Set(key Key, value I) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache[key] = value
}

func (m *MapCache[I]) Delete(key Key) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.cache, key)
}

func (m *MapCache[I]) Iterate(fn func(key Key, value I) error) error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for key, value := range m.cache {
		if err := fn(key, value); err != nil {
			return err
		}
	}
	return nil
}

func (m *MapCache[I]) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.cache)
}

var _ Cache[interface{}] = &LRUCache[interface{}]{}

// LRUCache holds at most a fixed number of entries, evicting the least
// recently used.
type LRUCache[I interface{}] struct {
	cache *lru.Cache
}

func NewLRUCache[I interface{}](size int) (*LRUCache[I], error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &LRUCache[I]{cache: c}, nil
}

func (l *LRUCache[I]) Get(key Key) (I, bool) {
	value, ok := l.cache.Get(key)
	if !ok {
		return *new(I), false
	}
	return value.(I), true
}

func (l *LRUCache[I]) Set(key Key, value I) {
	l.cache.Add(key, value)
}

func (l *LRUCache[I]) Delete(key Key) {
	l.cache.Remove(key)
}

// Iterate visits entries from least to most recently used without
// changing their recency.
func (l *LRUCache[I]) Iterate(fn func(key Key, value I) error) error {
	for _, k := range l.cache.Keys() {
		value, ok := l.cache.Peek(k)
		if !ok {
			continue
		}
		if err := fn(k.(Key), value.(I)); err != nil {
			return err
		}
	}
	return nil
}

func (l *LRUCache[I]) Len() int {
	return l.cache.Len()
}
