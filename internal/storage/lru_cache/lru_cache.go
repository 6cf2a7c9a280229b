package lru_cache

import (
	"container/list"
	"context"
	"sync"

	"greencommute/internal/metrics"

	"github.com/rs/zerolog/log"
)

const tier = "lru"

type CacheItem[K comparable, V any] struct {
	Key   K
	Value V
}

/*
*
Cache based on a map of elements and a linked list.
Touching an elem moves it to the front of the list,
when full the elem at the back is evicted.
*/
type LRUCache[K comparable, V any] struct {
	capacity int
	items    map[K]*list.Element
	order    *list.List
	mu       sync.Mutex
	saveChan chan CacheItem[K, V]
	done     <-chan struct{}
}

func NewLRUCache[K comparable, V any](ctx context.Context, capacity int, lruChanSize int) *LRUCache[K, V] {
	cache := &LRUCache[K, V]{
		capacity: capacity,
		items:    make(map[K]*list.Element, capacity),
		order:    list.New(),
		saveChan: make(chan CacheItem[K, V], lruChanSize),
		done:     ctx.Done(),
	}

	//goroutine to async save in cache
	go cache.runUpdater(ctx)
	return cache
}

// get an elem
func (c *LRUCache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	elem, ok := c.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.order.MoveToFront(elem)
	return elem.Value.(*CacheItem[K, V]).Value, true
}

// Len number of cached elems
func (c *LRUCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// get all values, most recently used first
func (c *LRUCache[K, V]) GetValues() []V {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]V, 0, c.order.Len())
	for e := c.order.Front(); e != nil; e = e.Next() {
		result = append(result, e.Value.(*CacheItem[K, V]).Value)
	}
	return result
}

// get all keys, most recently used first
func (c *LRUCache[K, V]) Keys() []K {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]K, 0, c.order.Len())
	for e := c.order.Front(); e != nil; e = e.Next() {
		result = append(result, e.Value.(*CacheItem[K, V]).Key)
	}
	return result
}

// async set values
func (c *LRUCache[K, V]) Update(rows []CacheItem[K, V]) {
	for i := range rows {
		select {
		case c.saveChan <- rows[i]:
		default:
			//if blocked make new goroutine to save
			go func(r CacheItem[K, V]) {
				select {
				case c.saveChan <- r:
				case <-c.done:
				}
			}(rows[i])
		}
	}
}

// sync set value
func (c *LRUCache[K, V]) Set(key K, value V) {
	if c.capacity <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.items[key]; ok {
		elem.Value.(*CacheItem[K, V]).Value = value
		c.order.MoveToFront(elem)
		return
	}

	if c.order.Len() >= c.capacity {
		oldest := c.order.Back()
		if oldest != nil {
			delete(c.items, oldest.Value.(*CacheItem[K, V]).Key)
			c.order.Remove(oldest)
		}
	}

	elem := c.order.PushFront(&CacheItem[K, V]{Key: key, Value: value})
	c.items[key] = elem
}

// delete an elem
func (c *LRUCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if elem, ok := c.items[key]; ok {
		c.order.Remove(elem)
		delete(c.items, key)
	}
}

func (c *LRUCache[K, V]) BatchGet(keys []K) ([]V, []K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make([]V, 0, len(keys))
	notFound := make([]K, 0)
	for _, key := range keys {
		if elem, ok := c.items[key]; ok {
			c.order.MoveToFront(elem)
			result = append(result, elem.Value.(*CacheItem[K, V]).Value)
			continue
		}
		notFound = append(notFound, key)
	}
	metrics.ObserveCache(tier, len(result), len(notFound))
	log.Debug().Int("hit", len(result)).Int("miss", len(notFound)).Msg("lru cache lookup")
	return result, notFound
}

func (c *LRUCache[K, V]) runUpdater(ctx context.Context) {
	for {
		select {
		case row, ok := <-c.saveChan:
			if !ok {
				return
			}
			c.Set(row.Key, row.Value)
		case <-ctx.Done():
			return
		}
	}
}
