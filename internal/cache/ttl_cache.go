package cache

import (
	"container/list"
	"sync"
	"time"
)

type item[K comparable, V any] struct {
	key      K
	value    V
	deadline time.Time
}

// TTLCache 是附帶逾期時間的 LRU 快取，超過容量時淘汰最久未使用的項目。
type TTLCache[K comparable, V any] struct {
	mu       sync.Mutex
	ttl      time.Duration
	capacity int
	now      func() time.Time
	lru      *list.List
	index    map[K]*list.Element
}

// NewTTLCache 建立容量與逾期時間固定的 TTLCache。
func NewTTLCache[K comparable, V any](capacity int, ttl time.Duration) *TTLCache[K, V] {
	if capacity <= 0 {
		capacity = 1
	}
	if ttl <= 0 {
		ttl = time.Second
	}
	return &TTLCache[K, V]{
		ttl:      ttl,
		capacity: capacity,
		now:      time.Now,
		lru:      list.New(),
		index:    make(map[K]*list.Element, capacity),
	}
}

// Get 取出尚未逾期的項目，逾期項目順手移除。
func (c *TTLCache[K, V]) Get(key K) (V, bool) {
	var zero V
	c.mu.Lock()
	defer c.mu.Unlock()

	element, ok := c.index[key]
	if !ok {
		return zero, false
	}

	it := element.Value.(*item[K, V])
	if c.now().After(it.deadline) {
		c.drop(element)
		return zero, false
	}

	c.lru.MoveToFront(element)
	return it.value, true
}

// Set 寫入或更新項目並重設逾期時間。
func (c *TTLCache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	deadline := c.now().Add(c.ttl)
	if element, ok := c.index[key]; ok {
		it := element.Value.(*item[K, V])
		it.value = value
		it.deadline = deadline
		c.lru.MoveToFront(element)
		return
	}

	element := c.lru.PushFront(&item[K, V]{key: key, value: value, deadline: deadline})
	c.index[key] = element
	for len(c.index) > c.capacity {
		oldest := c.lru.Back()
		if oldest == nil {
			break
		}
		c.drop(oldest)
	}
}

// Delete 移除項目，不存在時為 no-op。
func (c *TTLCache[K, V]) Delete(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if element, ok := c.index[key]; ok {
		c.drop(element)
	}
}

// Len 回傳目前項目數，含尚未被 Get 掃到的逾期項目。
func (c *TTLCache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.index)
}

func (c *TTLCache[K, V]) drop(element *list.Element) {
	c.lru.Remove(element)
	delete(c.index, element.Value.(*item[K, V]).key)
}
