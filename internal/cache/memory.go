package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// MemoryCache 进程内缓存后端（LRU + 按条目过期）
// 未配置 Redis 时使用
type MemoryCache struct {
	maxSize int
	mu      sync.Mutex
	cache   map[string]*list.Element
	lru     *list.List
	now     func() time.Time

	// 统计
	hits   uint64
	misses uint64
}

// cacheEntry LRU缓存条目
type cacheEntry struct {
	key       string
	value     []byte
	expiresAt time.Time
}

// NewMemoryCache 创建内存缓存
func NewMemoryCache(maxSize int) *MemoryCache {
	if maxSize <= 0 {
		maxSize = 1000
	}
	return &MemoryCache{
		maxSize: maxSize,
		cache:   make(map[string]*list.Element),
		lru:     list.New(),
		now:     time.Now,
	}
}

// Get 获取缓存
func (m *MemoryCache) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	elem, exists := m.cache[key]
	if !exists {
		m.misses++
		return nil, ErrCacheMiss
	}

	entry := elem.Value.(*cacheEntry)
	if m.expired(entry) {
		m.lru.Remove(elem)
		delete(m.cache, key)
		m.misses++
		return nil, ErrCacheMiss
	}

	m.lru.MoveToFront(elem)
	m.hits++
	return entry.value, nil
}

// Set 设置缓存，ttl<=0 表示不过期
func (m *MemoryCache) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expiresAt time.Time
	if ttl > 0 {
		expiresAt = m.now().Add(ttl)
	}

	if elem, exists := m.cache[key]; exists {
		entry := elem.Value.(*cacheEntry)
		entry.value = value
		entry.expiresAt = expiresAt
		m.lru.MoveToFront(elem)
		return nil
	}

	elem := m.lru.PushFront(&cacheEntry{key: key, value: value, expiresAt: expiresAt})
	m.cache[key] = elem

	// 超出容量，删除最久未使用的
	if m.lru.Len() > m.maxSize {
		if oldest := m.lru.Back(); oldest != nil {
			m.lru.Remove(oldest)
			delete(m.cache, oldest.Value.(*cacheEntry).key)
		}
	}
	return nil
}

// Delete 删除缓存
func (m *MemoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if elem, exists := m.cache[key]; exists {
		m.lru.Remove(elem)
		delete(m.cache, key)
	}
	return nil
}

// CleanExpired 清理过期条目，返回清理数量
func (m *MemoryCache) CleanExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	expired := 0
	for elem := m.lru.Back(); elem != nil; {
		prev := elem.Prev()
		entry := elem.Value.(*cacheEntry)
		if m.expired(entry) {
			m.lru.Remove(elem)
			delete(m.cache, entry.key)
			expired++
		}
		elem = prev
	}
	return expired
}

func (m *MemoryCache) expired(entry *cacheEntry) bool {
	return !entry.expiresAt.IsZero() && !m.now().Before(entry.expiresAt)
}

// MemoryCacheStats 内存缓存统计
type MemoryCacheStats struct {
	Size    int
	MaxSize int
	Hits    uint64
	Misses  uint64
	HitRate float64
}

// Stats 获取统计信息
func (m *MemoryCache) Stats() MemoryCacheStats {
	m.mu.Lock()
	defer m.mu.Unlock()

	total := m.hits + m.misses
	hitRate := 0.0
	if total > 0 {
		hitRate = float64(m.hits) / float64(total)
	}

	return MemoryCacheStats{
		Size:    m.lru.Len(),
		MaxSize: m.maxSize,
		Hits:    m.hits,
		Misses:  m.misses,
		HitRate: hitRate,
	}
}
