package cache

import (
	"sync"
	"time"
)

// ============================================================================
// CACHE SERVICE - IN-MEMORY CACHING CON TTL
// ============================================================================
// Caché thread-safe con expiración automática. Se usa para las búsquedas de
// usuario por username, que no cambian después del registro.
//
// Uso:
//
//	users := NewCache[models.User](5*time.Minute, 10*time.Minute)
//	users.Set("alice", u)
//	if u, found := users.Get("alice"); found {
//		return u
//	}

// Cache es un almacén thread-safe de key-value con TTL
type Cache[V any] struct {
	items             map[string]item[V]
	mu                sync.RWMutex
	defaultExpiration time.Duration
	cleanupInterval   time.Duration
	stopCleanup       chan struct{}
	stopOnce          sync.Once
}

type item[V any] struct {
	value      V
	expiration int64 // unix nanos, 0 = nunca expira
}

// Stats resume el contenido del caché en un instante
type Stats struct {
	TotalItems   int `json:"total_items"`
	ExpiredItems int `json:"expired_items"`
	ValidItems   int `json:"valid_items"`
}

// NewCache crea una nueva instancia de caché con TTL por defecto.
// Una goroutine limpia los expirados cada cleanupInterval hasta llamar Stop.
func NewCache[V any](defaultExpiration, cleanupInterval time.Duration) *Cache[V] {
	c := &Cache[V]{
		items:             make(map[string]item[V]),
		defaultExpiration: defaultExpiration,
		cleanupInterval:   cleanupInterval,
		stopCleanup:       make(chan struct{}),
	}
	if cleanupInterval > 0 {
		go c.startCleanupTimer()
	}
	return c
}

// Set almacena un valor con el TTL por defecto
func (c *Cache[V]) Set(key string, value V) {
	c.SetWithTTL(key, value, c.defaultExpiration)
}

// SetWithTTL almacena un valor por d; d <= 0 lo mantiene hasta borrarlo
func (c *Cache[V]) SetWithTTL(key string, value V, d time.Duration) {
	var expiration int64
	if d > 0 {
		expiration = time.Now().Add(d).UnixNano()
	}

	c.mu.Lock()
	c.items[key] = item[V]{value: value, expiration: expiration}
	c.mu.Unlock()
}

// Get obtiene un valor del caché si existe y no ha expirado
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	it, found := c.items[key]
	c.mu.RUnlock()

	var zero V
	if !found {
		return zero, false
	}
	if it.expiration > 0 && time.Now().UnixNano() > it.expiration {
		c.Delete(key)
		return zero, false
	}
	return it.value, true
}

func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
}

func (c *Cache[V]) Clear() {
	c.mu.Lock()
	c.items = make(map[string]item[V])
	c.mu.Unlock()
}

// Count incluye items expirados que aún no se limpian
func (c *Cache[V]) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

func (c *Cache[V]) GetStats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := Stats{TotalItems: len(c.items)}
	now := time.Now().UnixNano()
	for _, it := range c.items {
		if it.expiration > 0 && now > it.expiration {
			stats.ExpiredItems++
		} else {
			stats.ValidItems++
		}
	}
	return stats
}

func (c *Cache[V]) startCleanupTimer() {
	ticker := time.NewTicker(c.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.deleteExpired()
		case <-c.stopCleanup:
			return
		}
	}
}

func (c *Cache[V]) deleteExpired() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now().UnixNano()
	for key, it := range c.items {
		if it.expiration > 0 && now > it.expiration {
			delete(c.items, key)
		}
	}
}

// Stop detiene la limpieza automática. Se puede llamar más de una vez.
func (c *Cache[V]) Stop() {
	c.stopOnce.Do(func() { close(c.stopCleanup) })
}
