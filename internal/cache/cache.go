package cache

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/patrickmn/go-cache"

	"github.com/JustJay7/case-consult/internal/config"
	"github.com/JustJay7/case-consult/internal/models"
	"github.com/JustJay7/case-consult/pkg/logger"
)

// Entry is the local copy of one consulted case.
type Entry struct {
	Case     models.NormalizedCase `json:"case"`
	Subjects []models.PartySubject `json:"subjects"`
	StoredAt time.Time             `json:"stored_at"`
}

type Cache interface {
	Get(key string) (*Entry, bool)
	Set(key string, value *Entry) error
	Delete(key string)
	Clear()
	Stats() CacheStats
	Close() error
}

type CacheStats struct {
	Backend    string    `json:"backend"`
	Hits       int64     `json:"hits"`
	Misses     int64     `json:"misses"`
	Size       int       `json:"size"`
	LastAccess time.Time `json:"last_access"`
}

// New returns a redis cache when cfg.RedisURL is set and reachable, otherwise
// the in-memory cache.
func New(cfg *config.Config, log *logger.Logger) Cache {
	if cfg.RedisURL != "" {
		rc, err := NewRedisCache(cfg.RedisURL, cfg.CacheTTL, log)
		if err == nil {
			return rc
		}
		log.Warn("Redis cache unavailable, using memory cache", "error", err)
	}
	return NewCache(cfg.CacheSize, cfg.CacheTTL)
}

type LRUCache struct {
	cache   *cache.Cache
	mu      sync.RWMutex
	stats   CacheStats
	maxSize int
}

func NewCache(maxSize int, ttl time.Duration) *LRUCache {
	if maxSize < 1 {
		maxSize = 1
	}
	return &LRUCache{
		cache:   cache.New(ttl, ttl*2),
		maxSize: maxSize,
		stats:   CacheStats{Backend: "memory"},
	}
}

func (c *LRUCache) Get(key string) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.stats.LastAccess = time.Now()

	if data, found := c.cache.Get(key); found {
		if entry, ok := data.(*Entry); ok {
			c.stats.Hits++
			return entry.clone(), true
		}
	}

	c.stats.Misses++
	return nil, false
}

func (c *LRUCache) Set(key string, value *Entry) error {
	if value == nil {
		return fmt.Errorf("cache: nil entry for %s", key)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.cache.Get(key); !exists && c.cache.ItemCount() >= c.maxSize {
		c.removeOldest()
	}

	c.cache.Set(key, value.clone(), cache.DefaultExpiration)
	return nil
}

func (c *LRUCache) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Delete(key)
}

func (c *LRUCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Flush()
	c.stats = CacheStats{Backend: "memory"}
}

func (c *LRUCache) Stats() CacheStats {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stats := c.stats
	stats.Size = c.cache.ItemCount()
	return stats
}

func (c *LRUCache) Close() error {
	return nil
}

// removeOldest evicts the entry closest to expiry, which is the one set first.
func (c *LRUCache) removeOldest() {
	items := c.cache.Items()
	if len(items) == 0 {
		return
	}

	var oldestKey string
	var oldest int64

	for key, item := range items {
		if oldestKey == "" || item.Expiration < oldest {
			oldestKey = key
			oldest = item.Expiration
		}
	}

	c.cache.Delete(oldestKey)
}

// CaseKey is the cache key of a case consulted with the given filter.
func CaseKey(caseNumber string, activeOnly bool) string {
	return fmt.Sprintf("case:%s:%t", strings.TrimSpace(caseNumber), activeOnly)
}

func SerializeEntry(entry *Entry) ([]byte, error) {
	return json.Marshal(entry)
}

func DeserializeEntry(data []byte) (*Entry, error) {
	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, err
	}
	return &entry, nil
}

func (e *Entry) clone() *Entry {
	out := *e
	if e.Subjects != nil {
		out.Subjects = make([]models.PartySubject, len(e.Subjects))
		copy(out.Subjects, e.Subjects)
	}
	return &out
}
