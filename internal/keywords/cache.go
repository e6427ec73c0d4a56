
package keywords

import (
	"container/list"
	"crypto/sha256"
	"encoding/hex"
	"sync"

	"seolens-go-analyzer/internal/models"
)

// resultCache is a bounded LRU keyed by content hash, so re-analyzing
// an unchanged page skips both extractors.
type resultCache struct {
	mu      sync.Mutex
	cap     int
	entries map[string]*list.Element
	order   *list.List
}

type cacheEntry struct {
	key     string
	cands   []models.CandidateKeyword
	partial bool
}

func newResultCache(capacity int) *resultCache {
	if capacity < 1 {
		capacity = 1
	}
	return &resultCache{
		cap:     capacity,
		entries: make(map[string]*list.Element, capacity),
		order:   list.New(),
	}
}

// contentKey hashes the inputs that influence extraction.
func contentKey(doc models.PageDocument) string {
	h := sha256.New()
	h.Write([]byte(doc.Title))
	h.Write([]byte{0})
	h.Write([]byte(doc.MainText))
	return hex.EncodeToString(h.Sum(nil))
}

func (c *resultCache) get(key string) ([]models.CandidateKeyword, bool, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[key]
	if !ok {
		return nil, false, false
	}
	c.order.MoveToFront(el)
	entry := el.Value.(*cacheEntry)
	return entry.cands, entry.partial, true
}

func (c *resultCache) put(key string, cands []models.CandidateKeyword, partial bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[key]; ok {
		c.order.MoveToFront(el)
		el.Value = &cacheEntry{key: key, cands: cands, partial: partial}
		return
	}
	c.entries[key] = c.order.PushFront(&cacheEntry{key: key, cands: cands, partial: partial})
	for c.order.Len() > c.cap {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*cacheEntry).key)
	}
}
