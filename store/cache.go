package store

import (
	"log"
	"strings"
	"sync"
	"time"

	"inventario/models"
)

// CachedCatalog wraps a raw product fetch with normalization and caching.
// Codes and descriptions are trimmed, rows with an empty code are dropped and
// duplicate codes collapse to the first occurrence.
//
// With ttl <= 0 the fetch runs once, at construction time (file-backed
// catalog). With a positive ttl the cache refreshes lazily once the window
// expires (remote catalog).
type CachedCatalog struct {
	fetch func() ([]models.Product, error)
	ttl   time.Duration

	mu       sync.Mutex
	products []models.Product
	byCode   map[string]string
	loaded   time.Time
}

func NewCachedCatalog(fetch func() ([]models.Product, error), ttl time.Duration) *CachedCatalog {
	c := &CachedCatalog{fetch: fetch, ttl: ttl}
	if ttl <= 0 {
		c.mu.Lock()
		c.refresh()
		c.mu.Unlock()
	}
	return c
}

func (c *CachedCatalog) Lookup(code string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshIfStale()
	desc, ok := c.byCode[strings.TrimSpace(code)]
	return desc, ok
}

func (c *CachedCatalog) ListAll() []models.Product {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshIfStale()
	out := make([]models.Product, len(c.products))
	copy(out, c.products)
	return out
}

// caller must hold c.mu
func (c *CachedCatalog) refreshIfStale() {
	if c.byCode != nil && (c.ttl <= 0 || time.Since(c.loaded) < c.ttl) {
		return
	}
	c.refresh()
}

// caller must hold c.mu
func (c *CachedCatalog) refresh() {
	raw, err := c.fetch()
	if err != nil {
		log.Printf("Error loading product catalog: %v", err)
		// Keep serving whatever we have; retry after the next window.
		if c.byCode == nil {
			c.byCode = map[string]string{}
		}
		c.loaded = time.Now()
		return
	}

	byCode := make(map[string]string, len(raw))
	products := make([]models.Product, 0, len(raw))
	for _, p := range raw {
		code := strings.TrimSpace(p.Code)
		if code == "" {
			continue
		}
		if _, dup := byCode[code]; dup {
			continue // first occurrence wins
		}
		byCode[code] = strings.TrimSpace(p.Description)
		products = append(products, models.Product{Code: code, Description: byCode[code]})
	}

	c.byCode = byCode
	c.products = products
	c.loaded = time.Now()
}
