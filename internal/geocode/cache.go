package geocode

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/skarki/go-nepal-alerts/internal/models"
	"github.com/skarki/go-nepal-alerts/internal/store"
)

// CacheKey is the fixed KV key the serialized cache lives under.
const CacheKey = "geocode_cache"

// Cache maps raw location strings to resolved coordinates. Keys are exactly
// the strings extracted from alert titles, case and whitespace included.
// Entries never expire: once a location resolves, it resolves to the same
// coordinates for the life of the cache.
//
// The cache is loaded once and persisted as a full snapshot after every new
// resolution. Persistence is best-effort: losing a write costs a future
// re-lookup, not correctness.
type Cache struct {
	kv store.KV

	mu      sync.RWMutex
	entries map[string]models.Coordinates
}

func NewCache(kv store.KV) *Cache {
	return &Cache{
		kv:      kv,
		entries: make(map[string]models.Coordinates),
	}
}

// Load reads the persisted cache. Missing or corrupt data leaves the cache
// empty; Load never fails.
func (c *Cache) Load(ctx context.Context) {
	raw, ok, err := c.kv.GetItem(ctx, CacheKey)
	if err != nil {
		slog.Warn("geocode cache read failed, starting empty", "error", err)
		return
	}
	if !ok {
		return
	}

	entries := make(map[string]models.Coordinates)
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		slog.Warn("geocode cache corrupt, starting empty", "error", err)
		return
	}

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()

	slog.Info("geocode cache loaded", "entries", len(entries))
}

func (c *Cache) Get(location string) (models.Coordinates, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	coords, ok := c.entries[location]
	return coords, ok
}

func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Put stores a resolution in memory and persists the full snapshot.
// Persist failures are logged and swallowed.
func (c *Cache) Put(ctx context.Context, location string, coords models.Coordinates) {
	c.mu.Lock()
	c.entries[location] = coords
	raw, err := json.Marshal(c.entries)
	c.mu.Unlock()

	if err != nil {
		slog.Warn("geocode cache marshal failed", "error", err)
		return
	}
	if err := c.kv.SetItem(ctx, CacheKey, string(raw)); err != nil {
		slog.Warn("geocode cache persist failed", "location", location, "error", err)
	}
}
