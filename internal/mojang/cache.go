package mojang

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/steviee/mcghosts/internal/state"
)

// Cache maps player ids to resolved profiles. It is loaded in full once at
// the start of a run and written in full once at the end.
type Cache struct {
	mu      sync.RWMutex
	path    string
	entries map[string]CacheEntry
	// corrupt holds the unreadable file content until Save sets it aside.
	corrupt []byte
}

// NewCache creates an empty in-memory cache that is never persisted.
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]CacheEntry),
	}
}

// LoadCache reads the cache file at path.
//
// A missing file yields an empty cache. A file that cannot be decoded
// yields an empty cache as well; the file is left untouched until Save
// copies it to path.corrupted. Entries whose name is empty or equal to
// their own id are dropped so those ids are looked up again.
func LoadCache(path string) (*Cache, error) {
	c := &Cache{
		path:    path,
		entries: make(map[string]CacheEntry),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("profile cache not found, starting empty", "path", path)
			return c, nil
		}
		return nil, fmt.Errorf("failed to read cache file: %w", err)
	}

	var raw map[string]CacheEntry
	if err := json.Unmarshal(data, &raw); err != nil {
		slog.Warn("profile cache is corrupted, starting empty",
			"path", path,
			"error", err)
		c.corrupt = data
		return c, nil
	}

	for id, entry := range raw {
		key := normalizeID(id)
		if entry.Name == "" || strings.EqualFold(entry.Name, id) || strings.EqualFold(entry.Name, key) {
			slog.Debug("dropping unresolved cache entry", "id", id)
			continue
		}
		c.entries[key] = entry
	}

	slog.Debug("loaded profile cache", "path", path, "entries", len(c.entries))
	return c, nil
}

// Get returns the entry for id.
func (c *Cache) Get(id string) (CacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.entries[normalizeID(id)]
	return entry, ok
}

// Set adds or replaces the entry for id.
func (c *Cache) Set(id string, entry CacheEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[normalizeID(id)] = entry
}

// Merge records name for id, keeping textures already known for it.
func (c *Cache) Merge(id, name string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := normalizeID(id)
	entry := c.entries[key]
	entry.Name = name
	c.entries[key] = entry
}

// Len returns the number of entries in the cache.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

// Path returns the backing file, empty for in-memory caches.
func (c *Cache) Path() string {
	return c.path
}

// Save writes the whole cache to its file atomically. In-memory caches are
// not written.
func (c *Cache) Save() error {
	if c.path == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.corrupt != nil {
		backupPath := c.path + ".corrupted"
		if err := state.AtomicWrite(backupPath, c.corrupt, 0644); err != nil {
			return fmt.Errorf("failed to back up corrupted cache: %w", err)
		}
		slog.Warn("corrupted profile cache kept aside", "backup", backupPath)
		c.corrupt = nil
	}

	n := len(c.entries)
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal cache: %w", err)
	}

	if err := state.AtomicWrite(c.path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("failed to write cache: %w", err)
	}

	slog.Debug("saved profile cache", "path", c.path, "entries", n)
	return nil
}

// normalizeID returns the dashed lowercase form of a UUID, or the lowercased
// input when it is not a UUID.
func normalizeID(id string) string {
	if u, err := uuid.Parse(strings.TrimSpace(id)); err == nil {
		return u.String()
	}
	return strings.ToLower(strings.TrimSpace(id))
}
