package draft

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/randalmurphal/ugh/fsutil"
)

// Cache defaults.
const (
	DefaultCacheTTL        = 24 * time.Hour
	DefaultCacheMaxEntries = 32
	CacheFileName          = "draft_cache.json"
)

// CacheEntry is the persisted form of a draft.
type CacheEntry struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        Type      `json:"type"`
	Slug        string    `json:"slug"`
	CreatedAt   time.Time `json:"created_at"`
}

// Draft returns the draft held by the entry.
func (e CacheEntry) Draft() Draft {
	return Draft{Title: e.Title, Description: e.Description, Type: e.Type, Slug: e.Slug}
}

// Cache persists generated drafts in a single JSON file keyed by change
// fingerprint. Every Store rewrites the whole file through a temporary file
// and a rename, so a reader never sees a partial write and concurrent
// processes can at worst lose each other's entries.
type Cache struct {
	path       string
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
	logger     *slog.Logger
}

// CacheOption configures a Cache.
type CacheOption func(*Cache)

// WithTTL sets the staleness window. Zero or negative disables expiry.
func WithTTL(ttl time.Duration) CacheOption {
	return func(c *Cache) {
		c.ttl = ttl
	}
}

// WithMaxEntries bounds the number of stored entries; the oldest are
// evicted first.
func WithMaxEntries(n int) CacheOption {
	return func(c *Cache) {
		if n > 0 {
			c.maxEntries = n
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		c.now = now
	}
}

// WithCacheLogger sets the logger used for load and save warnings.
func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *Cache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewCache returns a cache stored at path. The file is created on first Store.
func NewCache(path string, opts ...CacheOption) *Cache {
	c := &Cache{
		path:       path,
		ttl:        DefaultCacheTTL,
		maxEntries: DefaultCacheMaxEntries,
		now:        time.Now,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Path returns the cache file location.
func (c *Cache) Path() string {
	return c.path
}

// Lookup returns the draft stored for fingerprint if it exists, is within
// the staleness window and is still valid. Age is measured from the stored
// created_at field.
func (c *Cache) Lookup(fingerprint string) (Draft, bool) {
	entries, err := c.load()
	if err != nil {
		c.logger.Warn("ignoring unreadable draft cache", "path", c.path, "error", err)
		return Draft{}, false
	}

	e, ok := entries[fingerprint]
	if !ok {
		return Draft{}, false
	}
	if c.expired(e) {
		c.logger.Debug("cached draft expired", "fingerprint", fingerprint, "created_at", e.CreatedAt)
		return Draft{}, false
	}

	d := e.Draft()
	if err := d.Validate(); err != nil {
		c.logger.Warn("ignoring invalid cached draft", "fingerprint", fingerprint, "error", err)
		return Draft{}, false
	}
	return d, true
}

// Store saves d under fingerprint, replacing any previous entry, dropping
// expired entries and evicting the oldest beyond the size bound.
func (c *Cache) Store(fingerprint string, d Draft) error {
	entries, err := c.load()
	if err != nil {
		c.logger.Warn("replacing unreadable draft cache", "path", c.path, "error", err)
		entries = make(map[string]CacheEntry)
	}

	entries[fingerprint] = CacheEntry{
		Title:       d.Title,
		Description: d.Description,
		Type:        d.Type,
		Slug:        d.Slug,
		CreatedAt:   c.now().UTC(),
	}

	for fp, e := range entries {
		if fp != fingerprint && c.expired(e) {
			delete(entries, fp)
		}
	}
	for len(entries) > c.maxEntries {
		delete(entries, oldest(entries, fingerprint))
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode draft cache: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	if err := fsutil.WriteFileAtomic(c.path, data, 0o600); err != nil {
		return fmt.Errorf("write draft cache: %w", err)
	}
	return nil
}

// Clear removes the cache file. A missing file is not an error.
func (c *Cache) Clear() error {
	if err := os.Remove(c.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove draft cache: %w", err)
	}
	return nil
}

// load reads all entries. A missing file is an empty cache.
func (c *Cache) load() (map[string]CacheEntry, error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return make(map[string]CacheEntry), nil
	}
	if err != nil {
		return nil, err
	}

	entries := make(map[string]CacheEntry)
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(c.path), err)
	}
	return entries, nil
}

func (c *Cache) expired(e CacheEntry) bool {
	return c.ttl > 0 && c.now().Sub(e.CreatedAt) > c.ttl
}

// oldest returns the least recently created fingerprint other than keep.
func oldest(entries map[string]CacheEntry, keep string) string {
	var (
		key   string
		at    time.Time
		found bool
	)
	for fp, e := range entries {
		if fp == keep {
			continue
		}
		if !found || e.CreatedAt.Before(at) || (e.CreatedAt.Equal(at) && fp < key) {
			key, at, found = fp, e.CreatedAt, true
		}
	}
	return key
}
