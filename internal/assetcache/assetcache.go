// Package assetcache serves the booth frontend's static files through an
// in-memory cache: a fixed manifest is precached on startup, style
// thumbnails and the catalog JSON are cached opportunistically on first
// read, and everything else reads through to disk.
package assetcache

import (
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"looks/internal/infra"
)

// PrecacheManifest lists the core shell assets loaded at startup.
var PrecacheManifest = []string{
	"/",
	"/index.html",
	"/styles-data.json",
	"/manifest.json",
}

const offlineBody = `{"error":"You appear to be offline. Please check your connection."}`

type entry struct {
	data        []byte
	contentType string
}

// Cache is a cache-first static file handler rooted at a directory.
type Cache struct {
	root   string
	logger infra.Logger

	mu      sync.RWMutex
	entries map[string]entry
}

// New constructs a cache over dir. Call Precache before serving.
func New(dir string, logger infra.Logger) *Cache {
	return &Cache{
		root:    dir,
		logger:  logger,
		entries: make(map[string]entry),
	}
}

// Precache loads every manifest entry into memory. A missing core asset
// fails the install, matching cache.addAll semantics.
func (c *Cache) Precache(manifest []string) error {
	for _, p := range manifest {
		if _, err := c.load(p); err != nil {
			return fmt.Errorf("assetcache: precache %s: %w", p, err)
		}
	}
	c.logger.Info().Int("assets", len(manifest)).Msg("assetcache: precache complete")
	return nil
}

// ServeHTTP answers cache hits from memory and reads misses from disk,
// caching style thumbnails and the catalog JSON as they are fetched.
// When the disk read fails the response is the JSON offline body.
func (c *Cache) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	p := path.Clean(r.URL.Path)

	c.mu.RLock()
	cached, ok := c.entries[p]
	c.mu.RUnlock()
	if ok {
		w.Header().Set("Content-Type", cached.contentType)
		w.Write(cached.data)
		return
	}

	e, err := c.read(p)
	if err != nil {
		c.logger.Warn().Err(err).Str("path", p).Msg("assetcache: read failed")
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(offlineBody))
		return
	}
	if cacheable(p) {
		c.store(p, e)
	}
	w.Header().Set("Content-Type", e.contentType)
	w.Write(e.data)
}

// Invalidate drops a cached entry, for callers that rewrite assets.
func (c *Cache) Invalidate(p string) {
	c.mu.Lock()
	delete(c.entries, path.Clean(p))
	c.mu.Unlock()
}

func (c *Cache) load(p string) (entry, error) {
	e, err := c.read(p)
	if err != nil {
		return entry{}, err
	}
	c.store(p, e)
	return e, nil
}

func (c *Cache) store(p string, e entry) {
	c.mu.Lock()
	c.entries[path.Clean(p)] = e
	c.mu.Unlock()
}

func (c *Cache) read(p string) (entry, error) {
	rel := strings.TrimPrefix(path.Clean("/"+p), "/")
	if rel == "" {
		rel = "index.html"
	}
	full := filepath.Join(c.root, filepath.FromSlash(rel))
	data, err := os.ReadFile(full)
	if err != nil {
		return entry{}, err
	}
	return entry{data: data, contentType: contentTypeFor(rel)}, nil
}

func cacheable(p string) bool {
	return strings.Contains(p, "/styles/") || strings.HasSuffix(p, "styles-data.json")
}

func contentTypeFor(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// OfflineError decodes the offline fallback body, for clients that need
// to distinguish it from real payloads.
func OfflineError(body []byte) (string, bool) {
	var decoded struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &decoded); err != nil || decoded.Error == "" {
		return "", false
	}
	return decoded.Error, true
}
