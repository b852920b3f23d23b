// Package pagecache caches rendered public pages in process. The catalog
// service invalidates entries by logical page path after every successful
// write, so public views never serve a stale listing for long and never pay
// a store read on a cache hit.
package pagecache

import (
	"bytes"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

type entry struct {
	body        []byte
	contentType string
	storedAt    time.Time
}

type Cache struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]entry
}

// New creates a cache. Entries older than ttl are ignored; ttl <= 0 means
// entries only leave via Invalidate or Purge.
func New(ttl time.Duration) *Cache {
	return &Cache{
		ttl:     ttl,
		entries: make(map[string]entry),
	}
}

// Get returns the cached body and content type for path, if fresh.
func (c *Cache) Get(path string) ([]byte, string, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	e, ok := c.entries[path]
	if !ok {
		return nil, "", false
	}
	if c.ttl > 0 && time.Since(e.storedAt) > c.ttl {
		return nil, "", false
	}
	return e.body, e.contentType, true
}

// Set stores a rendered page.
func (c *Cache) Set(path, contentType string, body []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[path] = entry{body: body, contentType: contentType, storedAt: time.Now()}
}

// Invalidate drops the entries for the given page paths.
func (c *Cache) Invalidate(paths ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, p := range paths {
		delete(c.entries, p)
	}
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
}

// Len returns the number of cached pages.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// bodyCapture duplicates the response body so it can be cached after the
// handler ran.
type bodyCapture struct {
	gin.ResponseWriter
	buf bytes.Buffer
}

func (w *bodyCapture) Write(b []byte) (int, error) {
	w.buf.Write(b)
	return w.ResponseWriter.Write(b)
}

func (w *bodyCapture) WriteString(s string) (int, error) {
	w.buf.WriteString(s)
	return w.ResponseWriter.WriteString(s)
}

// Middleware serves the listed GET paths from cache and fills the cache on
// miss. Only 200 responses are stored.
func (c *Cache) Middleware(paths ...string) gin.HandlerFunc {
	cacheable := make(map[string]bool, len(paths))
	for _, p := range paths {
		cacheable[p] = true
	}

	return func(g *gin.Context) {
		if g.Request.Method != http.MethodGet || !cacheable[g.Request.URL.Path] {
			g.Next()
			return
		}

		path := g.Request.URL.Path
		if body, contentType, ok := c.Get(path); ok {
			g.Data(http.StatusOK, contentType, body)
			g.Abort()
			return
		}

		capture := &bodyCapture{ResponseWriter: g.Writer}
		g.Writer = capture
		g.Next()

		if capture.Status() == http.StatusOK {
			c.Set(path, capture.Header().Get("Content-Type"), capture.buf.Bytes())
		}
	}
}
