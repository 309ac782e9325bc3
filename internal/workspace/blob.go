package workspace

import (
	"fmt"
	"sync"
)

// BlobCache holds fetched or staged bytes under revocable handles. It is the
// engine's analog of browser object URLs: anything that creates a handle is
// responsible for revoking it, and revoking an unknown handle is harmless.
type BlobCache struct {
	mu    sync.Mutex
	next  int
	blobs map[string]blob
}

type blob struct {
	data        []byte
	contentType string
}

// NewBlobCache creates an empty cache.
func NewBlobCache() *BlobCache {
	return &BlobCache{blobs: map[string]blob{}}
}

// Create stores typed data and returns its handle.
func (c *BlobCache) Create(data []byte, contentType string) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.next++
	url := fmt.Sprintf("blob:claimdocs/%d", c.next)
	c.blobs[url] = blob{data: data, contentType: contentType}
	return url
}

// Get returns the bytes and content type behind a handle.
func (c *BlobCache) Get(url string) ([]byte, string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.blobs[url]
	return b.data, b.contentType, ok
}

// Revoke releases a handle. Revoking "" or an already revoked handle is a
// no-op.
func (c *BlobCache) Revoke(url string) {
	if url == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.blobs, url)
}

// Len reports how many handles are live. Tests use it to police leaks.
func (c *BlobCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.blobs)
}
