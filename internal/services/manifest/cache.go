package manifest

import (
	"os"
	"sync"
	"time"

	"github.com/korunadevi/comfyui-nunchaku-sage-v1/internal/domain"
)

// Cache hands out manifest items, re-reading the file only when its
// modification time changes. The HTTP server polls this on every request
// from concurrent handlers, hence the lock.
type Cache struct {
	path string

	mu     sync.Mutex
	loaded bool
	mtime  time.Time
	items  []domain.Item
}

func NewCache(path string) *Cache {
	return &Cache{path: path}
}

// Items returns a copy of the manifest items so callers can mutate statuses
// freely. The manifest not existing (yet) is normal during early boot.
func (c *Cache) Items() []domain.Item {
	c.mu.Lock()
	defer c.mu.Unlock()

	info, err := os.Stat(c.path)
	if err != nil {
		c.loaded = false
		c.mtime = time.Time{}
		c.items = nil
		return nil
	}
	if !c.loaded || !info.ModTime().Equal(c.mtime) {
		c.items = Load(c.path)
		c.mtime = info.ModTime()
		c.loaded = true
	}

	out := make([]domain.Item, len(c.items))
	copy(out, c.items)
	return out
}
