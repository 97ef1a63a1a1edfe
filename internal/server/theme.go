package server

import (
	"log"
	"sync"

	"github.com/jonathan/devfolio/internal/types"
	"github.com/jonathan/devfolio/internal/viewer"
)

// themeCache remembers the sampled theme of each image path.
// Images are immutable for the lifetime of the process so entries never expire.
type themeCache struct {
	mu      sync.RWMutex
	entries map[string]viewer.Theme
}

func newThemeCache() *themeCache {
	return &themeCache{entries: make(map[string]viewer.Theme)}
}

func (c *themeCache) get(key string) (viewer.Theme, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.entries[key]
	return t, ok
}

func (c *themeCache) put(key string, t viewer.Theme) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = t
}

func (c *themeCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// themeFor samples the image behind a project image record. Remote or
// missing images fall back without being cached so a later deploy of the
// file is picked up.
func (s *Server) themeFor(img types.ProjectImage) viewer.Theme {
	if img.Image == "" || isRemote(img.Image) {
		return viewer.ThemeFallback
	}

	key := assetPath(img.Image)
	if t, ok := s.themes.get(key); ok {
		return t
	}

	f, err := s.assets.Open(key)
	if err != nil {
		log.Printf("[viewer] cannot open %s for sampling: %v", key, err)
		return viewer.ThemeFallback
	}
	defer f.Close()

	t := viewer.ThemeFor(f)
	s.themes.put(key, t)
	return t
}
