// Package assets keeps imported scenes and standalone textures by path so
// each file is imported once per library.
package assets

import (
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/scenegraph/pkg/importer"
	"github.com/Faultbox/scenegraph/pkg/scene"
)

// Library imports assets on first request and serves them from its caches
// afterwards. Each scene import still gets fresh per-import resource caches;
// the library only remembers finished results.
type Library struct {
	opts     importer.Options
	log      *zap.Logger
	scenes   *Cache[*scene.Scene]
	textures *Cache[*scene.Texture]

	// Imports run one at a time.
	importMu sync.Mutex
}

// Stats reports cache hits and misses per asset kind.
type Stats struct {
	SceneHits, SceneMisses     int
	TextureHits, TextureMisses int
}

// NewLibrary creates a library that imports scenes with opts.
func NewLibrary(opts importer.Options) *Library {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Library{
		opts:     opts,
		log:      log.Named("assets"),
		scenes:   NewCache[*scene.Scene](),
		textures: NewCache[*scene.Texture](),
	}
}

// Scene returns the scene imported from path, importing it on first use.
// Failed imports are not cached.
func (l *Library) Scene(path string) (*scene.Scene, error) {
	key := cacheKey(path)
	if s, ok := l.scenes.Get(key); ok {
		return s, nil
	}

	l.importMu.Lock()
	defer l.importMu.Unlock()

	// Another caller may have finished the same import while we waited.
	if s, ok := l.scenes.Peek(key); ok {
		return s, nil
	}

	s, err := importer.Import(path, l.opts)
	if err != nil {
		return nil, err
	}
	l.scenes.Set(key, s)
	l.log.Info("scene imported", zap.String("path", path), zap.Int("nodes", len(s.Nodes)))
	return s, nil
}

// Texture returns the standalone texture loaded from path.
func (l *Library) Texture(path string) (*scene.Texture, error) {
	key := cacheKey(path)
	if tex, ok := l.textures.Get(key); ok {
		return tex, nil
	}

	l.importMu.Lock()
	defer l.importMu.Unlock()

	if tex, ok := l.textures.Peek(key); ok {
		return tex, nil
	}

	tex, err := importer.LoadTexture(path)
	if err != nil {
		return nil, err
	}
	l.textures.Set(key, tex)
	l.log.Debug("texture loaded", zap.String("path", path), zap.Int("width", tex.Width), zap.Int("height", tex.Height))
	return tex, nil
}

// Forget drops any scene or texture cached for path.
func (l *Library) Forget(path string) {
	key := cacheKey(path)
	l.scenes.Delete(key)
	l.textures.Delete(key)
}

// Clear drops every cached asset and resets the statistics.
func (l *Library) Clear() {
	l.scenes.Clear()
	l.textures.Clear()
}

// Stats returns cache statistics.
func (l *Library) Stats() Stats {
	var s Stats
	s.SceneHits, s.SceneMisses = l.scenes.Stats()
	s.TextureHits, s.TextureMisses = l.textures.Stats()
	return s
}

func cacheKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return filepath.Clean(path)
}

// Cache is a simple in-memory cache keyed by asset path.
type Cache[T any] struct {
	data map[string]T
	mu   sync.Mutex

	// Stats
	hits   int
	misses int
}

// NewCache creates a new cache.
func NewCache[T any]() *Cache[T] {
	return &Cache[T]{
		data: make(map[string]T),
	}
}

// Get retrieves an item from cache and counts the lookup.
func (c *Cache[T]) Get(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.data[key]
	if ok {
		c.hits++
	} else {
		c.misses++
	}
	return v, ok
}

// Peek retrieves an item without touching the statistics.
func (c *Cache[T]) Peek(key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.data[key]
	return v, ok
}

// Set stores an item in cache.
func (c *Cache[T]) Set(key string, v T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = v
}

// Delete removes an item from cache.
func (c *Cache[T]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
}

// Len returns the number of cached items.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// Clear clears the cache.
func (c *Cache[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = make(map[string]T)
	c.hits = 0
	c.misses = 0
}

// Stats returns cache statistics.
func (c *Cache[T]) Stats() (hits, misses int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}
