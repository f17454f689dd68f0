package pkgcache

import (
	"fmt"
	"os"
	"sync"

	"github.com/kailas-cloud/appdex/internal/domain/document"
	"github.com/kailas-cloud/appdex/internal/domain/pkginfo"
)

// Cache is the live package-metadata cache. Per-document facts are resolved
// once and memoized by document id until the next Replace or Reset.
// Safe for concurrent use.
type Cache struct {
	mu       sync.RWMutex
	packages map[string]pkginfo.Package
	states   map[string]pkginfo.State
}

// New creates a cache holding pkgs.
func New(pkgs []pkginfo.Package) *Cache {
	c := &Cache{}
	c.Replace(pkgs)
	return c
}

// Load reads a YAML snapshot from path.
func Load(path string) (*Cache, error) {
	pkgs, err := readSnapshot(path)
	if err != nil {
		return nil, err
	}
	return New(pkgs), nil
}

// Reload replaces the cache content with the snapshot at path.
// On error the current content is kept.
func (c *Cache) Reload(path string) error {
	pkgs, err := readSnapshot(path)
	if err != nil {
		return err
	}
	c.Replace(pkgs)
	return nil
}

// Replace swaps the cache content and drops memoized states.
func (c *Cache) Replace(pkgs []pkginfo.Package) {
	m := make(map[string]pkginfo.Package, len(pkgs))
	for _, p := range pkgs {
		m[p.Name] = p
	}
	c.mu.Lock()
	c.packages = m
	c.states = make(map[string]pkginfo.State)
	c.mu.Unlock()
}

// Reset drops memoized states, keeping the package data.
func (c *Cache) Reset() {
	c.mu.Lock()
	c.states = make(map[string]pkginfo.State)
	c.mu.Unlock()
}

// Lookup returns the cache entry of a package.
func (c *Cache) Lookup(name string) (pkginfo.Package, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p, ok := c.packages[name]
	return p, ok
}

// State returns the cache view of doc, memoized by document id.
func (c *Cache) State(doc document.Document) pkginfo.State {
	id := doc.ID()

	c.mu.RLock()
	st, ok := c.states[id]
	c.mu.RUnlock()
	if ok {
		return st
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if st, ok := c.states[id]; ok {
		return st
	}
	p, found := c.packages[doc.PkgName()]
	st = pkginfo.StateOf(p, found)
	c.states[id] = st
	return st
}

// Len returns the number of packages.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.packages)
}

// Memoized returns the number of memoized document states.
func (c *Cache) Memoized() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.states)
}

func readSnapshot(path string) ([]pkginfo.Package, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read package snapshot %s: %w", path, err)
	}
	return parseSnapshot(data)
}
