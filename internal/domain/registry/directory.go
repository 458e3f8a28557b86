/*
Package registry keeps the client-side view of which rooms exist on the server.

The view is seeded by the room directory (the first server message of a session) and
extended by the rooms this client creates. It is bounded by an LRU so a chatty server
cannot grow it without limit; evicted names are simply forgotten.
*/
package registry

import (
	"strings"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Directorier defines the read/write contract used by the dispatcher and front-ends.
type Directorier interface {
	Replace(names []string)
	Add(name string)
	Contains(name string) bool
	Names() []string
	Len() int
}

// Directory is a bounded, concurrency-safe set of room names.
type Directory struct {
	// [ORDERED_SET] LRU keys double as insertion order for listing.
	// mu guards the pointer only; the cache locks itself.
	mu    sync.RWMutex
	rooms *lru.Cache[string, struct{}]

	settings settings
}

type settings struct {
	capacity int
}

const defaultCapacity = 1024

func NewDirectory(opts ...Option) *Directory {
	d := &Directory{settings: settings{capacity: defaultCapacity}}
	for _, opt := range opts {
		opt(d)
	}
	if d.settings.capacity <= 0 {
		d.settings.capacity = defaultCapacity
	}

	d.rooms = d.newCache()
	return d
}

func (d *Directory) newCache() *lru.Cache[string, struct{}] {
	// lru.New only fails on a non-positive size, which NewDirectory rules out.
	c, _ := lru.New[string, struct{}](d.settings.capacity)
	return c
}

func (d *Directory) cache() *lru.Cache[string, struct{}] {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.rooms
}

// Replace drops everything known and records the given names.
// Blank entries (a trailing newline in the directory) are skipped.
// [ATOMIC_SWAP] Readers see either the old set or the complete new one.
func (d *Directory) Replace(names []string) {
	next := d.newCache()
	for _, name := range names {
		add(next, name)
	}

	d.mu.Lock()
	d.rooms = next
	d.mu.Unlock()
}

func (d *Directory) Add(name string) {
	add(d.cache(), name)
}

func add(c *lru.Cache[string, struct{}], name string) {
	if strings.TrimSpace(name) == "" {
		return
	}
	c.Add(name, struct{}{})
}

// Contains does not refresh recency.
func (d *Directory) Contains(name string) bool {
	return d.cache().Contains(name)
}

// Names lists rooms from oldest to most recently recorded.
func (d *Directory) Names() []string {
	return d.cache().Keys()
}

func (d *Directory) Len() int {
	return d.cache().Len()
}
