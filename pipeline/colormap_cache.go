package pipeline

import (
	"fmt"
	"image/color"
	"sync"
)

// Colour table interpolation modes accepted by the cache key.
const (
	TableModeLinear = "linear"
	TableModeLog    = "log"
	TableModeGamma  = "gamma"
)

// TableKey identifies one distinct colour table build: the named ramp (or
// inline stop list rendered to a string), the interpolation mode and its
// numeric parameters, and the table length.
type TableKey struct {
	Ramp  string
	Mode  string
	Min   float64
	Max   float64
	Gamma float64
	Size  int
}

// RampKey renders an inline colour list into a cache key string.
func RampKey(colours []color.RGBA) string {
	key := make([]byte, 0, len(colours)*7)
	for _, c := range colours {
		key = append(key, []byte(fmt.Sprintf("#%02x%02x%02x,", c.R, c.G, c.B))...)
	}
	return string(key)
}

type tableEntry struct {
	ready chan struct{}
	table *ColorTable
	err   error
}

// TableCache memoizes colour tables across requests. A table for a given
// key is built at most once: the first caller builds while later callers
// for the same key block on the entry's ready channel. Tables are
// immutable once published, so readers need no further coordination. The
// key space is small and bounded by the configured ramps, so entries are
// never evicted.
type TableCache struct {
	mu      sync.Mutex
	entries map[TableKey]*tableEntry
}

func NewTableCache() *TableCache {
	return &TableCache{entries: make(map[TableKey]*tableEntry)}
}

// Get returns the table for key, building it with the supplied builder on
// first use. A failed build is not cached so a later request can retry.
func (c *TableCache) Get(key TableKey, build func() (*ColorTable, error)) (*ColorTable, error) {
	c.mu.Lock()
	entry, ok := c.entries[key]
	if ok {
		c.mu.Unlock()
		<-entry.ready
		return entry.table, entry.err
	}

	entry = &tableEntry{ready: make(chan struct{})}
	c.entries[key] = entry
	c.mu.Unlock()

	entry.table, entry.err = build()
	close(entry.ready)

	if entry.err != nil {
		c.mu.Lock()
		delete(c.entries, key)
		c.mu.Unlock()
	}
	return entry.table, entry.err
}

// Len reports the number of cached tables.
func (c *TableCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
