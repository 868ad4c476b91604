// Package dedupe provides bounded suppression of repeated alert keys.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen alert keys so the same alert is not raised twice.
type Deduper interface {
	// SeenAndRecord atomically checks if key was seen and records it if not.
	// Returns true if key was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord removes a key, allowing the alert to fire again (e.g. after
	// the underlying certificate was renewed).
	Unrecord(ctx context.Context, key string)

	// Size returns the number of keys currently tracked.
	Size() int64
}

// inMemoryDeduper implements Deduper with a map plus a FIFO eviction queue.
// With maxSize <= 0 the cache is unbounded.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	queue   []string
	maxSize int
}

const defaultMaxSize = 50_000

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		maxSize: defaultMaxSize,
		seen:    make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// SeenAndRecord atomically checks if key was seen and records it if not.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; ok {
		return true
	}
	if d.maxSize > 0 {
		// Evict oldest keys until there is room. An evicted key may be
		// alerted again on a later scan; acceptable for notification
		// traffic.
		for len(d.seen) >= d.maxSize && len(d.queue) > 0 {
			oldest := d.queue[0]
			d.queue = d.queue[1:]
			delete(d.seen, oldest)
		}
		d.queue = append(d.queue, key)
	}
	d.seen[key] = struct{}{}
	return false
}

// Unrecord removes a key from the seen set.
func (d *inMemoryDeduper) Unrecord(_ context.Context, key string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[key]; !ok {
		return
	}
	delete(d.seen, key)
	for i, k := range d.queue {
		if k == key {
			d.queue = append(d.queue[:i], d.queue[i+1:]...)
			break
		}
	}
}

// Size returns the number of keys currently tracked.
func (d *inMemoryDeduper) Size() int64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return int64(len(d.seen))
}
