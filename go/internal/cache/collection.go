// Package cache wraps the remote catalog client with a time-to-live gate
// and exposes the pagination window over deduplicated collections.
package cache

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

// ErrSuperseded is returned when a fetch completes after the collection was
// cleared; its result is discarded instead of resurrecting stale data.
var ErrSuperseded = errors.New("cache: fetch superseded by clear")

// FetchFunc retrieves the full remote collection.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

type flight struct {
	done chan struct{}
	err  error
}

// Collection caches one named remote collection with TTL-gated refresh.
// Refreshes are all-or-nothing: on any fetch error the prior items are left
// untouched. Ingest deduplicates by identity, first occurrence wins.
type Collection[T any] struct {
	name  string
	ttl   time.Duration
	clock clockwork.Clock
	keyOf func(T) string

	mu         sync.Mutex
	items      []T
	lastFetch  time.Time
	generation uint64
	inflight   *flight
}

// New creates an empty collection. keyOf yields the identity used for
// deduplication.
func New[T any](name string, ttl time.Duration, clock clockwork.Clock, keyOf func(T) string) *Collection[T] {
	return &Collection[T]{
		name:  name,
		ttl:   ttl,
		clock: clock,
		keyOf: keyOf,
	}
}

// EnsureFresh returns fresh=true without any network call when the last
// successful fetch is within the TTL and the collection is non-empty.
// Otherwise it fetches, atomically replaces the items, and returns
// fresh=false. A call issued while a fetch is already in flight waits for
// that fetch's outcome rather than starting a second request.
func (c *Collection[T]) EnsureFresh(ctx context.Context, fetch FetchFunc[T]) (bool, error) {
	c.mu.Lock()
	if f := c.inflight; f != nil {
		c.mu.Unlock()
		select {
		case <-f.done:
			return false, f.err
		case <-ctx.Done():
			return false, ctx.Err()
		}
	}
	if !c.lastFetch.IsZero() && c.clock.Since(c.lastFetch) < c.ttl && len(c.items) > 0 {
		c.mu.Unlock()
		return true, nil
	}
	f := &flight{done: make(chan struct{})}
	c.inflight = f
	gen := c.generation
	c.mu.Unlock()

	items, err := fetch(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.inflight = nil
	defer close(f.done)

	if err != nil {
		f.err = err
		return false, err
	}
	if c.generation != gen {
		log.Warn().Str("collection", c.name).Msg("discarding superseded fetch result")
		f.err = ErrSuperseded
		return false, ErrSuperseded
	}

	c.items = dedupeByKey(items, c.keyOf)
	c.lastFetch = c.clock.Now()
	log.Debug().Str("collection", c.name).Int("count", len(c.items)).Msg("collection refreshed")
	return false, nil
}

// Items returns a copy of the cached collection.
func (c *Collection[T]) Items() []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Len reports the cached collection size.
func (c *Collection[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Loading reports whether a fetch is in flight.
func (c *Collection[T]) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.inflight != nil
}

// LastFetch returns the timestamp of the last successful fetch, zero if none.
func (c *Collection[T]) LastFetch() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastFetch
}

// Clear empties the collection and resets the fetch timestamp, guaranteeing
// the next EnsureFresh is a hard miss. A fetch in flight at the time of the
// clear will have its result discarded.
func (c *Collection[T]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.generation++
	c.items = nil
	c.lastFetch = time.Time{}
}

// Replace installs a collection snapshot, deduplicated, with an explicit
// fetch timestamp. Used when hydrating from the durable store.
func (c *Collection[T]) Replace(items []T, fetchedAt time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = dedupeByKey(items, c.keyOf)
	c.lastFetch = fetchedAt
}

// Mutate adjusts the cached items in place under the collection lock.
func (c *Collection[T]) Mutate(fn func(items []T) []T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = fn(c.items)
}

// dedupeByKey keeps the first element with each identity, in fetch order.
// Re-ingesting the same input yields the same output.
func dedupeByKey[T any](in []T, keyOf func(T) string) []T {
	seen := make(map[string]struct{}, len(in))
	out := make([]T, 0, len(in))
	for _, item := range in {
		key := keyOf(item)
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, item)
	}
	return out
}
