// Package cache provides the computation cache that memoizes data derived from the model.
package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.trai.ch/kern/internal/core/domain"
	"go.trai.ch/kern/internal/core/ports"
)

// DefaultDelimiter separates sub-identities in CacheOwner.SubIdentities.
const DefaultDelimiter = domain.SubIdentityDelimiter

type entry struct {
	payload  any
	created  time.Time
	version  uint64
	complete map[string]bool
}

// Cache memoizes payloads per owner. An entry is served only while it is younger than the
// freshness window, carries the owner's current version and has every expected
// sub-identity marked complete. A periodic sweep drops entries past the freshness window
// whether or not they are read again.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry

	clock         clockwork.Clock
	freshness     time.Duration
	sweepInterval time.Duration
	delimiter     string
	guard         sync.Locker
}

var _ ports.ComputationCache = (*Cache)(nil)

// Option configures a Cache.
type Option func(*Cache)

// WithFreshness sets the maximum age at which an entry is served.
func WithFreshness(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.freshness = d
		}
	}
}

// WithSweepInterval sets the period of the background sweep.
func WithSweepInterval(d time.Duration) Option {
	return func(c *Cache) {
		if d > 0 {
			c.sweepInterval = d
		}
	}
}

// WithClock replaces the real clock, typically with a fake one in tests.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Cache) {
		c.clock = clock
	}
}

// WithDelimiter sets the separator used to split an owner's sub-identity list.
func WithDelimiter(delim string) Option {
	return func(c *Cache) {
		if delim != "" {
			c.delimiter = delim
		}
	}
}

// WithSweepGuard makes every sweep hold lock, so that a sweep never overlaps work that
// holds the same lock.
func WithSweepGuard(lock sync.Locker) Option {
	return func(c *Cache) {
		c.guard = lock
	}
}

// New creates an empty Cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries:       make(map[string]*entry),
		clock:         clockwork.NewRealClock(),
		freshness:     domain.DefaultCacheFreshness,
		sweepInterval: domain.DefaultSweepInterval,
		delimiter:     DefaultDelimiter,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the payload stored for owner if it is fresh, current and complete.
func (c *Cache) Get(owner ports.CacheOwner, subKey string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[owner.OwnerKey()]
	if !ok || c.clock.Since(e.created) >= c.freshness || e.version != owner.Version() {
		recordMiss()
		return nil, false
	}
	for _, id := range c.expected(owner, subKey) {
		if !e.complete[id] {
			recordMiss()
			return nil, false
		}
	}
	recordHit()
	return e.payload, true
}

// Set stores payload for owner and marks subKey complete. A version change starts a new
// completion map.
func (c *Cache) Set(owner ports.CacheOwner, payload any, subKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	key := owner.OwnerKey()
	version := owner.Version()
	e, ok := c.entries[key]
	if !ok || e.version != version {
		e = &entry{complete: make(map[string]bool)}
		c.entries[key] = e
	}
	e.payload = payload
	e.created = c.clock.Now()
	e.version = version
	e.complete[subKey] = true
}

// Remove drops the entry of the owner with the given key.
func (c *Cache) Remove(ownerKey string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, ownerKey)
}

// Len returns the number of entries, fresh or not.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.entries)
}

// Sweep evicts every entry older than the freshness window and returns how many it dropped.
func (c *Cache) Sweep() int {
	if c.guard != nil {
		c.guard.Lock()
		defer c.guard.Unlock()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	evicted := 0
	for key, e := range c.entries {
		if c.clock.Since(e.created) >= c.freshness {
			delete(c.entries, key)
			evicted++
		}
	}
	recordEvictions(evicted)
	return evicted
}

// Run sweeps on every tick of the sweep interval until ctx is done.
func (c *Cache) Run(ctx context.Context) error {
	ticker := c.clock.NewTicker(c.sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.Chan():
			c.Sweep()
		}
	}
}

func (c *Cache) expected(owner ports.CacheOwner, subKey string) []string {
	var ids []string
	for id := range strings.SplitSeq(owner.SubIdentities(), c.delimiter) {
		if id != "" {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return []string{subKey}
	}
	return ids
}
