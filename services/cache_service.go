package services

import (
	"sync"
	"time"
)

// Snapshot cache keys, one per dataset.
const (
	SnapshotKeyIPO        = "ipo_calendar"
	SnapshotKeyRealEstate = "real_estate"
	SnapshotKeyCommodity  = "commodities"
)

// Clock abstracts time so cache expiry and window filtering are testable.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

type snapshotEntry struct {
	data      interface{}
	storedAt  time.Time
	expiresAt time.Time
}

// SnapshotCache stores whole result arrays per dataset key with a TTL. It is
// an explicit, injected object rather than module-level state: the clock is
// a dependency and expiry is observable, so TTL policy is testable without
// process-lifetime assumptions. All state is transient.
type SnapshotCache struct {
	mutex      sync.RWMutex
	clock      Clock
	defaultTTL time.Duration
	entries    map[string]*snapshotEntry
}

// NewSnapshotCache creates a cache with the given clock and default TTL.
func NewSnapshotCache(clock Clock, defaultTTL time.Duration) *SnapshotCache {
	if clock == nil {
		clock = SystemClock()
	}
	return &SnapshotCache{
		clock:      clock,
		defaultTTL: defaultTTL,
		entries:    make(map[string]*snapshotEntry),
	}
}

// Get returns the cached snapshot and its storage time. Expired entries are
// misses.
func (c *SnapshotCache) Get(key string) (interface{}, time.Time, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.entries[key]
	if !exists || c.clock.Now().After(entry.expiresAt) {
		return nil, time.Time{}, false
	}
	return entry.data, entry.storedAt, true
}

// Set stores a snapshot with the default TTL.
func (c *SnapshotCache) Set(key string, data interface{}) {
	c.SetWithTTL(key, data, c.defaultTTL)
}

// SetWithTTL stores a snapshot with a custom TTL.
func (c *SnapshotCache) SetWithTTL(key string, data interface{}, ttl time.Duration) {
	now := c.clock.Now()

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[key] = &snapshotEntry{
		data:      data,
		storedAt:  now,
		expiresAt: now.Add(ttl),
	}
}

// ExpiresAt reports when a snapshot expires, if one is stored.
func (c *SnapshotCache) ExpiresAt(key string) (time.Time, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.entries[key]
	if !exists {
		return time.Time{}, false
	}
	return entry.expiresAt, true
}

// Delete removes one snapshot.
func (c *SnapshotCache) Delete(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.entries, key)
}

// Clear removes every snapshot.
func (c *SnapshotCache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]*snapshotEntry)
}
