package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock is a manually advanced Clock shared by the service tests.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newFakeClock(now time.Time) *fakeClock { return &fakeClock{now: now} }

func TestSnapshotCacheHitWithinTTL(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC))
	cache := NewSnapshotCache(clock, time.Hour)

	cache.Set(SnapshotKeyIPO, "snapshot")
	clock.Advance(59 * time.Minute)

	data, storedAt, ok := cache.Get(SnapshotKeyIPO)
	require.True(t, ok)
	assert.Equal(t, "snapshot", data)
	assert.Equal(t, time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC), storedAt)
}

func TestSnapshotCacheExpiry(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC))
	cache := NewSnapshotCache(clock, time.Hour)

	cache.Set(SnapshotKeyIPO, "snapshot")
	clock.Advance(time.Hour + time.Second)

	_, _, ok := cache.Get(SnapshotKeyIPO)
	assert.False(t, ok)
}

func TestSnapshotCachePerKeyTTL(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC))
	cache := NewSnapshotCache(clock, time.Hour)

	cache.SetWithTTL(SnapshotKeyCommodity, "quotes", 10*time.Minute)
	cache.Set(SnapshotKeyIPO, "snapshot")

	clock.Advance(11 * time.Minute)

	_, _, commodityOK := cache.Get(SnapshotKeyCommodity)
	_, _, ipoOK := cache.Get(SnapshotKeyIPO)
	assert.False(t, commodityOK)
	assert.True(t, ipoOK)
}

func TestSnapshotCacheMissOnUnknownKey(t *testing.T) {
	cache := NewSnapshotCache(newFakeClock(time.Now()), time.Hour)
	_, _, ok := cache.Get("unknown")
	assert.False(t, ok)
}

func TestSnapshotCacheOverwriteRefreshesExpiry(t *testing.T) {
	clock := newFakeClock(time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC))
	cache := NewSnapshotCache(clock, time.Hour)

	cache.Set(SnapshotKeyIPO, "old")
	clock.Advance(50 * time.Minute)
	cache.Set(SnapshotKeyIPO, "new")
	clock.Advance(50 * time.Minute)

	data, _, ok := cache.Get(SnapshotKeyIPO)
	require.True(t, ok)
	assert.Equal(t, "new", data)
}

func TestSnapshotCacheDeleteAndClear(t *testing.T) {
	cache := NewSnapshotCache(newFakeClock(time.Now()), time.Hour)

	cache.Set(SnapshotKeyIPO, "a")
	cache.Set(SnapshotKeyRealEstate, "b")

	cache.Delete(SnapshotKeyIPO)
	_, _, ok := cache.Get(SnapshotKeyIPO)
	assert.False(t, ok)

	cache.Clear()
	_, _, ok = cache.Get(SnapshotKeyRealEstate)
	assert.False(t, ok)
}
