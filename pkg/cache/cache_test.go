package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeClock управляемые часы для проверки TTL
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newTestCache() (*InMemory, *fakeClock) {
	clock := &fakeClock{now: time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)}
	return NewInMemoryWithClock(NopRecorder{}, clock.Now), clock
}

func TestInMemoryGetSet(t *testing.T) {
	c, _ := newTestCache()
	key := SlotsKey(1, 10, "2026-03-02")

	_, ok := c.Get(key)
	assert.False(t, ok)

	c.Set(key, []string{"09:00"}, 5*time.Minute)

	value, ok := c.Get(key)
	require.True(t, ok)
	assert.Equal(t, []string{"09:00"}, value)
}

func TestInMemoryTTLExpiry(t *testing.T) {
	c, clock := newTestCache()
	key := BusyKey(1, "2026-03-02")

	c.Set(key, "busy", 5*time.Minute)

	clock.Advance(5 * time.Minute)
	_, ok := c.Get(key)
	assert.True(t, ok, "entry must still be alive exactly at TTL")

	clock.Advance(time.Second)
	_, ok = c.Get(key)
	assert.False(t, ok, "entry must be expired after TTL")

	// Ленивое вытеснение удалило запись
	assert.Equal(t, 0, c.Len())
}

func TestInMemorySetOverwritesTTL(t *testing.T) {
	c, clock := newTestCache()
	key := SlotsKey(1, 10, "2026-03-02")

	c.Set(key, "old", time.Minute)
	clock.Advance(50 * time.Second)
	c.Set(key, "new", time.Minute)
	clock.Advance(30 * time.Second)

	value, ok := c.Get(key)
	require.True(t, ok, "overwrite must reset the expiry")
	assert.Equal(t, "new", value)
}

func TestInMemoryInvalidateAccount(t *testing.T) {
	c, _ := newTestCache()

	// Записи всех Kind для аккаунта 1 и контрольная запись аккаунта 2
	c.Set(DatesKey(1, 10, 14), []string{"2026-03-02"}, time.Hour)
	c.Set(SlotsKey(1, 10, "2026-03-02"), "slots", time.Hour)
	c.Set(BusyKey(1, "2026-03-02"), "busy", time.Hour)
	c.Set(SlotsKey(2, 20, "2026-03-02"), "other", time.Hour)

	c.InvalidateAccount(1)

	_, ok := c.Get(DatesKey(1, 10, 14))
	assert.False(t, ok)
	_, ok = c.Get(SlotsKey(1, 10, "2026-03-02"))
	assert.False(t, ok)
	_, ok = c.Get(BusyKey(1, "2026-03-02"))
	assert.False(t, ok)

	// Чужой аккаунт не затронут
	_, ok = c.Get(SlotsKey(2, 20, "2026-03-02"))
	assert.True(t, ok)
}

func TestInMemorySweep(t *testing.T) {
	c, clock := newTestCache()

	c.Set(SlotsKey(1, 10, "2026-03-02"), "a", time.Minute)
	c.Set(SlotsKey(1, 10, "2026-03-03"), "b", time.Minute)
	c.Set(SlotsKey(1, 10, "2026-03-04"), "c", time.Hour)

	clock.Advance(2 * time.Minute)

	removed := c.Sweep()
	assert.Equal(t, 2, removed)
	assert.Equal(t, 1, c.Len())

	// Повторный Sweep ничего не находит
	assert.Equal(t, 0, c.Sweep())
}

func TestKeySeparation(t *testing.T) {
	c, _ := newTestCache()

	// Одинаковые измерения, разные Kind - разные записи
	c.Set(SlotsKey(1, 10, "2026-03-02"), "slots", time.Hour)
	c.Set(BusyKey(1, "2026-03-02"), "busy", time.Hour)

	value, ok := c.Get(SlotsKey(1, 10, "2026-03-02"))
	require.True(t, ok)
	assert.Equal(t, "slots", value)

	value, ok = c.Get(BusyKey(1, "2026-03-02"))
	require.True(t, ok)
	assert.Equal(t, "busy", value)

	// Разные даты не пересекаются
	_, ok = c.Get(SlotsKey(1, 10, "2026-03-03"))
	assert.False(t, ok)
}

func TestGetTyped(t *testing.T) {
	c, _ := newTestCache()
	key := DatesKey(1, 10, 14)

	t.Run("miss", func(t *testing.T) {
		_, ok := GetTyped[[]string](c, key)
		assert.False(t, ok)
	})

	t.Run("hit", func(t *testing.T) {
		c.Set(key, []string{"2026-03-02", "2026-03-03"}, time.Hour)
		dates, ok := GetTyped[[]string](c, key)
		require.True(t, ok)
		assert.Len(t, dates, 2)
	})

	t.Run("type mismatch is a miss", func(t *testing.T) {
		c.Set(key, 42, time.Hour)
		_, ok := GetTyped[[]string](c, key)
		assert.False(t, ok)
	})
}

// recordingRecorder счетчики для проверки интеграции с метриками
type recordingRecorder struct {
	hits      int
	misses    int
	evictions int
}

func (r *recordingRecorder) IncCacheHit(string)                { r.hits++ }
func (r *recordingRecorder) IncCacheMiss(string)               { r.misses++ }
func (r *recordingRecorder) AddCacheEvictions(_ string, n int) { r.evictions += n }
func (r *recordingRecorder) SetCacheEntries(int)               {}

func TestInMemoryRecorder(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)}
	rec := &recordingRecorder{}
	c := NewInMemoryWithClock(rec, clock.Now)

	key := SlotsKey(1, 10, "2026-03-02")

	c.Get(key)
	c.Set(key, "v", time.Minute)
	c.Get(key)
	clock.Advance(2 * time.Minute)
	c.Get(key)

	assert.Equal(t, 1, rec.hits)
	assert.Equal(t, 2, rec.misses)
	assert.Equal(t, 1, rec.evictions)
}
