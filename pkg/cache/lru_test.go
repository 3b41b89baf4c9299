package cache_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/sfcshift/pkg/cache"
)

func strSize(s string) int64 { return int64(len(s)) }

func TestKey(t *testing.T) {
	t.Parallel()

	a := cache.Key("object>class", []byte("<template/>"))

	assert.Len(t, a, 64)
	assert.Equal(t, a, cache.Key("object>class", []byte("<template/>")))
	assert.NotEqual(t, a, cache.Key("class>object", []byte("<template/>")))
	assert.NotEqual(t, cache.Key("ab", []byte("c")), cache.Key("a", []byte("bc")))
}

func TestLRU_GetPut(t *testing.T) {
	t.Parallel()

	c := cache.NewLRU(100, strSize)

	_, ok := c.Get("a")
	assert.False(t, ok)

	c.Put("a", "alpha")

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "alpha", got)

	c.Put("a", "longer alpha")

	stats := c.Stats()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(len("longer alpha")), stats.Bytes)
	assert.Equal(t, int64(1), stats.Hits)
	assert.Equal(t, int64(1), stats.Misses)
	assert.InDelta(t, 0.5, stats.HitRate(), 1e-9)
}

func TestLRU_EvictsToFit(t *testing.T) {
	t.Parallel()

	c := cache.NewLRU(10, strSize)

	c.Put("a", "aaaa")
	c.Put("b", "bbbb")
	c.Put("c", "cccc")

	stats := c.Stats()
	assert.Equal(t, 2, stats.Entries)
	assert.LessOrEqual(t, stats.Bytes, int64(10))

	_, ok := c.Get("c")
	assert.True(t, ok)
}

func TestLRU_PrefersEvictingUnreadEntries(t *testing.T) {
	t.Parallel()

	c := cache.NewLRU(8, strSize)

	c.Put("old", "oooo")
	c.Put("new", "nnnn")

	for range 3 {
		_, _ = c.Get("old")
	}

	_, _ = c.Get("new")
	c.Put("x", "xxxx")

	_, ok := c.Get("old")
	assert.True(t, ok)

	_, ok = c.Get("new")
	assert.False(t, ok)
}

func TestLRU_OversizedIsDropped(t *testing.T) {
	t.Parallel()

	c := cache.NewLRU(4, strSize)
	c.Put("big", "too large")

	assert.Zero(t, c.Stats().Entries)
	assert.Equal(t, int64(cache.DefaultMaxBytes), cache.NewLRU(0, strSize).Stats().MaxSize)
}

func TestLRU_Concurrent(t *testing.T) {
	t.Parallel()

	c := cache.NewLRU(1<<10, strSize)

	var wg sync.WaitGroup

	for i := range 8 {
		wg.Add(1)

		go func() {
			defer wg.Done()

			key := string(rune('a' + i))
			for range 100 {
				c.Put(key, key)
				_, _ = c.Get(key)
			}
		}()
	}

	wg.Wait()
	assert.Equal(t, 8, c.Stats().Entries)
}
