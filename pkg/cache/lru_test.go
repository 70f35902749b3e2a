package cache_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/socialbridge/pkg/cache"
)

func TestLRU_EvictsLeastRecentlyUsed(t *testing.T) {
	t.Parallel()

	c := cache.NewLRU[string, int](2, 0)
	c.Put("a", 1)
	c.Put("b", 2)

	_, ok := c.Get("a")
	assert.True(t, ok)

	c.Put("c", 3)
	_, ok = c.Get("b")
	assert.False(t, ok, "b was least recently used")

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)
	assert.Equal(t, 2, c.Len())
}

func TestLRU_ReplaceKeepsSize(t *testing.T) {
	t.Parallel()

	c := cache.NewLRU[string, int](2, 0)
	c.Put("a", 1)
	c.Put("a", 10)
	assert.Equal(t, 1, c.Len())

	v, _ := c.Get("a")
	assert.Equal(t, 10, v)

	c.Remove("a")
	c.Remove("missing")
	assert.Equal(t, 0, c.Len())
}

func TestLRU_Expiry(t *testing.T) {
	t.Parallel()

	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := cache.NewLRU[string, string](4, time.Minute)
	c.SetClock(func() time.Time { return now })

	c.Put("tok", "joe")
	now = now.Add(59 * time.Second)
	v, ok := c.Get("tok")
	assert.True(t, ok)
	assert.Equal(t, "joe", v)

	now = now.Add(time.Second)
	_, ok = c.Get("tok")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestLRU_Concurrent(t *testing.T) {
	t.Parallel()

	c := cache.NewLRU[int, int](16, time.Minute)
	var wg sync.WaitGroup
	for i := range 32 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Put(i, i)
			c.Get(i)
		}()
	}
	wg.Wait()
	assert.LessOrEqual(t, c.Len(), 16)
}

func TestNewLRU_InvalidCapacity(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { cache.NewLRU[string, int](0, 0) })
}
