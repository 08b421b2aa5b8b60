package memory

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLRUTTLExpiry(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c := NewLRUTTL[string, int](4, 0, time.Minute).WithClock(func() time.Time { return now })

	c.Set("a", 1, 0)
	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	now = now.Add(2 * time.Minute)
	_, ok = c.Get("a")
	assert.False(t, ok)
	assert.Zero(t, c.Len())
}

func TestLRUTTLEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewLRUTTL[string, int](2, 0, time.Minute)
	c.Set("a", 1, 0)
	c.Set("b", 2, 0)
	_, _ = c.Get("a")
	c.Set("c", 3, 0)

	_, ok := c.Get("b")
	assert.False(t, ok, "b should be evicted")
	_, ok = c.Get("a")
	assert.True(t, ok)
	_, ok = c.Get("c")
	assert.True(t, ok)
}

func TestLRUTTLByteBudget(t *testing.T) {
	c := NewLRUTTL[string, string](10, 10, time.Minute)
	c.Set("a", "aaaaaa", 6)
	c.Set("b", "bbbbbb", 6)
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 1, c.Len())

	c.Set("b", "b", 1)
	c.Set("c", "ccc", 3)
	assert.Equal(t, 2, c.Len())
}

func TestLRUTTLNilSafe(t *testing.T) {
	var c *LRUTTL[string, int]
	c.Set("a", 1, 0)
	_, ok := c.Get("a")
	assert.False(t, ok)
	c.Delete("a")
	assert.Zero(t, c.Len())
}
