package cache

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTTLCache(t *testing.T) {
	t.Run(`set and get check`, func(t *testing.T) {
		c := New[int](time.Minute)
		_, ok := c.Get("key")
		require.Equal(t, false, ok)

		c.Set("key", 42)
		value, ok := c.Get("key")
		require.Equal(t, true, ok)
		require.Equal(t, 42, value)

		c.Delete("key")
		_, ok = c.Get("key")
		require.Equal(t, false, ok)
	})

	t.Run(`nil value check`, func(t *testing.T) {
		c := New[*string](time.Minute)
		// отрицательный результат тоже кэшируется
		c.Set("key", nil)
		value, ok := c.Get("key")
		require.Equal(t, true, ok)
		require.Nil(t, value)
	})

	t.Run(`expiry check`, func(t *testing.T) {
		c := New[string](30 * time.Millisecond)
		c.Set("key", "value")
		_, ok := c.Get("key")
		require.Equal(t, true, ok)

		time.Sleep(60 * time.Millisecond)
		_, ok = c.Get("key")
		require.Equal(t, false, ok)
	})

	t.Run(`cleanup check`, func(t *testing.T) {
		c := New[string](30 * time.Millisecond)
		c.Set("stale", "value")
		time.Sleep(60 * time.Millisecond)
		c.Set("fresh", "value")
		c.Cleanup()

		require.Len(t, c.items, 1)
		_, ok := c.Get("fresh")
		require.Equal(t, true, ok)
	})
}
