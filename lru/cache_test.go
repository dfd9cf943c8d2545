package lru_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/schemadex/lru"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCache(t *testing.T) {
	t.Parallel()

	t.Run("returns stored names", func(t *testing.T) {
		t.Parallel()

		c := lru.NewCache(4)
		c.Put("class:foo", []string{"Foo", "FooBar"})

		names, ok := c.Get("class:foo")

		require.True(t, ok)
		assert.Equal(t, []string{"Foo", "FooBar"}, names)
		assert.Equal(t, 1, c.Len())
	})

	t.Run("miss on unknown key", func(t *testing.T) {
		t.Parallel()

		c := lru.NewCache(4)

		_, ok := c.Get("all:x")

		assert.False(t, ok)
	})

	t.Run("clears everything once full", func(t *testing.T) {
		t.Parallel()

		c := lru.NewCache(3)
		for i := range 3 {
			c.Put(fmt.Sprintf("k%d", i), []string{"x"})
		}
		require.Equal(t, 3, c.Len())

		c.Put("k3", []string{"y"})

		assert.Equal(t, 1, c.Len())
		for i := range 3 {
			_, ok := c.Get(fmt.Sprintf("k%d", i))
			assert.False(t, ok)
		}
		names, ok := c.Get("k3")
		require.True(t, ok)
		assert.Equal(t, []string{"y"}, names)
	})

	t.Run("overwriting a key does not clear", func(t *testing.T) {
		t.Parallel()

		c := lru.NewCache(2)
		c.Put("a", []string{"1"})
		c.Put("b", []string{"2"})
		c.Put("b", []string{"3"})

		assert.Equal(t, 2, c.Len())
		names, _ := c.Get("b")
		assert.Equal(t, []string{"3"}, names)
	})

	t.Run("non-positive size selects default", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, lru.DefaultSize, lru.NewCache(0).Size())
	})
}
