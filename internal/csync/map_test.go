package csync

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	t.Parallel()

	t.Run("set and get", func(t *testing.T) {
		t.Parallel()
		m := NewMap[string, float64]()
		m.Set("a", 40)
		v, ok := m.Get("a")
		require.True(t, ok)
		assert.Equal(t, 40.0, v)

		_, ok = m.Get("missing")
		assert.False(t, ok)
	})

	t.Run("del and len", func(t *testing.T) {
		t.Parallel()
		m := NewMapFrom(map[string]int{"a": 1, "b": 2})
		assert.Equal(t, 2, m.Len())
		m.Del("a")
		assert.Equal(t, 1, m.Len())
		_, ok := m.Get("a")
		assert.False(t, ok)
	})

	t.Run("clear", func(t *testing.T) {
		t.Parallel()
		m := NewMapFrom(map[string]int{"a": 1, "b": 2})
		m.Clear()
		assert.Equal(t, 0, m.Len())
	})

	t.Run("seq2 snapshot", func(t *testing.T) {
		t.Parallel()
		m := NewMapFrom(map[string]int{"a": 1, "b": 2, "c": 3})
		got := map[string]int{}
		for k, v := range m.Seq2() {
			got[k] = v
		}
		assert.Equal(t, map[string]int{"a": 1, "b": 2, "c": 3}, got)
	})

	t.Run("concurrent access", func(t *testing.T) {
		t.Parallel()
		m := NewMap[int, int]()
		var wg sync.WaitGroup
		for i := range 100 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				m.Set(i, i*2)
				m.Get(i)
			}()
		}
		wg.Wait()
		assert.Equal(t, 100, m.Len())
	})
}
