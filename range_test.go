package vlist

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixedRange(t *testing.T) {
	t.Parallel()

	t.Run("top of a large list", func(t *testing.T) {
		t.Parallel()
		start, end := fixedRange(0, 600, 40, 10000, 3)
		assert.Equal(t, 0, start)
		assert.Equal(t, 18, end)
	})

	t.Run("middle of a large list", func(t *testing.T) {
		t.Parallel()
		// Rows 100..115 intersect [4000, 4600]; overscan pads by 3.
		start, end := fixedRange(4000, 600, 40, 10000, 3)
		assert.Equal(t, 97, start)
		assert.Equal(t, 118, end)
	})

	t.Run("bottom of the list clamps the overscan", func(t *testing.T) {
		t.Parallel()
		start, end := fixedRange(400000-600, 600, 40, 10000, 3)
		assert.Equal(t, 9999, end)
		assert.LessOrEqual(t, start, end)
	})

	t.Run("empty list", func(t *testing.T) {
		t.Parallel()
		start, end := fixedRange(0, 600, 40, 0, 3)
		assert.Less(t, end, start)
	})

	t.Run("negative offset clamps to zero", func(t *testing.T) {
		t.Parallel()
		start, end := fixedRange(-250, 600, 40, 100, 3)
		assert.Equal(t, 0, start)
		assert.Equal(t, 18, end)
	})

	t.Run("offset past the end of the content", func(t *testing.T) {
		t.Parallel()
		start, end := fixedRange(1e9, 600, 40, 100, 3)
		assert.Equal(t, 99, start)
		assert.Equal(t, 99, end)
	})

	t.Run("zero overscan covers exactly the viewport", func(t *testing.T) {
		t.Parallel()
		start, end := fixedRange(80, 100, 40, 1000, 0)
		// [80, 180] touches rows 2, 3 and 4.
		assert.Equal(t, 2, start)
		assert.GreaterOrEqual(t, float64(end+1)*40, 180.0)
	})

	t.Run("viewport coverage", func(t *testing.T) {
		t.Parallel()
		// Every pixel row in [offset, offset+viewport] must belong to a
		// row inside the returned range.
		const h, viewport = 37.0, 512.0
		for _, offset := range []float64{0, 1, h - 1, h, 1000, 12345.5} {
			start, end := fixedRange(offset, viewport, h, 5000, 0)
			require.LessOrEqual(t, float64(start)*h, offset, "offset %v", offset)
			require.GreaterOrEqual(t, float64(end+1)*h, offset+viewport, "offset %v", offset)
		}
	})
}

func TestScanRange(t *testing.T) {
	t.Parallel()

	key := func(i int) string { return fmt.Sprintf("item-%d", i) }
	uniform := func(float64) func(int) float64 {
		return func(int) float64 { return 40 }
	}

	t.Run("offsets are prefix sums", func(t *testing.T) {
		t.Parallel()
		heights := []float64{10, 35, 80, 5, 120}
		rows, _, _, total := scanRange(0, 100, len(heights), 0, key, func(i int) float64 { return heights[i] })

		var sum float64
		for i, row := range rows {
			assert.Equal(t, i, row.Index)
			assert.Equal(t, sum, row.OffsetTop)
			sum += heights[i]
		}
		assert.Equal(t, sum, total)
	})

	t.Run("matches the closed form on uniform heights", func(t *testing.T) {
		t.Parallel()
		for _, offset := range []float64{0, 39, 40, 41, 4000, 399999} {
			wantStart, wantEnd := fixedRange(offset, 600, 40, 10000, 3)
			_, start, end, total := scanRange(offset, 600, 10000, 3, key, uniform(40))
			assert.Equal(t, wantStart, start, "offset %v", offset)
			assert.Equal(t, wantEnd, end, "offset %v", offset)
			assert.Equal(t, 400000.0, total)
		}
	})

	t.Run("content shorter than viewport", func(t *testing.T) {
		t.Parallel()
		rows, start, end, total := scanRange(0, 600, 3, 3, key, uniform(40))
		assert.Equal(t, 0, start)
		assert.Equal(t, 2, end)
		assert.Equal(t, 120.0, total)
		assert.Len(t, rows, 3)
	})

	t.Run("offset past the end defaults to the full range", func(t *testing.T) {
		t.Parallel()
		_, start, end, _ := scanRange(1e6, 600, 5, 0, key, uniform(40))
		assert.Equal(t, 0, start)
		assert.Equal(t, 4, end)
	})

	t.Run("empty list", func(t *testing.T) {
		t.Parallel()
		rows, start, end, total := scanRange(0, 600, 0, 3, key, uniform(40))
		assert.Nil(t, rows)
		assert.Less(t, end, start)
		assert.Zero(t, total)
	})

	t.Run("overscan stays in bounds", func(t *testing.T) {
		t.Parallel()
		_, start, end, _ := scanRange(0, 100, 4, 50, key, uniform(40))
		assert.Equal(t, 0, start)
		assert.Equal(t, 3, end)
	})
}

func BenchmarkScanRange(b *testing.B) {
	key := func(i int) string { return fmt.Sprintf("item-%d", i) }
	height := func(i int) float64 { return float64(20 + i%5*8) }
	for _, count := range []int{100, 1000, 10000} {
		b.Run(fmt.Sprintf("count=%d", count), func(b *testing.B) {
			for b.Loop() {
				scanRange(float64(count)*10, 600, count, 3, key, height)
			}
		})
	}
}

func BenchmarkFixedRange(b *testing.B) {
	for b.Loop() {
		fixedRange(123456, 600, 40, 1000000, 3)
	}
}
