package vlist

import "math"

// fixedRange computes the inclusive index bounds of the window when every row
// has the same height. Closed form, no scan.
func fixedRange(offset, viewport, rowHeight float64, count, overscan int) (start, end int) {
	if count <= 0 || rowHeight <= 0 {
		return 0, -1
	}
	offset = math.Max(offset, 0)

	start = int(math.Floor(offset/rowHeight)) - overscan
	end = int(math.Ceil((offset+viewport)/rowHeight)) + overscan

	start = max(start, 0)
	end = min(end, count-1)
	// Scrolled past the end of the content.
	start = min(start, count-1)
	return start, end
}

// scanRange computes the window bounds for per-row heights. It walks every
// row accumulating offsets, because each row's position depends on all
// preceding heights. O(count) per call; callers are expected to keep count in
// the low tens of thousands. Replacing this with an incrementally maintained
// prefix-sum index is the extension point for larger lists.
//
// The returned slice holds a descriptor for every row, not just the visible
// ones, so the caller gets exact offsets along with the bounds.
func scanRange(offset, viewport float64, count, overscan int, key func(int) string, height func(int) float64) (rows []Row, start, end int, total float64) {
	if count <= 0 {
		return nil, 0, -1, 0
	}

	start, end = -1, -1
	rows = make([]Row, count)
	scrollEnd := offset + viewport

	var top float64
	for i := range count {
		h := height(i)
		rows[i] = Row{Index: i, Key: key(i), Height: h, OffsetTop: top}

		if start < 0 && top+h > offset {
			start = max(i-overscan, 0)
		}
		if end < 0 && top+h >= scrollEnd {
			end = min(i+overscan, count-1)
		}
		top += h
	}

	// Content shorter than the viewport, or the offset is at/past either
	// edge of the content.
	if start < 0 {
		start = 0
	}
	if end < 0 {
		end = count - 1
	}
	return rows, start, end, top
}
