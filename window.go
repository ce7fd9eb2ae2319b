package vlist

// Row describes one renderable row of the window. Rows are derived values,
// rebuilt on every recomputation; only Index and Key are stable across
// recomputations.
type Row struct {
	// Index is the row's position in the backing list.
	Index int
	// Key is the caller-supplied stable identity of the row. Measured
	// heights are cached under this key so that reordering the backing
	// list keeps measurements attached to their logical items.
	Key string
	// Height is the row's height in pixels: the fixed height, the last
	// measured height, or the estimate, in that order of preference.
	Height float64
	// OffsetTop is the sum of the heights of all preceding rows.
	OffsetTop float64
}

// Bottom returns the offset of the pixel row just below this row.
func (r Row) Bottom() float64 {
	return r.OffsetTop + r.Height
}

// Window is the result of one range computation: the contiguous run of rows
// that intersects the viewport, padded by the overscan.
type Window struct {
	// Start and End are the inclusive index bounds of the window. An empty
	// window has End < Start.
	Start, End int
	// Rows holds the row descriptors for Start..End, in order.
	Rows []Row
	// TotalHeight is the height of the entire list, visible or not.
	TotalHeight float64
	// Scrolling reports whether a scroll event was seen within the
	// configured scrolling delay.
	Scrolling bool
}

// Empty reports whether the window contains no rows.
func (w Window) Empty() bool {
	return w.End < w.Start
}

// Len returns the number of rows in the window.
func (w Window) Len() int {
	if w.Empty() {
		return 0
	}
	return w.End - w.Start + 1
}

func emptyWindow() Window {
	return Window{Start: 0, End: -1}
}
