package vlist

import (
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/windowed/vlist/internal/csync"
)

// ScrollSource is the engine's view of whatever owns the scrollable surface:
// a terminal viewport, a DOM element, a test double. ScrollOffset and
// ViewportSize are read once at attach time; after that the engine relies on
// the subscriptions. The cancel function returned by a subscription must stop
// further deliveries.
type ScrollSource interface {
	ScrollOffset() float64
	ViewportSize() float64
	OnScroll(fn func(offset float64)) (cancel func())
	OnResize(fn func(size float64)) (cancel func())
}

// Engine maps a scroll offset and viewport size to the minimal contiguous
// range of rows to render. All recomputation happens synchronously inside
// ComputeWindow; the only background activity is the timer that clears the
// Scrolling flag.
type Engine struct {
	*confOptions

	fixed     bool
	rowHeight float64 // fixed mode only

	heights *csync.Map[string, float64]

	mu       sync.Mutex
	offset   float64
	viewport float64

	scrolling bool
	timer     *time.Timer
	timerGen  uint64

	attached     bool
	cancelScroll func()
	cancelResize func()

	window *Window // nil when state changed since the last computation
}

// New creates an engine for a list of count rows. Either WithItemHeight or
// WithEstimateHeight must be supplied, along with WithItemKey.
func New(count int, opts ...Option) (*Engine, error) {
	conf := &confOptions{
		count:          count,
		overscan:       DefaultOverscan,
		scrollingDelay: DefaultScrollingDelay,
	}
	for _, opt := range opts {
		opt(conf)
	}
	if err := conf.validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		confOptions: conf,
		heights:     csync.NewMap[string, float64](),
	}
	if conf.itemHeight != nil {
		// Fixed mode: the height function is constant per contract, so
		// sample it once.
		e.fixed = true
		e.rowHeight = conf.itemHeight(0)
	}
	return e, nil
}

// Attach subscribes the engine to a scroll source, replacing any existing
// attachment. It performs one synthetic read of the current offset and
// viewport size so the first ComputeWindow is correct before any event
// arrives. A nil source leaves the engine unattached; ComputeWindow then
// returns an empty window, which is the expected transient state during
// startup.
func (e *Engine) Attach(src ScrollSource) {
	e.Detach()
	if src == nil {
		return
	}

	e.mu.Lock()
	e.attached = true
	e.offset = src.ScrollOffset()
	e.viewport = src.ViewportSize()
	e.window = nil
	e.mu.Unlock()

	cancelScroll := src.OnScroll(e.handleScroll)
	cancelResize := src.OnResize(e.handleResize)

	e.mu.Lock()
	e.cancelScroll = cancelScroll
	e.cancelResize = cancelResize
	e.mu.Unlock()
}

// Detach unsubscribes from the current source, cancels any pending scrolling
// timer, and resets the scrolling flag. Safe to call when not attached.
func (e *Engine) Detach() {
	e.mu.Lock()
	cancelScroll, cancelResize := e.cancelScroll, e.cancelResize
	e.cancelScroll, e.cancelResize = nil, nil
	e.attached = false
	e.timerGen++
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.scrolling = false
	e.window = nil
	e.mu.Unlock()

	if cancelScroll != nil {
		cancelScroll()
	}
	if cancelResize != nil {
		cancelResize()
	}
}

func (e *Engine) handleScroll(offset float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.attached {
		return
	}
	e.offset = offset
	e.window = nil
	e.scrolling = true

	// Replace the pending timer. The generation counter makes a timer that
	// already fired, but lost the race to this lock, a no-op.
	e.timerGen++
	gen := e.timerGen
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(e.scrollingDelay, func() {
		e.settleScroll(gen)
	})
}

func (e *Engine) settleScroll(gen uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.timerGen {
		return
	}
	e.scrolling = false
	e.timer = nil
}

func (e *Engine) handleResize(size float64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.attached {
		return
	}
	e.viewport = size
	e.window = nil
}

// ComputeWindow returns the row range intersecting the current viewport,
// padded by the overscan. Calling it again with no intervening state change
// returns an identical window.
func (e *Engine) ComputeWindow() Window {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.window != nil {
		w := *e.window
		w.Scrolling = e.scrolling
		return w
	}

	w := e.computeLocked()
	e.window = &w
	w.Scrolling = e.scrolling
	return w
}

func (e *Engine) computeLocked() Window {
	if !e.attached || e.count == 0 {
		return emptyWindow()
	}

	if e.fixed {
		start, end := fixedRange(e.offset, e.viewport, e.rowHeight, e.count, e.overscan)
		if end < start {
			return emptyWindow()
		}
		rows := make([]Row, 0, end-start+1)
		for i := start; i <= end; i++ {
			rows = append(rows, Row{
				Index:     i,
				Key:       e.keyFor(i),
				Height:    e.rowHeight,
				OffsetTop: float64(i) * e.rowHeight,
			})
		}
		return Window{
			Start:       start,
			End:         end,
			Rows:        rows,
			TotalHeight: e.rowHeight * float64(e.count),
		}
	}

	all, start, end, total := scanRange(e.offset, e.viewport, e.count, e.overscan, e.keyFor, e.heightForLocked)
	if end < start {
		return emptyWindow()
	}
	return Window{
		Start:       start,
		End:         end,
		Rows:        all[start : end+1 : end+1],
		TotalHeight: total,
	}
}

// heightForLocked resolves a row's height: measured if a report exists for
// its key, estimated otherwise. Dynamic mode only.
func (e *Engine) heightForLocked(index int) float64 {
	if h, ok := e.heights.Get(e.keyFor(index)); ok {
		return h
	}
	return e.estimateHeight(index)
}

// ItemHeight returns the height the engine currently believes row index has.
// In fixed mode this is the configured row height; in dynamic mode it is the
// last measured height for the row's key, falling back to the estimate.
// Out-of-range indexes yield 0.
func (e *Engine) ItemHeight(index int) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	if index < 0 || index >= e.count {
		return 0
	}
	if e.fixed {
		return e.rowHeight
	}
	return e.heightForLocked(index)
}

// ReportMeasuredHeight records the rendered height of row index, keyed by the
// row's stable key, and invalidates the current window. Reports for rows that
// do not exist, or with a non-positive or non-finite height, are dropped with
// a warning: the rendering surface keeps working off the estimate. Fixed mode
// ignores reports entirely.
func (e *Engine) ReportMeasuredHeight(index int, height float64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if index < 0 || index >= e.count || height <= 0 || math.IsInf(height, 1) || math.IsNaN(height) {
		slog.Warn("vlist: dropping invalid measurement", "index", index, "height", height, "count", e.count)
		return
	}
	if e.fixed {
		return
	}

	key := e.keyFor(index)
	if prev, ok := e.heights.Get(key); ok && prev == height {
		return
	}
	e.heights.Set(key, height)
	e.window = nil
}

// SetCount tells the engine the backing list changed length. Measurements are
// kept; keys make them independent of position. Negative counts clamp to 0.
func (e *Engine) SetCount(count int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.count = max(count, 0)
	e.window = nil
}

// Count returns the backing list length the engine was last told about.
func (e *Engine) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.count
}

// ResetMeasurements drops every cached measurement. Useful when the rendering
// surface changes width and all previously measured heights are stale.
func (e *Engine) ResetMeasurements() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.heights.Clear()
	e.window = nil
}

// IsScrolling reports whether a scroll event was seen within the scrolling
// delay.
func (e *Engine) IsScrolling() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.scrolling
}
