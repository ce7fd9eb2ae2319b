package vlist

import (
	"fmt"
	"time"
)

const (
	// DefaultOverscan is the number of extra rows included on each side of
	// the visible range.
	DefaultOverscan = 3
	// DefaultScrollingDelay is how long after the last scroll event the
	// Scrolling flag stays set.
	DefaultScrollingDelay = 100 * time.Millisecond
)

type confOptions struct {
	count          int
	overscan       int
	scrollingDelay time.Duration
	keyFor         func(int) string
	itemHeight     func(int) float64
	estimateHeight func(int) float64
}

// Option configures an Engine.
type Option func(*confOptions)

// WithItemKey sets the function mapping a row index to its stable key.
// Required.
func WithItemKey(fn func(index int) string) Option {
	return func(c *confOptions) {
		c.keyFor = fn
	}
}

// WithItemHeight puts the engine in fixed mode. The function is sampled at
// index 0 once, at construction; every row is assumed to have that height.
// Takes precedence over WithEstimateHeight when both are set.
func WithItemHeight(fn func(index int) float64) Option {
	return func(c *confOptions) {
		c.itemHeight = fn
	}
}

// WithEstimateHeight puts the engine in dynamic mode: the estimate is used
// for any row that has not yet had a measurement reported.
func WithEstimateHeight(fn func(index int) float64) Option {
	return func(c *confOptions) {
		c.estimateHeight = fn
	}
}

// WithOverscan sets how many extra rows to include on each side of the
// visible range.
func WithOverscan(n int) Option {
	return func(c *confOptions) {
		c.overscan = n
	}
}

// WithScrollingDelay sets how long after the last scroll event the Scrolling
// flag stays set.
func WithScrollingDelay(d time.Duration) Option {
	return func(c *confOptions) {
		c.scrollingDelay = d
	}
}

func (c *confOptions) validate() error {
	if c.count < 0 {
		return fmt.Errorf("vlist: item count must be >= 0, got %d", c.count)
	}
	if c.keyFor == nil {
		return fmt.Errorf("vlist: an item key function is required")
	}
	if c.itemHeight == nil && c.estimateHeight == nil {
		return fmt.Errorf("vlist: either an item height or a height estimator must be configured")
	}
	if c.overscan < 0 {
		return fmt.Errorf("vlist: overscan must be >= 0, got %d", c.overscan)
	}
	if c.scrollingDelay < 0 {
		return fmt.Errorf("vlist: scrolling delay must be >= 0, got %s", c.scrollingDelay)
	}
	return nil
}
