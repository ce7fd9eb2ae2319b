// Package tealist renders a windowed list inside a Bubble Tea program. It is
// the terminal-side collaborator of the vlist engine: it feeds scroll and
// resize notifications in, renders only the rows the engine hands back, and
// reports each row's real rendered height so the window stays exact.
package tealist

import (
	"strings"

	"github.com/charmbracelet/bubbles/v2/key"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/windowed/vlist"
	"github.com/windowed/vlist/internal/csync"
)

// WheelScrollLines is how many lines one mouse wheel notch scrolls.
const WheelScrollLines = 2

// measurePasses bounds the render-measure-recompute loop in View. Heights
// converge after one pass in practice; the bound guards against an item whose
// rendered height never settles.
const measurePasses = 3

// Item is one renderable row. ID must be stable for the item's lifetime; it
// keys the engine's height cache and the view cache.
type Item interface {
	ID() string
	View(width int) string
}

type confOptions struct {
	keyMap      KeyMap
	estimate    func(index int) float64
	enableMouse bool
	engineOpts  []vlist.Option
}

// Option configures a Model.
type Option func(*confOptions)

// WithKeyMap replaces the default key bindings.
func WithKeyMap(keyMap KeyMap) Option {
	return func(c *confOptions) {
		c.keyMap = keyMap
	}
}

// WithEstimate sets the height estimate used for rows that have not been
// rendered yet. Defaults to one line.
func WithEstimate(fn func(index int) float64) Option {
	return func(c *confOptions) {
		c.estimate = fn
	}
}

// WithEnableMouse makes the list react to mouse wheel events.
func WithEnableMouse() Option {
	return func(c *confOptions) {
		c.enableMouse = true
	}
}

// WithEngineOptions forwards extra options to the underlying engine, e.g.
// vlist.WithOverscan or vlist.WithScrollingDelay.
func WithEngineOptions(opts ...vlist.Option) Option {
	return func(c *confOptions) {
		c.engineOpts = append(c.engineOpts, opts...)
	}
}

// Model is a scrollable, height-measuring list component.
type Model struct {
	keyMap      KeyMap
	enableMouse bool

	engine *vlist.Engine
	src    *teaSource
	items  []Item

	viewCache *csync.Map[string, string]

	width, height int
}

// New creates a list over the given items. The engine runs in dynamic mode:
// row heights start as estimates and are corrected as rows render.
func New(items []Item, opts ...Option) (*Model, error) {
	conf := &confOptions{
		keyMap:   DefaultKeyMap(),
		estimate: func(int) float64 { return 1 },
	}
	for _, opt := range opts {
		opt(conf)
	}

	m := &Model{
		keyMap:      conf.keyMap,
		enableMouse: conf.enableMouse,
		items:       items,
		src:         &teaSource{},
		viewCache:   csync.NewMap[string, string](),
	}

	// The key function reads through the model so SetItems retargets it.
	engineOpts := append([]vlist.Option{
		vlist.WithItemKey(func(i int) string { return m.items[i].ID() }),
		vlist.WithEstimateHeight(conf.estimate),
	}, conf.engineOpts...)

	engine, err := vlist.New(len(items), engineOpts...)
	if err != nil {
		return nil, err
	}
	m.engine = engine
	return m, nil
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	m.engine.Attach(m.src)
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.SetSize(msg.Width, msg.Height)
		return m, nil
	case tea.MouseWheelMsg:
		if !m.enableMouse {
			return m, nil
		}
		switch msg.Button {
		case tea.MouseWheelDown:
			m.ScrollBy(WheelScrollLines)
		case tea.MouseWheelUp:
			m.ScrollBy(-WheelScrollLines)
		}
		return m, nil
	case tea.KeyPressMsg:
		switch {
		case key.Matches(msg, m.keyMap.Down):
			m.ScrollBy(1)
		case key.Matches(msg, m.keyMap.Up):
			m.ScrollBy(-1)
		case key.Matches(msg, m.keyMap.HalfPageDown):
			m.ScrollBy(m.height / 2)
		case key.Matches(msg, m.keyMap.HalfPageUp):
			m.ScrollBy(-m.height / 2)
		case key.Matches(msg, m.keyMap.PageDown):
			m.ScrollBy(m.height)
		case key.Matches(msg, m.keyMap.PageUp):
			m.ScrollBy(-m.height)
		case key.Matches(msg, m.keyMap.Home):
			m.ScrollTo(0)
		case key.Matches(msg, m.keyMap.End):
			m.ScrollTo(m.Window().TotalHeight)
		}
		return m, nil
	}
	return m, nil
}

// SetSize sets the component's size in cells. A width change throws away
// every cached render and measurement, since wrapping changes heights.
func (m *Model) SetSize(width, height int) {
	widthChanged := width != m.width
	m.width = width
	m.height = height
	if widthChanged {
		m.viewCache.Clear()
		m.engine.ResetMeasurements()
	}
	m.src.resize(float64(height))
}

// SetItems replaces the backing items.
func (m *Model) SetItems(items []Item) {
	m.items = items
	m.viewCache.Clear()
	m.engine.SetCount(len(items))
	m.ScrollTo(m.src.offset) // re-clamp against the new total
}

// ScrollBy scrolls by n lines; negative n scrolls up.
func (m *Model) ScrollBy(n int) {
	m.ScrollTo(m.src.offset + float64(n))
}

// ScrollTo scrolls to an absolute offset, clamped to the content.
func (m *Model) ScrollTo(offset float64) {
	maxOffset := m.Window().TotalHeight - float64(m.height)
	offset = min(offset, maxOffset)
	offset = max(offset, 0)
	if offset == m.src.offset {
		return
	}
	m.src.scroll(offset)
}

// Offset returns the current scroll offset in lines.
func (m *Model) Offset() float64 {
	return m.src.offset
}

// Window returns the engine's current window with all visible rows measured.
// Rendering a row can change its height, which can pull new rows into the
// window, so measure and recompute until the window is stable.
func (m *Model) Window() vlist.Window {
	w := m.engine.ComputeWindow()
	for range measurePasses {
		changed := false
		for _, row := range w.Rows {
			h := lipgloss.Height(m.itemView(row.Index))
			if float64(h) != m.engine.ItemHeight(row.Index) {
				m.engine.ReportMeasuredHeight(row.Index, float64(h))
				changed = true
			}
		}
		if !changed {
			break
		}
		w = m.engine.ComputeWindow()
	}
	return w
}

// Detach disconnects the engine from this component's event flow. Call it
// when the program shuts down so no debounce timer outlives the UI.
func (m *Model) Detach() {
	m.engine.Detach()
}

// View implements tea.Model.
func (m *Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return ""
	}
	w := m.Window()
	if w.Empty() {
		return ""
	}

	// Lay the window's rows out in virtual space, then cut the viewport
	// out of them. The window starts at the first row's OffsetTop, which
	// is at or above the scroll offset.
	var lines []string
	for _, row := range w.Rows {
		lines = append(lines, strings.Split(m.itemView(row.Index), "\n")...)
	}

	skip := int(m.src.offset - w.Rows[0].OffsetTop)
	if skip >= len(lines) {
		return ""
	}
	if skip > 0 {
		lines = lines[skip:]
	}
	if len(lines) > m.height {
		lines = lines[:m.height]
	}
	// Pad so the component always fills its box once there is anything to
	// scroll.
	if w.TotalHeight > float64(m.height) || m.src.offset > 0 {
		for len(lines) < m.height {
			lines = append(lines, "")
		}
	}

	for i, line := range lines {
		lines[i] = ansi.Truncate(line, m.width, "…")
	}
	return strings.Join(lines, "\n")
}

func (m *Model) itemView(index int) string {
	item := m.items[index]
	if cached, ok := m.viewCache.Get(item.ID()); ok {
		return cached
	}
	view := item.View(m.width)
	m.viewCache.Set(item.ID(), view)
	return view
}

// teaSource adapts the Bubble Tea event flow to vlist.ScrollSource. All
// deliveries happen on the program's update goroutine.
type teaSource struct {
	offset   float64
	viewport float64
	onScroll func(float64)
	onResize func(float64)
}

func (s *teaSource) ScrollOffset() float64 { return s.offset }
func (s *teaSource) ViewportSize() float64 { return s.viewport }

func (s *teaSource) OnScroll(fn func(offset float64)) (cancel func()) {
	s.onScroll = fn
	return func() { s.onScroll = nil }
}

func (s *teaSource) OnResize(fn func(size float64)) (cancel func()) {
	s.onResize = fn
	return func() { s.onResize = nil }
}

func (s *teaSource) scroll(to float64) {
	s.offset = to
	if s.onScroll != nil {
		s.onScroll(to)
	}
}

func (s *teaSource) resize(to float64) {
	s.viewport = to
	if s.onResize != nil {
		s.onResize(to)
	}
}
