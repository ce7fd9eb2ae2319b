// Command vlist is a demo for the windowed list engine: it scrolls a large
// list of variable-height rows while rendering only the rows inside the
// window.
package main

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/v2/key"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/lipgloss/v2"
	"github.com/charmbracelet/log/v2"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/windowed/vlist"
	"github.com/windowed/vlist/tealist"
)

var rootCmd = &cobra.Command{
	Use:   "vlist",
	Short: "Scroll a windowed list of generated rows",
	Long: `Generates a list of variable-height rows and scrolls it inside a
terminal viewport. Only the rows intersecting the viewport (plus the
overscan) are ever rendered; heights are measured on first render and
refine the scroll geometry as you go.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		count, _ := cmd.Flags().GetInt("count")
		overscan, _ := cmd.Flags().GetInt("overscan")
		delay, _ := cmd.Flags().GetDuration("scrolling-delay")
		seed, _ := cmd.Flags().GetUint64("seed")
		debug, _ := cmd.Flags().GetBool("debug")

		setupLogging(debug)

		list, err := tealist.New(generateItems(count, seed),
			tealist.WithEnableMouse(),
			tealist.WithEstimate(func(int) float64 { return 2 }),
			tealist.WithEngineOptions(
				vlist.WithOverscan(overscan),
				vlist.WithScrollingDelay(delay),
			),
		)
		if err != nil {
			return fmt.Errorf("creating list: %w", err)
		}

		app := &appModel{list: list, quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		)}
		p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running program: %w", err)
		}
		return nil
	},
}

func setupLogging(debug bool) {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
	})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}
	slog.SetDefault(slog.New(logger))
}

type appModel struct {
	list   *tealist.Model
	quit   key.Binding
	width  int
	height int
}

func (a *appModel) Init() tea.Cmd {
	return a.list.Init()
}

func (a *appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// One line is reserved for the status bar.
		a.list.SetSize(msg.Width, msg.Height-1)
		return a, nil
	case tea.KeyPressMsg:
		if key.Matches(msg, a.quit) {
			a.list.Detach()
			return a, tea.Quit
		}
	}
	_, cmd := a.list.Update(msg)
	return a, cmd
}

var (
	statusStyle = lipgloss.NewStyle().Faint(true)
	titleStyle  = lipgloss.NewStyle().Bold(true)
	bodyStyle   = lipgloss.NewStyle().Faint(true)
)

func (a *appModel) View() string {
	if a.width <= 0 || a.height <= 0 {
		return ""
	}
	w := a.list.Window()
	status := fmt.Sprintf("rows %d-%d · offset %.0f/%.0f", w.Start, w.End, a.list.Offset(), w.TotalHeight)
	if w.Scrolling {
		status += " · scrolling"
	}
	return a.list.View() + "\n" + statusStyle.Render(status)
}

// demoItem is a generated row: a title line plus zero or more body lines.
type demoItem struct {
	id    string
	title string
	body  []string
}

func (d demoItem) ID() string { return d.id }

func (d demoItem) View(width int) string {
	lines := make([]string, 0, len(d.body)+1)
	lines = append(lines, titleStyle.Render(d.title))
	for _, b := range d.body {
		lines = append(lines, bodyStyle.Render("  "+b))
	}
	return strings.Join(lines, "\n")
}

var loremWords = []string{
	"alpha", "bravo", "charlie", "delta", "echo", "foxtrot", "golf",
	"hotel", "india", "juliett", "kilo", "lima", "mike", "november",
}

func generateItems(count int, seed uint64) []tealist.Item {
	rng := rand.New(rand.NewPCG(seed, seed))
	items := make([]tealist.Item, count)
	for i := range count {
		body := make([]string, rng.IntN(4))
		for n := range body {
			words := make([]string, 3+rng.IntN(5))
			for w := range words {
				words[w] = loremWords[rng.IntN(len(loremWords))]
			}
			body[n] = strings.Join(words, " ")
		}
		items[i] = demoItem{
			id:    uuid.NewString(),
			title: fmt.Sprintf("#%d %s", i, loremWords[rng.IntN(len(loremWords))]),
			body:  body,
		}
	}
	return items
}

func init() {
	rootCmd.Flags().Int("count", 500, "Number of rows to generate")
	rootCmd.Flags().Int("overscan", vlist.DefaultOverscan, "Rows rendered beyond each edge of the viewport")
	rootCmd.Flags().Duration("scrolling-delay", vlist.DefaultScrollingDelay, "How long the scrolling flag stays set after the last scroll event")
	rootCmd.Flags().Uint64("seed", 1, "Seed for the row generator")
	rootCmd.Flags().Bool("debug", false, "Enable debug logging")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
