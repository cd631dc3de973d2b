// Package ui provides the terminal user interface using Bubble Tea.
package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/litescript/ls-orbits/internal/version"
)

// Msg types for Bubble Tea
type (
	// TickMsg advances playback.
	TickMsg time.Time

	// AnimTickMsg triggers fast animation updates.
	AnimTickMsg time.Time
)

// Options configures the root model.
type Options struct {
	Samples  int           // trace points per orbit
	Step     float64       // days per tick
	Epoch    float64       // initial epoch [days]
	Interval time.Duration // wall time between ticks
}

// Model is the root Bubble Tea model.
type Model struct {
	// UI state
	width     int
	height    int
	ready     bool
	statusMsg string
	animTick  int
	interval  time.Duration

	orbitView OrbitViewModel
}

// New creates a new root UI model.
func New(tracks []Track, opts Options) Model {
	if opts.Interval <= 0 {
		opts.Interval = 200 * time.Millisecond
	}
	view := NewOrbitViewModel(tracks, opts.Samples, opts.Step).SetEpoch(opts.Epoch)
	return Model{
		interval:  opts.Interval,
		orbitView: view,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		tickCmd(m.interval),
		animTickCmd(),
	)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		default:
			var cmd tea.Cmd
			m.orbitView, cmd = m.orbitView.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		// Title takes 3 lines, footer 2
		m.orbitView = m.orbitView.SetSize(msg.Width, msg.Height-5)

	case TickMsg:
		m.orbitView, _ = m.orbitView.Update(msg)
		cmds = append(cmds, tickCmd(m.interval))

	case AnimTickMsg:
		m.animTick++
		cmds = append(cmds, animTickCmd())
	}

	return m, tea.Batch(cmds...)
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}
	return m.renderHeader() + "\n" + m.orbitView.View() + "\n" + m.renderFooter()
}

// OrbitView returns the orbit sub-model.
func (m Model) OrbitView() OrbitViewModel { return m.orbitView }

func (m Model) renderHeader() string {
	title := "  LS-ORBITS"
	runes := []rune(title)

	var b strings.Builder
	b.WriteString("\n")
	for col, r := range runes {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(gradientColor(col, 0, len(runes), 1))).Bold(true)
		b.WriteString(style.Render(string(r)))
	}

	muted := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	b.WriteString(muted.Render(fmt.Sprintf("  Keplerian orbits · direct imaging | v%s", version.Version)))
	b.WriteString("\n")
	return b.String()
}

func (m Model) renderFooter() string {
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	accentStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#7B2CBF"))

	var status string
	if m.orbitView.Playing() {
		spinnerFrames := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
		status = accentStyle.Render(spinnerFrames[m.animTick%len(spinnerFrames)]) + " " + m.renderShimmerText("playing")
	} else {
		status = dimStyle.Render("❚❚ paused")
	}

	help := dimStyle.Render("j/k: focus | space: play | ,/.: step | </>: speed | P: periastron | +/-: zoom | arrows: pan | l: labels | q: quit")
	footer := "  " + status + "  " + dimStyle.Render("|") + "  " + help

	if m.statusMsg != "" {
		footer += "\n  " + dimStyle.Render(m.statusMsg)
	}
	return footer
}

// gradientColor returns a hex color for a position in the title gradient.
// Blue -> purple -> magenta -> pink.
func gradientColor(col, row, width, height int) string {
	xRatio := float64(col) / float64(width)
	yRatio := float64(row) / float64(height)

	var r, g, b float64
	if xRatio < 0.33 {
		t := xRatio / 0.33
		r = 59 + t*(139-59)
		g = 130 + t*(92-130)
		b = 246
	} else if xRatio < 0.66 {
		t := (xRatio - 0.33) / 0.33
		r = 139 + t*(217-139)
		g = 92 + t*(70-92)
		b = 246 + t*(239-246)
	} else {
		t := (xRatio - 0.66) / 0.34
		r = 217 + t*(236-217)
		g = 70 + t*(72-70)
		b = 239 + t*(153-239)
	}

	// Vertical fade: brighter at top
	f := 1.0 - (yRatio * 0.5)
	clamp := func(v float64) int { return min(max(int(v*f), 0), 255) }

	return fmt.Sprintf("#%02X%02X%02X", clamp(r), clamp(g), clamp(b))
}

// renderShimmerText renders text with a subtle moving shine effect.
func (m Model) renderShimmerText(text string) string {
	runes := []rune(text)
	textLen := len(runes)
	if textLen == 0 {
		return ""
	}

	pos := m.animTick % (textLen + 8)

	var result strings.Builder
	for i, r := range runes {
		dist := i - pos + 4
		if dist < 0 {
			dist = -dist
		}

		var r8, g8, b8 int
		switch {
		case dist <= 1:
			r8, g8, b8 = 180, 160, 220
		case dist <= 3:
			r8, g8, b8 = 140, 120, 180
		case dist <= 5:
			r8, g8, b8 = 110, 90, 150
		default:
			r8, g8, b8 = 80, 70, 120
		}

		style := lipgloss.NewStyle().Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r8, g8, b8)))
		result.WriteString(style.Render(string(r)))
	}
	return result.String()
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

func animTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return AnimTickMsg(t)
	})
}

// Run starts the interactive plot on the terminal.
func Run(tracks []Track, opts Options) error {
	p := tea.NewProgram(New(tracks, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

// RenderStatic writes a single frame of the orbit view, for output that is
// not a terminal.
func RenderStatic(w io.Writer, tracks []Track, opts Options, width, height int) error {
	view := NewOrbitViewModel(tracks, opts.Samples, opts.Step).
		SetEpoch(opts.Epoch).
		SetSize(width, height)
	view.labelMode = LabelAll
	_, err := io.WriteString(w, view.View()+"\n")
	return err
}
