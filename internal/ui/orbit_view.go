package ui

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/soniakeys/unit"

	"github.com/litescript/ls-orbits/kepler"
)

// LabelMode controls how orbit labels are displayed.
type LabelMode int

const (
	LabelNone    LabelMode = iota // No labels
	LabelFocused                  // Only the focused orbit
	LabelAll                      // All orbits
)

// Track is one orbit shown in the view.
type Track struct {
	Name     string
	Elements kepler.Elements[float64]
}

// curve is a precomputed sky-plane trace [mas].
type curve struct {
	xs, ys []float64
}

// OrbitViewModel renders relative orbits on the sky plane, north up and
// east to the left.
type OrbitViewModel struct {
	width  int
	height int

	tracks []Track
	curves []curve
	extent float64 // largest |offset| over all curves [mas]

	// View state
	focusIdx   int // Index in tracks (-1 = primary)
	zoomLevel  int // Index into zoomLevels
	panX       float64
	panY       float64
	labelMode  LabelMode
	userPanned bool

	// Time state
	epoch   float64 // days
	step    float64 // days per tick
	playing bool
}

// Discrete zoom levels for clean stepping
var zoomLevels = []float64{0.25, 0.5, 0.75, 1.0, 1.5, 2.0, 3.0, 5.0, 10.0}

const defaultZoom = 3

// NewOrbitViewModel traces every orbit with samples points.
func NewOrbitViewModel(tracks []Track, samples int, step float64) OrbitViewModel {
	m := OrbitViewModel{
		tracks:    tracks,
		focusIdx:  -1,
		zoomLevel: defaultZoom,
		labelMode: LabelFocused,
		step:      step,
	}
	if len(tracks) > 0 {
		m.focusIdx = 0
	}
	for _, tr := range tracks {
		xs, ys := kepler.NewTrace(tr.Elements).XY(samples)
		m.curves = append(m.curves, curve{xs: xs, ys: ys})
		for i := range xs {
			m.extent = math.Max(m.extent, math.Max(math.Abs(xs[i]), math.Abs(ys[i])))
		}
	}
	if m.extent == 0 {
		m.extent = 1
	}
	return m
}

// scale returns the current zoom scale.
func (m OrbitViewModel) scale() float64 {
	if m.zoomLevel < 0 || m.zoomLevel >= len(zoomLevels) {
		return 1.0
	}
	return zoomLevels[m.zoomLevel]
}

// SetSize updates the viewport size.
func (m OrbitViewModel) SetSize(width, height int) OrbitViewModel {
	m.width = width
	m.height = height
	return m
}

// SetEpoch moves the view to epoch t [days].
func (m OrbitViewModel) SetEpoch(t float64) OrbitViewModel {
	m.epoch = t
	return m
}

// Epoch returns the displayed epoch [days].
func (m OrbitViewModel) Epoch() float64 { return m.epoch }

// Playing reports whether time advances on every tick.
func (m OrbitViewModel) Playing() bool { return m.playing }

// Update handles input messages.
func (m OrbitViewModel) Update(msg tea.Msg) (OrbitViewModel, tea.Cmd) {
	switch msg := msg.(type) {
	case TickMsg:
		if m.playing {
			m.epoch += m.step
		}

	case tea.KeyMsg:
		switch msg.String() {
		// Focus navigation
		case "j", "[":
			m.focusPrev()
		case "k", "]":
			m.focusNext()

		// Time control
		case " ", "p":
			m.playing = !m.playing
		case ".":
			m.epoch += m.step
		case ",":
			m.epoch -= m.step
		case ">":
			m.step *= 2
		case "<":
			m.step /= 2
		case "P":
			// Jump to the focused orbit's next periastron
			if f := m.FocusedTrack(); f != nil {
				m.epoch = f.Elements.Periastron(m.epoch) + f.Elements.Period()
			}

		// Viewport panning
		case "up":
			m.panY += 0.1 / m.scale()
			m.userPanned = true
		case "down":
			m.panY -= 0.1 / m.scale()
			m.userPanned = true
		case "left":
			m.panX += 0.1 / m.scale()
			m.userPanned = true
		case "right":
			m.panX -= 0.1 / m.scale()
			m.userPanned = true
		case "c":
			m.panX, m.panY = 0, 0
			m.userPanned = false

		// Zoom (discrete levels)
		case "+", "=":
			if m.zoomLevel < len(zoomLevels)-1 {
				m.zoomLevel++
			}
		case "-":
			if m.zoomLevel > 0 {
				m.zoomLevel--
			}
		case "0":
			m.zoomLevel = defaultZoom

		// Label mode toggle
		case "l":
			m.labelMode = (m.labelMode + 1) % 3

		// Reset everything
		case "r":
			m.panX, m.panY = 0, 0
			m.zoomLevel = defaultZoom
			m.userPanned = false
			m.epoch = 0
		}
	}
	return m, nil
}

func (m *OrbitViewModel) focusNext() {
	if len(m.tracks) == 0 {
		return
	}
	m.focusIdx++
	if m.focusIdx >= len(m.tracks) {
		m.focusIdx = -1 // Wrap to primary
	}
}

func (m *OrbitViewModel) focusPrev() {
	if len(m.tracks) == 0 {
		return
	}
	m.focusIdx--
	if m.focusIdx < -1 {
		m.focusIdx = len(m.tracks) - 1
	}
}

// FocusedTrack returns the focused orbit, or nil for the primary.
func (m OrbitViewModel) FocusedTrack() *Track {
	if m.focusIdx >= 0 && m.focusIdx < len(m.tracks) {
		return &m.tracks[m.focusIdx]
	}
	return nil
}

// View renders the orbit view.
func (m OrbitViewModel) View() string {
	if m.width < 40 || m.height < 10 {
		return "Terminal too small for orbit view"
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.buildCanvas(), m.renderHUD())
}

// bodyPos tracks a secondary's screen position for label rendering.
type bodyPos struct {
	x, y      int
	name      string
	isFocused bool
}

// buildCanvas renders the orbits to a string canvas.
func (m OrbitViewModel) buildCanvas() string {
	return m.renderGrid(m.drawGrid())
}

// drawGrid lays out the orbits on a character grid.
func (m OrbitViewModel) drawGrid() [][]rune {
	// Reserve space for HUD (3 lines)
	canvasH := max(m.height-5, 5)
	canvasW := m.width

	grid := make([][]rune, canvasH)
	for y := range grid {
		grid[y] = make([]rune, canvasW)
		for x := range grid[y] {
			grid[y][x] = ' '
		}
	}

	screenCenterX := canvasW / 2
	screenCenterY := canvasH / 2

	// Fit the widest orbit into the canvas; rows are about twice as tall as
	// columns are wide.
	maxDisplayR := float64(min(screenCenterX, screenCenterY*2)) * 0.9
	displayScale := maxDisplayR / m.extent * m.scale()

	// Pan is in units of the fitted extent.
	originX := screenCenterX + int(m.panX*maxDisplayR)
	originY := screenCenterY + int(m.panY*maxDisplayR*0.5)

	toScreen := func(x, y float64) (int, int) {
		// Right ascension increases to the left.
		return originX - int(math.Round(x*displayScale)), originY - int(math.Round(y*displayScale*0.5))
	}
	inside := func(sx, sy int) bool {
		return sx >= 0 && sx < canvasW && sy >= 0 && sy < canvasH
	}

	for _, c := range m.curves {
		for i := range c.xs {
			sx, sy := toScreen(c.xs[i], c.ys[i])
			if inside(sx, sy) && grid[sy][sx] == ' ' {
				grid[sy][sx] = '·'
			}
		}
	}

	var positions []bodyPos
	for i, tr := range m.tracks {
		sol, err := kepler.Solve(tr.Elements, m.epoch)
		if err != nil {
			continue
		}
		sx, sy := toScreen(sol.X, sol.Y)
		if !inside(sx, sy) {
			continue
		}
		focused := i == m.focusIdx
		grid[sy][sx] = bodyGlyph(focused)
		positions = append(positions, bodyPos{x: sx, y: sy, name: tr.Name, isFocused: focused})
	}

	// Draw the primary LAST so it's always visible
	if inside(originX, originY) {
		grid[originY][originX] = '★'
	}

	m.drawCompass(grid)
	m.renderLabels(grid, canvasW, canvasH, positions)

	return grid
}

// drawCompass marks north and east in the top-left corner.
func (m OrbitViewModel) drawCompass(grid [][]rune) {
	if len(grid) < 3 || len(grid[0]) < 6 {
		return
	}
	grid[0][3] = 'N'
	grid[1][3] = '↑'
	grid[2][0] = 'E'
	grid[2][1] = '←'
	grid[2][3] = '┘'
}

// renderLabels draws orbit labels on the canvas based on label mode.
func (m OrbitViewModel) renderLabels(grid [][]rune, width, height int, positions []bodyPos) {
	if m.labelMode == LabelNone || len(positions) == 0 {
		return
	}

	for _, pos := range positions {
		showLabel := false
		switch m.labelMode {
		case LabelFocused:
			showLabel = pos.isFocused
		case LabelAll:
			showLabel = true
		}
		if !showLabel {
			continue
		}

		labelX := pos.x + 2
		labelY := pos.y
		if labelY < 0 || labelY >= height || labelX >= width {
			continue
		}

		labelText := pos.name
		if pos.isFocused {
			labelText = "◄ " + pos.name
		}

		x := labelX
		for _, r := range labelText {
			if x >= width {
				break
			}
			// Only write if position is empty or has an orbit dot
			if grid[labelY][x] == ' ' || grid[labelY][x] == '·' {
				grid[labelY][x] = r
			}
			x++
		}
	}
}

func bodyGlyph(focused bool) rune {
	if focused {
		return '●'
	}
	return '•'
}

func (m OrbitViewModel) renderGrid(grid [][]rune) string {
	var b strings.Builder

	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	starStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("220")).Bold(true)
	bodyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	focusStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("229")).Bold(true)
	compassStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("60"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("249"))

	for y, row := range grid {
		for x, ch := range row {
			var style lipgloss.Style
			switch {
			case ch == ' ':
				b.WriteRune(ch)
				continue
			case ch == '·':
				style = dimStyle
			case ch == '★':
				style = starStyle
			case ch == '•':
				style = bodyStyle
			case ch == '●' || ch == '◄':
				style = focusStyle
			case y < 3 && x < 4:
				style = compassStyle
			default:
				style = labelStyle
			}
			b.WriteString(style.Render(string(ch)))
		}
		b.WriteRune('\n')
	}

	return b.String()
}

func (m OrbitViewModel) renderHUD() string {
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Width(8)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	focused := m.FocusedTrack()
	if focused != nil {
		b.WriteString(headerStyle.Render("● " + focused.Name))
		sol, err := kepler.Solve(focused.Elements, m.epoch)
		if err == nil {
			b.WriteString("  ")
			b.WriteString(labelStyle.Render("Sep:"))
			b.WriteString(valueStyle.Render(fmt.Sprintf("%.2f mas", sol.ProjectedSeparation())))
			b.WriteString("  ")
			b.WriteString(labelStyle.Render("PA:"))
			pa := unit.Angle(sol.PositionAngle()).Mod1().Deg()
			b.WriteString(valueStyle.Render(fmt.Sprintf("%.2f°", pa)))
			b.WriteString("  ")
			b.WriteString(labelStyle.Render("RV:"))
			b.WriteString(valueStyle.Render(fmt.Sprintf("%.1f m/s", sol.RadialVelocity())))
		}
	} else {
		b.WriteString(headerStyle.Render("★ Primary"))
		b.WriteString("  ")
		b.WriteString(dimStyle.Render(fmt.Sprintf("(%d orbits)", len(m.tracks))))
	}
	b.WriteString("\n")

	if focused != nil {
		b.WriteString(labelStyle.Render("Period:"))
		b.WriteString(valueStyle.Render(fmt.Sprintf("%.1f d", focused.Elements.Period())))
		b.WriteString("  ")
	}

	labelName := ""
	switch m.labelMode {
	case LabelNone:
		labelName = "off"
	case LabelFocused:
		labelName = "focus"
	case LabelAll:
		labelName = "all"
	}
	playName := "paused"
	if m.playing {
		playName = "playing"
	}

	b.WriteString(dimStyle.Render("t:"))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%.1f d", m.epoch)))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Step:"))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%.3g d", m.step)))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Zoom:"))
	b.WriteString(valueStyle.Render(fmt.Sprintf("%.2gx", m.scale())))
	b.WriteString("  ")
	b.WriteString(dimStyle.Render("Labels:"))
	b.WriteString(valueStyle.Render(labelName))
	b.WriteString("  ")
	b.WriteString(valueStyle.Render(playName))

	return b.String()
}
