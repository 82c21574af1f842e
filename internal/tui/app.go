// Package tui hosts the particle network in a terminal with bubbletea.
package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/synapse/internal/metrics"
	"github.com/san-kum/synapse/internal/render"
	"github.com/san-kum/synapse/internal/viz"
)

const (
	// DotRatio is braille dots per pixel: one dot stands for four pixels.
	DotRatio   = 0.25
	panelWidth = 30
	historyLen = 240
	// wheelStep is one wheel notch in device-independent pixels.
	wheelStep = 100.0
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model is the bubbletea model driving a render.Loop on a braille canvas.
type Model struct {
	loop      *render.Loop
	canvas    *viz.Canvas
	frames    *render.PolledFrames
	events    *render.Dispatcher
	collector *metrics.Collector
	logger    *slog.Logger

	preset string
	theme  viz.Theme
	paused bool
	help   bool

	width, height int
	fps           float64
	lastTick      time.Time
}

// New builds a model for opts. The loop starts immediately on a default
// 80x24 terminal and follows the real size once bubbletea reports it.
func New(opts render.Options, preset, theme string, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	t := viz.GetTheme(theme)
	opts.Palette = t.Palette()
	if opts.PixelRatio <= 0 {
		opts.PixelRatio = 1
	}
	opts.PixelRatio *= DotRatio

	m := &Model{
		loop:      render.New(opts, logger),
		frames:    &render.PolledFrames{},
		events:    render.NewDispatcher(),
		collector: metrics.NewCollector(historyLen),
		logger:    logger,
		preset:    preset,
		theme:     t,
		width:     80,
		height:    24,
	}
	m.canvas = viz.NewCanvas(m.canvasSize())
	m.loop.AddObserver(m.collector)
	m.loop.Start(m.canvas, m.frames, m.events)
	return m
}

func (m *Model) Loop() *render.Loop { return m.loop }
func (m *Model) Paused() bool       { return m.paused }
func (m *Model) Theme() viz.Theme   { return m.theme }

func (m *Model) Init() tea.Cmd { return tick() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.MouseMsg:
		m.handleMouse(msg)
		return m, nil
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil
	case tickMsg:
		now := time.Time(msg)
		if !m.lastTick.IsZero() {
			if dt := now.Sub(m.lastTick).Seconds(); dt > 0 {
				m.fps = 1.0 / dt
			}
		}
		m.lastTick = now
		if !m.paused {
			m.frames.Fire(now)
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.loop.Stop()
		return m, tea.Quit
	case " ":
		m.paused = !m.paused
	case "r":
		w, h := m.canvas.Size()
		m.events.Resize(float64(w), float64(h))
		m.collector.Reset()
	case "t":
		m.theme = viz.NextTheme(m.theme.Name)
		m.loop.SetPalette(m.theme.Palette())
	case "?":
		m.help = !m.help
	}
	return m, nil
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	dpr := m.loop.Options().PixelRatio
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.events.Scroll(-wheelStep * dpr)
		return
	case tea.MouseButtonWheelDown:
		m.events.Scroll(wheelStep * dpr)
		return
	}
	if msg.Action != tea.MouseActionMotion {
		return
	}
	if msg.X >= m.canvas.Width || msg.Y >= m.canvas.Height {
		return
	}
	// centre of the cell in braille dots
	m.events.PointerMove(float64(msg.X*2)+1, float64(msg.Y*4)+2)
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.canvas.Resize(m.canvasSize())
	w, h := m.canvas.Size()
	m.events.Resize(float64(w), float64(h))
}

func (m *Model) canvasSize() (int, int) {
	return max(10, m.width-panelWidth-1), max(4, m.height-1)
}

func (m *Model) View() string {
	art := lipgloss.NewStyle().Foreground(m.theme.Particle).Render(strings.TrimSuffix(m.canvas.String(), "\n"))
	side := m.panel()
	if m.help {
		side = m.helpPanel()
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, art, " ", side)
}

func (m *Model) panel() string {
	var b strings.Builder
	inner := panelWidth - 4

	status := viz.StatusRunning.Render("● running")
	if m.paused {
		status = viz.StatusPaused.Render("○ paused")
	}
	b.WriteString(m.theme.Title("synapse") + "  " + viz.Subtle.Render(m.preset) + "\n")
	b.WriteString(status + "\n")
	b.WriteString(viz.Separator(inner) + "\n")

	s, _ := m.collector.Latest()
	rows := []struct{ label, value string }{
		{"frame    ", fmt.Sprintf("%d", m.loop.Frame())},
		{"fps      ", fmt.Sprintf("%.0f", m.fps)},
		{"particles", fmt.Sprintf("%d (%d hubs)", s.Particles, s.Hubs)},
		{"edges    ", fmt.Sprintf("%d", s.Edges)},
		{"degree   ", fmt.Sprintf("%.2f / %d", s.MeanDegree, s.MaxDegree)},
		{"activity ", fmt.Sprintf("%.3f", s.MeanActivity)},
		{"triggers ", fmt.Sprintf("%d", s.Triggers)},
		{"pending  ", fmt.Sprintf("%d", s.Pending)},
		{"theme    ", m.theme.Name},
	}
	for _, r := range rows {
		b.WriteString(viz.Metric(r.label, r.value) + "\n")
	}

	if series := m.collector.Series("mean_activity"); len(series) > 1 {
		b.WriteString(viz.Separator(inner) + "\n")
		b.WriteString(asciigraph.Plot(series,
			asciigraph.Height(4),
			asciigraph.Width(inner-8),
			asciigraph.Precision(2),
			asciigraph.Caption("mean activity"),
		) + "\n")
	}

	b.WriteString("\n" + viz.KeyHint.Render("? help  q quit"))
	return m.theme.Panel(panelWidth).Render(b.String())
}

func (m *Model) helpPanel() string {
	var b strings.Builder
	b.WriteString(m.theme.Title("keys") + "\n\n")
	for _, k := range [][2]string{
		{"space", "pause / resume"},
		{"r    ", "reseed the field"},
		{"t    ", "cycle theme"},
		{"mouse", "excite particles"},
		{"wheel", "drift"},
		{"?    ", "close help"},
		{"q    ", "quit"},
	} {
		b.WriteString(viz.Metric(k[0], k[1]) + "\n")
	}
	return m.theme.Panel(panelWidth).Render(b.String())
}

// Run hosts m full screen until the user quits.
func Run(m *Model) error {
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion())
	_, err := p.Run()
	m.loop.Stop()
	return err
}
