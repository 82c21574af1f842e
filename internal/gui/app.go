// Package gui hosts the particle network in a raylib window.
package gui

import (
	"fmt"
	"log/slog"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/synapse/internal/metrics"
	"github.com/san-kum/synapse/internal/render"
)

// Theme Colors (Monochrome Hyper-Minimalist)
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)    // Deep Black
	ColText    = rl.NewColor(140, 140, 140, 255) // Neutral Gray
	ColTextDim = rl.NewColor(60, 60, 60, 255)    // Dark Gray (Subtle)
)

// wheelStep is one wheel notch in device-independent pixels.
const wheelStep = 100.0

type App struct {
	Loop      *render.Loop
	Collector *metrics.Collector
	Preset    string
	Paused    bool
	ShowHUD   bool

	frames *render.PolledFrames
	events *render.Dispatcher
	mouse  rl.Vector2
}

// initWindow opens a resizable 1280×720 window titled "synapse" at 60 FPS
// and disables the default exit key.
func initWindow() {
	rl.SetConfigFlags(rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(1280, 720, "synapse")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

func NewApp(opts render.Options, preset string, logger *slog.Logger) *App {
	return &App{
		Loop:      render.New(opts, logger),
		Collector: metrics.NewCollector(600),
		Preset:    preset,
		ShowHUD:   true,
		frames:    &render.PolledFrames{},
		events:    render.NewDispatcher(),
	}
}

// Run opens the window and blocks until it is closed.
func Run(opts render.Options, preset string, logger *slog.Logger) {
	initWindow()
	defer rl.CloseWindow()
	app := NewApp(opts, preset, logger)
	app.RunLoop()
}

func (a *App) RunLoop() {
	a.Loop.AddObserver(a.Collector)
	a.Loop.Start(screen{}, a.frames, a.events)
	defer a.Loop.Stop()

	for !rl.WindowShouldClose() {
		if a.Update() {
			return
		}
		a.Draw()
	}
}

// Update polls input and reports whether the user asked to quit.
func (a *App) Update() bool {
	if rl.IsKeyPressed(rl.KeyQ) || rl.IsKeyPressed(rl.KeyEscape) {
		return true
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		a.Paused = !a.Paused
	}
	if rl.IsKeyPressed(rl.KeyH) {
		a.ShowHUD = !a.ShowHUD
	}
	if rl.IsKeyPressed(rl.KeyR) {
		a.events.Resize(float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight()))
		a.Collector.Reset()
	}

	if rl.IsWindowResized() {
		a.events.Resize(float64(rl.GetScreenWidth()), float64(rl.GetScreenHeight()))
	}

	if pos := rl.GetMousePosition(); pos != a.mouse {
		a.mouse = pos
		a.events.PointerMove(float64(pos.X), float64(pos.Y))
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		a.events.Scroll(-float64(wheel) * wheelStep * a.Loop.Options().PixelRatio)
	}
	return false
}

func (a *App) Draw() {
	rl.BeginDrawing()
	if a.Paused || !a.frames.Fire(time.Now()) {
		a.Loop.Redraw()
	}
	if a.ShowHUD {
		a.drawHUD()
	}
	rl.EndDrawing()
}

func (a *App) drawHUD() {
	rl.DrawFPS(16, 16)

	s, _ := a.Collector.Latest()
	lines := []string{
		fmt.Sprintf("%s  frame %d", a.Preset, a.Loop.Frame()),
		fmt.Sprintf("particles %d  hubs %d", s.Particles, s.Hubs),
		fmt.Sprintf("edges %d  degree %.2f", s.Edges, s.MeanDegree),
		fmt.Sprintf("activity %.3f  triggers %d", s.MeanActivity, s.Triggers),
	}
	for i, line := range lines {
		rl.DrawText(line, 16, int32(44+i*18), 16, ColText)
	}

	hint := "space pause  r reseed  h hud  q quit"
	if a.Paused {
		hint = "paused  " + hint
	}
	rl.DrawText(hint, 16, int32(rl.GetScreenHeight()-28), 14, ColTextDim)
}
