// Package window hosts the particle network in an Ebitengine window.
package window

import (
	"errors"
	"fmt"
	"image/color"
	"log/slog"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/san-kum/synapse/internal/metrics"
	"github.com/san-kum/synapse/internal/render"
)

// wheelStep is one wheel notch in device-independent pixels.
const wheelStep = 100.0

var background = color.RGBA{10, 10, 10, 255}

// Game is an ebiten.Game driving a render.Loop. Layout works in device
// pixels so the loop's pixel ratio is the monitor scale factor.
type Game struct {
	Loop      *render.Loop
	Collector *metrics.Collector
	Preset    string
	Paused    bool
	ShowHUD   bool

	frames  *render.PolledFrames
	events  *render.Dispatcher
	surface *screen
	scale   float64
	cursor  [2]int
	started bool
}

func NewGame(opts render.Options, preset string, scale float64, logger *slog.Logger) *Game {
	if scale <= 0 {
		scale = 1
	}
	opts.PixelRatio = scale
	return &Game{
		Loop:      render.New(opts, logger),
		Collector: metrics.NewCollector(600),
		Preset:    preset,
		ShowHUD:   true,
		frames:    &render.PolledFrames{},
		events:    render.NewDispatcher(),
		surface:   &screen{},
		scale:     scale,
		cursor:    [2]int{-1, -1},
	}
}

// Run opens an 800×600 window and blocks until it is closed.
func Run(opts render.Options, preset string, logger *slog.Logger) error {
	ebiten.SetWindowSize(800, 600)
	ebiten.SetWindowTitle("synapse")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(60)

	g := NewGame(opts, preset, ebiten.Monitor().DeviceScaleFactor(), logger)
	defer g.Loop.Stop()
	if err := ebiten.RunGame(g); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.Paused = !g.Paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyH) {
		g.ShowHUD = !g.ShowHUD
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		w, h := g.surface.Size()
		g.events.Resize(float64(w), float64(h))
		g.Collector.Reset()
	}

	mx, my := ebiten.CursorPosition()
	if [2]int{mx, my} != g.cursor {
		g.cursor = [2]int{mx, my}
		g.events.PointerMove(float64(mx), float64(my))
	}
	if _, wheelY := ebiten.Wheel(); wheelY != 0 {
		g.events.Scroll(-wheelY * wheelStep * g.scale)
	}
	return nil
}

func (g *Game) Draw(img *ebiten.Image) {
	g.surface.img = img
	if !g.started {
		g.started = true
		g.Loop.AddObserver(g.Collector)
		g.Loop.Start(g.surface, g.frames, g.events)
	}
	if g.Paused || !g.frames.Fire(time.Now()) {
		g.Loop.Redraw()
	}
	if g.ShowHUD {
		s, _ := g.Collector.Latest()
		ebitenutil.DebugPrint(img, fmt.Sprintf(
			"%s  %.0f fps\nparticles %d  edges %d  degree %.2f\nactivity %.3f  triggers %d\nspace pause  r reseed  h hud  q quit",
			g.Preset, ebiten.ActualFPS(), s.Particles, s.Edges, s.MeanDegree, s.MeanActivity, s.Triggers))
	}
}

// Layout reports the window in device pixels and resizes the field when
// it changes.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	w := int(math.Ceil(float64(outsideWidth) * g.scale))
	h := int(math.Ceil(float64(outsideHeight) * g.scale))
	if w != g.surface.w || h != g.surface.h {
		g.surface.w, g.surface.h = w, h
		g.events.Resize(float64(w), float64(h))
	}
	return w, h
}

// screen is a render.Surface over the image ebiten hands to Draw.
type screen struct {
	img  *ebiten.Image
	w, h int
}

func (s *screen) Size() (int, int) { return s.w, s.h }

func (s *screen) Clear() {
	if s.img != nil {
		s.img.Fill(background)
	}
}

func (s *screen) StrokeLine(x0, y0, x1, y1 float64, st render.Stroke) {
	if s.img == nil || st.Alpha <= 0 {
		return
	}
	vector.StrokeLine(s.img, float32(x0), float32(y0), float32(x1), float32(y1),
		float32(math.Max(st.Width, 1)), withAlpha(st.Color, st.Alpha), true)
}

// glowRings approximates a blurred halo with stacked translucent discs.
const glowRings = 3

func (s *screen) FillCircle(x, y, r float64, f render.Fill) {
	if s.img == nil || f.Alpha <= 0 {
		return
	}
	cx, cy := float32(x), float32(y)
	if f.Glow > 0 {
		for i := glowRings; i >= 1; i-- {
			rr := r + f.Glow*float64(i)/glowRings
			vector.DrawFilledCircle(s.img, cx, cy, float32(rr), withAlpha(f.Color, f.Alpha*0.15), true)
		}
	}
	vector.DrawFilledCircle(s.img, cx, cy, float32(math.Max(r, 0.5)), withAlpha(f.Color, f.Alpha), true)
}

func withAlpha(c color.RGBA, alpha float64) color.NRGBA {
	a := math.Max(0, math.Min(1, alpha))
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(a * 255)}
}
