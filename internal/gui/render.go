package gui

import (
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/synapse/internal/render"
)

// screen draws straight into the raylib back buffer between
// BeginDrawing and EndDrawing.
type screen struct{}

var _ render.Surface = screen{}

func (screen) Size() (int, int) {
	return rl.GetScreenWidth(), rl.GetScreenHeight()
}

func (screen) Clear() { rl.ClearBackground(ColBg) }

func (screen) StrokeLine(x0, y0, x1, y1 float64, s render.Stroke) {
	if s.Alpha <= 0 {
		return
	}
	rl.DrawLineEx(
		rl.NewVector2(float32(x0), float32(y0)),
		rl.NewVector2(float32(x1), float32(y1)),
		float32(math.Max(s.Width, 1)),
		toColor(s.Color, s.Alpha),
	)
}

func (screen) FillCircle(x, y, r float64, f render.Fill) {
	if f.Alpha <= 0 {
		return
	}
	if f.Glow > 0 {
		rl.DrawCircleGradient(int32(x), int32(y), float32(r+f.Glow),
			toColor(f.Color, f.Alpha*0.5), toColor(f.Color, 0))
	}
	rl.DrawCircleV(rl.NewVector2(float32(x), float32(y)), float32(math.Max(r, 0.5)), toColor(f.Color, f.Alpha))
}

func toColor(c color.RGBA, alpha float64) rl.Color {
	a := math.Max(0, math.Min(1, alpha))
	return rl.NewColor(c.R, c.G, c.B, uint8(a*255))
}
