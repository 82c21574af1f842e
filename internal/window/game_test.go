package window

import (
	"image/color"
	"testing"

	"github.com/san-kum/synapse/internal/render"
)

func TestLayoutScalesToDevicePixels(t *testing.T) {
	g := NewGame(render.DefaultOptions(), "neural", 2, nil)
	w, h := g.Layout(400, 300)
	if w != 800 || h != 600 {
		t.Errorf("expected 800x600, got %dx%d", w, h)
	}
	if sw, sh := g.surface.Size(); sw != 800 || sh != 600 {
		t.Errorf("surface not resized: %dx%d", sw, sh)
	}
	if g.Loop.Options().PixelRatio != 2 {
		t.Errorf("expected pixel ratio 2, got %f", g.Loop.Options().PixelRatio)
	}
}

func TestLayoutResizesRunningLoop(t *testing.T) {
	opts := render.DefaultOptions()
	opts.Seed = 3
	g := NewGame(opts, "neural", 1, nil)
	g.Layout(400, 300)
	g.Loop.Start(g.surface, g.frames, g.events)

	g.Layout(600, 500)
	if w, h := g.Loop.Viewport(); w != 600 || h != 500 {
		t.Errorf("expected 600x500 viewport, got %.0fx%.0f", w, h)
	}
	g.Loop.Stop()
}

func TestScreenWithoutImage(t *testing.T) {
	s := &screen{w: 10, h: 10}
	s.Clear()
	s.StrokeLine(0, 0, 5, 5, render.Stroke{Alpha: 1})
	s.FillCircle(1, 1, 1, render.Fill{Alpha: 1, Glow: 4})
}

func TestWithAlpha(t *testing.T) {
	c := color.RGBA{R: 10, G: 20, B: 30, A: 255}
	tests := []struct {
		alpha float64
		want  uint8
	}{
		{1, 255},
		{0.5, 127},
		{-1, 0},
		{3, 255},
	}
	for _, tt := range tests {
		got := withAlpha(c, tt.alpha)
		if got.A != tt.want || got.R != 10 || got.B != 30 {
			t.Errorf("withAlpha(%v) = %v", tt.alpha, got)
		}
	}
}
