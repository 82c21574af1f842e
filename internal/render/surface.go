package render

import "image/color"

// Stroke styles a line.
type Stroke struct {
	Color color.RGBA
	Alpha float64
	Width float64
}

// Fill styles a filled circle. Glow is the blur radius in device pixels.
type Fill struct {
	Color color.RGBA
	Alpha float64
	Glow  float64
}

// Surface is the drawing boundary. Coordinates are device pixels.
type Surface interface {
	Size() (width, height int)
	Clear()
	StrokeLine(x0, y0, x1, y1 float64, s Stroke)
	FillCircle(x, y, r float64, f Fill)
}

// Palette colors the drawing.
type Palette struct {
	Particle color.RGBA
	Hub      color.RGBA
	Link     color.RGBA
}

func DefaultPalette() Palette {
	white := color.RGBA{R: 255, G: 255, B: 255, A: 255}
	return Palette{Particle: white, Hub: white, Link: white}
}

func shade(c color.RGBA, brightness float64) color.RGBA {
	if brightness >= 1 {
		return c
	}
	if brightness < 0 {
		brightness = 0
	}
	return color.RGBA{
		R: uint8(float64(c.R) * brightness),
		G: uint8(float64(c.G) * brightness),
		B: uint8(float64(c.B) * brightness),
		A: c.A,
	}
}

// Discard is a Surface of a fixed size that draws nothing, for headless
// runs that only need the simulation.
type Discard struct {
	Width, Height int
}

func (d Discard) Size() (int, int)                          { return d.Width, d.Height }
func (Discard) Clear()                                      {}
func (Discard) StrokeLine(x0, y0, x1, y1 float64, s Stroke) {}
func (Discard) FillCircle(x, y, r float64, f Fill)          {}
