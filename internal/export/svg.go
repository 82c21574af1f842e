// Package export writes frames of the particle network to SVG.
package export

import (
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/san-kum/synapse/internal/render"
	"github.com/san-kum/synapse/internal/viz"
)

// SVG is a render.Surface that records the latest frame as SVG elements.
type SVG struct {
	width, height int
	background    string
	elements      []string
	filters       map[int]bool
}

var _ render.Surface = (*SVG)(nil)

func NewSVG(width, height int) *SVG {
	return &SVG{
		width:      max(0, width),
		height:     max(0, height),
		background: "#0a0a0a",
		filters:    map[int]bool{},
	}
}

// SetBackground sets the fill of the backdrop rectangle.
func (s *SVG) SetBackground(fill string) { s.background = fill }

func (s *SVG) Size() (int, int) { return s.width, s.height }

func (s *SVG) Clear() {
	s.elements = s.elements[:0]
	clear(s.filters)
}

// Elements returns how many shapes the current frame holds.
func (s *SVG) Elements() int { return len(s.elements) }

func (s *SVG) StrokeLine(x0, y0, x1, y1 float64, st render.Stroke) {
	if st.Alpha <= 0 {
		return
	}
	s.elements = append(s.elements, fmt.Sprintf(
		`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-opacity="%.3f" stroke-width="%.2f"/>`,
		x0, y0, x1, y1, hex(st.Color), math.Min(1, st.Alpha), math.Max(st.Width, 0.1)))
}

func (s *SVG) FillCircle(x, y, r float64, f render.Fill) {
	if f.Alpha <= 0 {
		return
	}
	alpha := math.Min(1, f.Alpha)
	if f.Glow > 0 {
		id := int(math.Ceil(f.Glow))
		s.filters[id] = true
		s.elements = append(s.elements, fmt.Sprintf(
			`<circle cx="%.1f" cy="%.1f" r="%.2f" fill="%s" fill-opacity="%.3f" filter="url(#glow%d)"/>`,
			x, y, r+f.Glow/2, hex(f.Color), alpha*0.6, id))
	}
	s.elements = append(s.elements, fmt.Sprintf(
		`<circle cx="%.1f" cy="%.1f" r="%.2f" fill="%s" fill-opacity="%.3f"/>`,
		x, y, r, hex(f.Color), alpha))
}

// WriteTo writes the recorded frame as a standalone SVG document.
func (s *SVG) WriteTo(w io.Writer) (int64, error) {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
`, s.width, s.height, s.width, s.height))

	if len(s.filters) > 0 {
		ids := make([]int, 0, len(s.filters))
		for id := range s.filters {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		sb.WriteString("<defs>\n")
		for _, id := range ids {
			sb.WriteString(fmt.Sprintf(
				`<filter id="glow%d" x="-100%%" y="-100%%" width="300%%" height="300%%"><feGaussianBlur stdDeviation="%.1f"/></filter>
`, id, float64(id)/2))
		}
		sb.WriteString("</defs>\n")
	}

	sb.WriteString(fmt.Sprintf(`<rect width="100%%" height="100%%" fill="%s"/>
`, s.background))
	for _, e := range s.elements {
		sb.WriteString(e)
		sb.WriteByte('\n')
	}
	sb.WriteString("</svg>\n")

	n, err := io.WriteString(w, sb.String())
	return int64(n), err
}

func (s *SVG) String() string {
	var sb strings.Builder
	s.WriteTo(&sb)
	return sb.String()
}

// WriteSVG saves the recorded frame to path.
func (s *SVG) WriteSVG(path string) error {
	return writeFile(path, s.String())
}

// CanvasToSVG converts a Braille canvas to SVG format
func CanvasToSVG(canvas *viz.Canvas, scale float64, fill string) string {
	if canvas == nil {
		return ""
	}

	width, height := canvas.Size()
	w := float64(width) * scale
	h := float64(height) * scale

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%.0f" height="%.0f" viewBox="0 0 %.0f %.0f">
<rect width="100%%" height="100%%" fill="#0a0a0a"/>
<g fill="%s">
`, w, h, w, h, fill))

	dotRadius := scale * 0.4
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !canvas.IsSet(x, y) {
				continue
			}
			cx := float64(x)*scale + scale/2
			cy := float64(y)*scale + scale/2
			sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="%.1f"/>
`, cx, cy, dotRadius))
		}
	}

	sb.WriteString("</g>\n</svg>\n")
	return sb.String()
}

func writeFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func hex(c color.RGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}
