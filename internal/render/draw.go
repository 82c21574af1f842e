package render

import "github.com/san-kum/synapse/internal/field"

func (l *Loop) draw() {
	s := l.surface
	dpr := l.opts.PixelRatio
	pal := l.opts.Palette
	s.Clear()

	for _, e := range l.graph.Edges() {
		a, b := l.field.Particle(e.A), l.field.Particle(e.B)
		s.StrokeLine(a.X*dpr, a.Y*dpr, b.X*dpr, b.Y*dpr, Stroke{
			Color: pal.Link,
			Alpha: e.MaxOpacity,
			Width: l.opts.LinkWidth * dpr,
		})
	}

	ps := l.field.Particles()
	for i := range ps {
		p := &ps[i]
		glow := p.Glow()
		c := pal.Particle
		if p.Kind == field.Hub {
			c = pal.Hub
		}
		s.FillCircle(p.X*dpr, p.Y*dpr, p.Radius*dpr, Fill{
			Color: shade(c, p.Brightness),
			Alpha: p.Opacity + (1-p.Opacity)*glow,
			Glow:  glow * l.opts.GlowRadius * dpr,
		})
	}
}
