package field

import (
	"math"

	"github.com/aquilax/go-perlin"
)

const (
	twinkleSpatial  = 0.005
	twinkleTemporal = 0.5
	minOpacity      = 0.05
)

func newTwinkle(seed int64) *perlin.Perlin {
	return perlin.NewPerlin(2, 2, 3, seed)
}

// twinkle modulates opacity around the particle's base value with
// coherent noise over position and time.
func (f *Field) twinkle(p *Particle) {
	if f.noise == nil {
		p.Opacity = p.BaseOpacity
		return
	}
	n := f.noise.Noise3D(p.X*twinkleSpatial, p.Y*twinkleSpatial, f.now.Seconds()*twinkleTemporal)
	p.Opacity = math.Max(minOpacity, math.Min(1, p.BaseOpacity+f.opts.Twinkle*n))
}
