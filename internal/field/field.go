package field

import (
	"math"
	"math/rand"
	"time"

	"github.com/aquilax/go-perlin"
)

// Topology exposes the links a triggered particle propagates along.
type Topology interface {
	Neighbors(i int, fn func(j int, strength float64))
}

type Field struct {
	opts      Options
	particles []Particle
	width     float64
	height    float64
	now       time.Duration
	gen       uint64
	triggers  int
	rng       *rand.Rand
	noise     *perlin.Perlin
	topo      Topology
	sched     Scheduler
}

// New creates a field of opts.Count particles inside a width×height
// viewport. A nil rng is replaced by a time-seeded one. Refractory
// windows shorter than MinRefractory are raised to it.
func New(opts Options, width, height float64, rng *rand.Rand) *Field {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	opts.Refractory = max(opts.Refractory, MinRefractory)
	f := &Field{opts: opts, rng: rng}
	if opts.Twinkle > 0 {
		f.noise = newTwinkle(rng.Int63())
	}
	f.Reset(width, height)
	return f
}

// Reset replaces the whole population for a new viewport. Scheduled work
// of the previous generation never runs.
func (f *Field) Reset(width, height float64) {
	f.sched.CancelAll()
	f.gen++
	f.width = math.Max(0, width)
	f.height = math.Max(0, height)

	n := max(0, f.opts.Count)
	particles := make([]Particle, n)
	insetX := math.Min(f.opts.SpawnInset, f.width/2)
	insetY := math.Min(f.opts.SpawnInset, f.height/2)
	for i := range particles {
		p := &particles[i]
		p.X = insetX + f.rng.Float64()*(f.width-2*insetX)
		p.Y = insetY + f.rng.Float64()*(f.height-2*insetY)
		p.VX = (f.rng.Float64()*2 - 1) * f.opts.Speed
		p.VY = (f.rng.Float64()*2 - 1) * f.opts.Speed
		p.BaseRadius = f.opts.BaseRadius.Sample(f.rng)
		p.Radius = p.BaseRadius
		p.BaseOpacity = f.opts.Opacity.Sample(f.rng)
		p.Opacity = p.BaseOpacity
		p.Brightness = f.opts.Brightness.Sample(f.rng)
		p.Phase = f.rng.Float64() * 2 * math.Pi
		p.MaxActivity = math.Max(0, f.opts.MaxActivity.Sample(f.rng))
		p.Threshold = f.opts.Threshold.Sample(f.rng)
		p.LastTrigger = -1
		if f.rng.Float64() < f.opts.HubProbability {
			p.Kind = Hub
		}
	}
	f.particles = particles
}

func (f *Field) SetTopology(t Topology) { f.topo = t }

func (f *Field) Len() int                 { return len(f.particles) }
func (f *Field) Particle(i int) *Particle { return &f.particles[i] }
func (f *Field) Particles() []Particle    { return f.particles }
func (f *Field) Width() float64           { return f.width }
func (f *Field) Height() float64          { return f.height }
func (f *Field) Now() time.Duration       { return f.now }
func (f *Field) Generation() uint64       { return f.gen }
func (f *Field) Triggers() int            { return f.triggers }
func (f *Field) Pending() int             { return f.sched.Len() }
func (f *Field) Options() Options         { return f.opts }

// Bounds returns the rectangle particles are confined to.
func (f *Field) Bounds() (minX, minY, maxX, maxY float64) {
	mx := math.Min(math.Max(0, f.opts.BoundaryMargin), f.width/2)
	my := math.Min(math.Max(0, f.opts.BoundaryMargin), f.height/2)
	return mx, my, f.width - mx, f.height - my
}

// Cancel drops every scheduled task without touching the particles.
func (f *Field) Cancel() { f.sched.CancelAll() }

// Update advances the field by dt. A non-positive dt counts as one frame.
func (f *Field) Update(dt time.Duration) {
	if dt <= 0 {
		dt = FrameInterval
	}
	f.now += dt
	f.sched.RunDue(f.now, f.gen)

	frames := float64(dt) / float64(FrameInterval)
	decay := math.Pow(f.opts.ActivityDecay, frames)
	minX, minY, maxX, maxY := f.Bounds()

	for i := range f.particles {
		p := &f.particles[i]
		p.X += p.VX * frames
		p.Y += p.VY * frames
		p.X, p.VX = reflect(p.X, p.VX, minX, maxX, f.opts.BounceDamping)
		p.Y, p.VY = reflect(p.Y, p.VY, minY, maxY, f.opts.BounceDamping)

		p.Activity *= decay
		p.Phase += f.opts.PulseRate * frames
		f.twinkle(p)

		if p.idleFor(f.now, f.opts.Cooldown) && f.rng.Float64() < f.selfTriggerChance(p)*frames {
			f.Trigger(i)
		}
		p.Radius = pulseRadius(p.BaseRadius, p.Activity, f.opts.SizeGain, f.opts.PulseAmplitude, p.Phase)
	}
}

func (f *Field) selfTriggerChance(p *Particle) float64 {
	if p.Kind == Hub {
		return f.opts.HubTrigger
	}
	return f.opts.RegularTrigger
}

func reflect(pos, vel, lo, hi, damping float64) (float64, float64) {
	if pos < lo {
		return lo, math.Abs(vel) * damping
	}
	if pos > hi {
		return hi, -math.Abs(vel) * damping
	}
	return pos, vel
}

// Trigger fires particle i: its activity jumps to its ceiling and a
// share of it is sent along its links after a short random delay.
func (f *Field) Trigger(i int) {
	if i < 0 || i >= len(f.particles) {
		return
	}
	p := &f.particles[i]
	p.Activity = p.MaxActivity
	p.LastTrigger = f.now
	f.triggers++

	gen := f.gen
	f.sched.Schedule(f.now+f.opts.PropagationDelay.Sample(f.rng), gen, func() {
		f.propagate(i, gen)
	})
}

func (f *Field) propagate(i int, gen uint64) {
	if gen != f.gen || f.topo == nil || i >= len(f.particles) {
		return
	}
	source := f.particles[i].Activity
	f.topo.Neighbors(i, func(j int, strength float64) {
		if strength <= f.opts.PropagationMinStrength || f.rng.Float64() >= f.opts.PropagationChance {
			return
		}
		f.Receive(j, source*strength*f.opts.PropagationGain)
	})
}

// Receive adds propagated activity to particle i. Crossing the particle's
// threshold schedules a re-trigger unless it fired within the refractory
// window by the time the delay elapses.
func (f *Field) Receive(i int, amount float64) {
	if i < 0 || i >= len(f.particles) {
		return
	}
	p := &f.particles[i]
	p.addActivity(amount)
	if p.Activity <= p.Threshold {
		return
	}

	gen := f.gen
	f.sched.Schedule(f.now+f.opts.RetriggerDelay.Sample(f.rng), gen, func() {
		if gen != f.gen || i >= len(f.particles) {
			return
		}
		if f.particles[i].idleFor(f.now, f.opts.Refractory) {
			f.Trigger(i)
		}
	})
}

// ExciteNear raises the activity of particles within radius of (x, y),
// linearly falling to zero at the rim. A non-positive radius is a no-op.
func (f *Field) ExciteNear(x, y, radius float64) {
	if radius <= 0 {
		return
	}
	r2 := radius * radius
	for i := range f.particles {
		p := &f.particles[i]
		dx, dy := p.X-x, p.Y-y
		d2 := dx*dx + dy*dy
		if d2 >= r2 {
			continue
		}
		p.addActivity(f.opts.PointerGain * (1 - math.Sqrt(d2)/radius))
	}
}

// Drift shifts every particle vertically by dy scaled by the parallax
// factor, keeping them inside the bounds.
func (f *Field) Drift(dy float64) {
	shift := dy * f.opts.ScrollParallax
	if shift == 0 {
		return
	}
	_, minY, _, maxY := f.Bounds()
	for i := range f.particles {
		p := &f.particles[i]
		p.Y = math.Max(minY, math.Min(maxY, p.Y+shift))
	}
}
