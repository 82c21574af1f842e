package render

import (
	"log/slog"
	"math"
	"math/rand"
	"time"

	"github.com/san-kum/synapse/internal/field"
	"github.com/san-kum/synapse/internal/graph"
)

type State int

const (
	Idle State = iota
	Running
)

func (s State) String() string {
	if s == Running {
		return "running"
	}
	return "idle"
}

type Options struct {
	Field          field.Options
	Graph          graph.Options
	Palette        Palette
	PixelRatio     float64
	RecomputeEvery int
	ExciteRadius   float64
	GlowRadius     float64
	LinkWidth      float64
	MaxFrameDelta  time.Duration
	Seed           int64
	Disabled       bool
}

func DefaultOptions() Options {
	return Options{
		Field:          field.DefaultOptions(),
		Graph:          graph.DefaultOptions(),
		Palette:        DefaultPalette(),
		PixelRatio:     1,
		RecomputeEvery: 1,
		ExciteRadius:   90,
		GlowRadius:     16,
		LinkWidth:      1,
		MaxFrameDelta:  100 * time.Millisecond,
	}
}

type Loop struct {
	opts   Options
	logger *slog.Logger
	rng    *rand.Rand

	state       State
	field       *field.Field
	graph       *graph.Graph
	surface     Surface
	frames      FrameSource
	cancelFrame func()
	listeners   []func()
	token       uint64

	width, height float64
	frame         int
	last          time.Time
	observers     []Observer
}

// New creates an idle loop. A nil logger discards output.
func New(opts Options, logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if opts.PixelRatio <= 0 {
		opts.PixelRatio = 1
	}
	if opts.RecomputeEvery < 1 {
		opts.RecomputeEvery = 1
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return &Loop{
		opts:   opts,
		logger: logger,
		rng:    rand.New(rand.NewSource(seed)),
		graph:  graph.New(opts.Graph),
	}
}

func (l *Loop) AddObserver(o Observer) { l.observers = append(l.observers, o) }

// SetPalette recolors subsequent frames.
func (l *Loop) SetPalette(p Palette) { l.opts.Palette = p }

func (l *Loop) State() State        { return l.state }
func (l *Loop) Field() *field.Field { return l.field }
func (l *Loop) Graph() *graph.Graph { return l.graph }
func (l *Loop) Frame() int          { return l.frame }
func (l *Loop) Options() Options    { return l.opts }

// Viewport returns the field size in device-independent pixels.
func (l *Loop) Viewport() (width, height float64) { return l.width, l.height }

// Start begins ticking on frames and drawing on surface. Without a
// surface or frame source the animation stays off and Start returns
// quietly.
func (l *Loop) Start(surface Surface, frames FrameSource, events EventSource) {
	if l.state == Running {
		return
	}
	if l.opts.Disabled {
		l.logger.Debug("animation disabled")
		return
	}
	if surface == nil || frames == nil {
		l.logger.Debug("no drawing surface, rendering nothing")
		return
	}

	l.surface = surface
	l.frames = frames
	w, h := surface.Size()
	l.setViewport(float64(w), float64(h))
	l.rebuild()

	if events != nil {
		l.listeners = append(l.listeners,
			events.OnPointerMove(l.OnPointerMove),
			events.OnScroll(l.OnScroll),
			events.OnResize(l.Resize),
		)
	}

	l.state = Running
	l.last = time.Time{}
	l.request()
	l.logger.Debug("loop started", "width", l.width, "height", l.height, "particles", l.field.Len())
}

// Stop cancels the pending frame, detaches every listener and releases
// the surface. It is safe to call repeatedly or before Start.
func (l *Loop) Stop() {
	if l.cancelFrame != nil {
		l.cancelFrame()
		l.cancelFrame = nil
	}
	l.token++
	for _, remove := range l.listeners {
		remove()
	}
	l.listeners = nil
	if l.field != nil {
		l.field.Cancel()
	}
	if l.state == Running {
		l.logger.Debug("loop stopped", "frames", l.frame)
	}
	l.surface = nil
	l.frames = nil
	l.state = Idle
}

// Resize replaces the field for a new surface size in device pixels.
// No particle survives a resize.
func (l *Loop) Resize(width, height float64) {
	l.setViewport(width, height)
	if l.field == nil && l.state == Idle {
		return
	}
	l.rebuild()
}

// OnPointerMove excites particles around a device-pixel position.
func (l *Loop) OnPointerMove(x, y float64) {
	if l.field == nil {
		return
	}
	dpr := l.opts.PixelRatio
	l.field.ExciteNear(x/dpr, y/dpr, l.opts.ExciteRadius)
}

// OnScroll applies the parallax drift for a scroll of dy device pixels.
func (l *Loop) OnScroll(dy float64) {
	if l.field == nil {
		return
	}
	l.field.Drift(dy / l.opts.PixelRatio)
}

// Redraw repaints the current state without advancing it, for hosts
// that must present every frame while paused.
func (l *Loop) Redraw() {
	if l.state != Running || l.surface == nil {
		return
	}
	l.draw()
}

func (l *Loop) setViewport(width, height float64) {
	dpr := l.opts.PixelRatio
	l.width = math.Max(0, width) / dpr
	l.height = math.Max(0, height) / dpr
}

func (l *Loop) rebuild() {
	if l.field == nil {
		l.field = field.New(l.opts.Field, l.width, l.height, l.rng)
		l.field.SetTopology(l.graph)
	} else {
		l.field.Reset(l.width, l.height)
	}
	l.graph.Recompute(l.field)
}

func (l *Loop) request() {
	l.token++
	token := l.token
	l.cancelFrame = l.frames.RequestFrame(func(now time.Time) {
		l.tick(token, now)
	})
}

func (l *Loop) tick(token uint64, now time.Time) {
	if l.state != Running || token != l.token {
		return
	}
	l.cancelFrame = nil

	dt := field.FrameInterval
	if !l.last.IsZero() {
		dt = now.Sub(l.last)
	}
	if l.opts.MaxFrameDelta > 0 && dt > l.opts.MaxFrameDelta {
		dt = l.opts.MaxFrameDelta
	}
	l.last = now

	l.field.Update(dt)
	if l.frame%l.opts.RecomputeEvery == 0 {
		l.graph.Recompute(l.field)
	}
	l.frame++
	l.draw()

	for _, o := range l.observers {
		o.OnFrame(l.field, l.graph)
	}
	if l.state == Running {
		l.request()
	}
}
