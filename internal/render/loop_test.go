package render_test

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/synapse/internal/field"
	"github.com/san-kum/synapse/internal/graph"
	"github.com/san-kum/synapse/internal/render"
)

type recordingSurface struct {
	w, h  int
	ops   []string
	fills []render.Fill
}

func (s *recordingSurface) Size() (int, int) { return s.w, s.h }
func (s *recordingSurface) Clear()           { s.ops = append(s.ops[:0], "clear"); s.fills = s.fills[:0] }
func (s *recordingSurface) StrokeLine(x0, y0, x1, y1 float64, st render.Stroke) {
	s.ops = append(s.ops, "line")
}
func (s *recordingSurface) FillCircle(x, y, r float64, f render.Fill) {
	s.ops = append(s.ops, "circle")
	s.fills = append(s.fills, f)
}

// leakyFrames never forgets a callback, modelling a host that delivers
// a frame after it was cancelled.
type leakyFrames struct {
	callbacks []func(time.Time)
}

func (l *leakyFrames) RequestFrame(fn func(time.Time)) func() {
	l.callbacks = append(l.callbacks, fn)
	return func() {}
}

type frameCounter struct{ frames int }

func (c *frameCounter) OnFrame(*field.Field, *graph.Graph) { c.frames++ }

func testOptions() render.Options {
	opts := render.DefaultOptions()
	opts.Seed = 42
	opts.Field.Count = 30
	opts.Graph.Radius = 200
	return opts
}

var _ = Describe("Loop", func() {
	var (
		loop    *render.Loop
		surface *recordingSurface
		frames  *render.ManualFrames
		events  *render.Dispatcher
	)

	BeforeEach(func() {
		loop = render.New(testOptions(), nil)
		surface = &recordingSurface{w: 800, h: 600}
		frames = render.NewManualFrames(field.FrameInterval)
		events = render.NewDispatcher()
	})

	Describe("Start", func() {
		It("moves from Idle to Running and requests a frame", func() {
			Expect(loop.State()).To(Equal(render.Idle))
			loop.Start(surface, frames, events)
			Expect(loop.State()).To(Equal(render.Running))
			Expect(frames.Pending()).To(BeTrue())
			Expect(events.Listeners()).To(Equal(3))
			Expect(loop.Field().Len()).To(Equal(30))
		})

		It("degrades to a no-op without a surface", func() {
			Expect(func() { loop.Start(nil, frames, events) }).NotTo(Panic())
			Expect(loop.State()).To(Equal(render.Idle))
			Expect(frames.Pending()).To(BeFalse())
			Expect(events.Listeners()).To(BeZero())
		})

		It("stays idle when disabled", func() {
			opts := testOptions()
			opts.Disabled = true
			loop = render.New(opts, nil)
			loop.Start(surface, frames, events)
			Expect(loop.State()).To(Equal(render.Idle))
			Expect(surface.ops).To(BeEmpty())
		})
	})

	Describe("frames", func() {
		It("draws edges under particles", func() {
			loop.Start(surface, frames, events)
			Expect(frames.Run(5)).To(Equal(5))
			Expect(loop.Frame()).To(Equal(5))

			Expect(surface.ops[0]).To(Equal("clear"))
			seenCircle := false
			lines := 0
			for _, op := range surface.ops[1:] {
				switch op {
				case "circle":
					seenCircle = true
				case "line":
					lines++
					Expect(seenCircle).To(BeFalse(), "line drawn after a particle")
				}
			}
			Expect(lines).To(Equal(loop.Graph().Len()))
			Expect(surface.fills).To(HaveLen(30))
		})

		It("redraws without advancing", func() {
			loop.Start(surface, frames, events)
			frames.Run(2)
			now := loop.Field().Now()
			surface.ops = nil
			loop.Redraw()
			Expect(loop.Field().Now()).To(Equal(now))
			Expect(loop.Frame()).To(Equal(2))
			Expect(surface.ops).NotTo(BeEmpty())
			Expect(surface.ops[0]).To(Equal("clear"))
		})

		It("notifies observers once per frame", func() {
			counter := &frameCounter{}
			loop.AddObserver(counter)
			loop.Start(surface, frames, events)
			frames.Run(12)
			Expect(counter.frames).To(Equal(12))
		})

		It("keeps every particle inside the viewport", func() {
			loop.Start(surface, frames, events)
			frames.Run(300)
			for _, p := range loop.Field().Particles() {
				Expect(p.X).To(BeNumerically(">=", 0))
				Expect(p.X).To(BeNumerically("<=", 800))
				Expect(p.Y).To(BeNumerically(">=", 0))
				Expect(p.Y).To(BeNumerically("<=", 600))
			}
		})
	})

	Describe("Stop", func() {
		It("is idempotent and releases everything", func() {
			loop.Start(surface, frames, events)
			frames.Run(3)

			Expect(func() {
				loop.Stop()
				loop.Stop()
			}).NotTo(Panic())
			Expect(loop.State()).To(Equal(render.Idle))
			Expect(frames.Pending()).To(BeFalse())
			Expect(events.Listeners()).To(BeZero())
			Expect(loop.Field().Pending()).To(BeZero())
		})

		It("is safe before Start", func() {
			Expect(loop.Stop).NotTo(Panic())
			Expect(loop.State()).To(Equal(render.Idle))
		})

		It("ignores frames delivered after cancellation", func() {
			leaky := &leakyFrames{}
			loop.Start(surface, leaky, nil)
			Expect(leaky.callbacks).To(HaveLen(1))
			loop.Stop()

			leaky.callbacks[0](time.Now())
			Expect(loop.Frame()).To(BeZero())
			Expect(leaky.callbacks).To(HaveLen(1))
		})

		It("can be restarted", func() {
			loop.Start(surface, frames, events)
			loop.Stop()
			loop.Start(surface, frames, events)
			Expect(loop.State()).To(Equal(render.Running))
			Expect(events.Listeners()).To(Equal(3))
		})
	})

	Describe("Resize", func() {
		It("rebuilds the field while running", func() {
			loop.Start(surface, frames, events)
			frames.Run(10)
			gen := loop.Field().Generation()

			events.Resize(400, 300)
			Expect(loop.State()).To(Equal(render.Running))
			Expect(loop.Field().Generation()).To(BeNumerically(">", gen))
			Expect(loop.Field().Len()).To(Equal(30))
			for _, p := range loop.Field().Particles() {
				Expect(p.X).To(BeNumerically("<=", 400))
				Expect(p.Y).To(BeNumerically("<=", 300))
			}
		})

		It("leaves an idle loop idle", func() {
			loop.Resize(1024, 768)
			Expect(loop.State()).To(Equal(render.Idle))
			w, h := loop.Viewport()
			Expect(w).To(Equal(1024.0))
			Expect(h).To(Equal(768.0))
		})

		It("drops propagation queued before the resize", func() {
			loop.Start(surface, frames, events)
			loop.Field().Trigger(0)
			Expect(loop.Field().Pending()).To(BeNumerically(">", 0))

			loop.Resize(640, 480)
			Expect(loop.Field().Pending()).To(BeZero())
			Expect(func() { frames.Run(30) }).NotTo(Panic())
		})
	})

	Describe("input", func() {
		It("converts pointer positions by the pixel ratio", func() {
			opts := testOptions()
			opts.PixelRatio = 2
			opts.Field.HubTrigger = 0
			opts.Field.RegularTrigger = 0
			loop = render.New(opts, nil)
			loop.Start(&recordingSurface{w: 1600, h: 1200}, frames, events)

			p := loop.Field().Particle(0)
			p.X, p.Y, p.Activity = 200, 150, 0
			events.PointerMove(400, 300)
			Expect(p.Activity).To(BeNumerically(">", 0))

			q := loop.Field().Particle(1)
			q.X, q.Y, q.Activity = 700, 550, 0
			events.PointerMove(400, 300)
			Expect(q.Activity).To(BeZero())
		})

		It("drifts particles on scroll without exciting them", func() {
			opts := testOptions()
			opts.Field.HubTrigger = 0
			opts.Field.RegularTrigger = 0
			loop = render.New(opts, nil)
			loop.Start(surface, frames, events)

			p := loop.Field().Particle(0)
			p.Y, p.Activity = 300, 0
			events.Scroll(40)
			Expect(p.Y).To(BeNumerically("~", 302, 1e-9))
			Expect(p.Activity).To(BeZero())
		})
	})
})
