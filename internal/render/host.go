package render

import (
	"sort"
	"time"

	"github.com/san-kum/synapse/internal/field"
	"github.com/san-kum/synapse/internal/graph"
)

// FrameSource invokes fn once, on the next presented frame. The returned
// cancel func withdraws the request.
type FrameSource interface {
	RequestFrame(fn func(now time.Time)) (cancel func())
}

// EventSource delivers host input. Each On method returns the func that
// removes the listener it added.
type EventSource interface {
	OnPointerMove(fn func(x, y float64)) (remove func())
	OnScroll(fn func(dy float64)) (remove func())
	OnResize(fn func(width, height float64)) (remove func())
}

// Observer is notified after every drawn frame.
type Observer interface {
	OnFrame(f *field.Field, g *graph.Graph)
}

// PolledFrames is a FrameSource for hosts with their own frame loop:
// the host calls Fire once per presented frame.
type PolledFrames struct {
	pending func(time.Time)
	id      uint64
}

func (p *PolledFrames) RequestFrame(fn func(now time.Time)) func() {
	p.id++
	id := p.id
	p.pending = fn
	return func() {
		if p.id == id {
			p.pending = nil
		}
	}
}

func (p *PolledFrames) Pending() bool { return p.pending != nil }

// Fire runs the pending request, if any, and reports whether one ran.
func (p *PolledFrames) Fire(now time.Time) bool {
	fn := p.pending
	if fn == nil {
		return false
	}
	p.pending = nil
	fn(now)
	return true
}

// ManualFrames is a FrameSource stepped explicitly on a synthetic clock,
// for headless runs.
type ManualFrames struct {
	PolledFrames
	now  time.Time
	step time.Duration
}

func NewManualFrames(step time.Duration) *ManualFrames {
	if step <= 0 {
		step = field.FrameInterval
	}
	return &ManualFrames{now: time.Unix(0, 0), step: step}
}

// Step advances the clock and fires the pending request, if any.
func (m *ManualFrames) Step() bool {
	if !m.Pending() {
		return false
	}
	m.now = m.now.Add(m.step)
	return m.Fire(m.now)
}

// Run steps up to n frames and returns how many fired.
func (m *ManualFrames) Run(n int) int {
	fired := 0
	for fired < n && m.Step() {
		fired++
	}
	return fired
}

// Dispatcher is an EventSource fed by a host's input polling.
type Dispatcher struct {
	next    int
	pointer map[int]func(x, y float64)
	scroll  map[int]func(dy float64)
	resize  map[int]func(w, h float64)
}

func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		pointer: make(map[int]func(x, y float64)),
		scroll:  make(map[int]func(dy float64)),
		resize:  make(map[int]func(w, h float64)),
	}
}

func (d *Dispatcher) OnPointerMove(fn func(x, y float64)) func() {
	id := d.id()
	d.pointer[id] = fn
	return func() { delete(d.pointer, id) }
}

func (d *Dispatcher) OnScroll(fn func(dy float64)) func() {
	id := d.id()
	d.scroll[id] = fn
	return func() { delete(d.scroll, id) }
}

func (d *Dispatcher) OnResize(fn func(w, h float64)) func() {
	id := d.id()
	d.resize[id] = fn
	return func() { delete(d.resize, id) }
}

func (d *Dispatcher) id() int {
	d.next++
	return d.next
}

// Listeners returns the number of attached listeners.
func (d *Dispatcher) Listeners() int {
	return len(d.pointer) + len(d.scroll) + len(d.resize)
}

func (d *Dispatcher) PointerMove(x, y float64) {
	for _, id := range sortedKeys(d.pointer) {
		if fn, ok := d.pointer[id]; ok {
			fn(x, y)
		}
	}
}

func (d *Dispatcher) Scroll(dy float64) {
	for _, id := range sortedKeys(d.scroll) {
		if fn, ok := d.scroll[id]; ok {
			fn(dy)
		}
	}
}

func (d *Dispatcher) Resize(w, h float64) {
	for _, id := range sortedKeys(d.resize) {
		if fn, ok := d.resize[id]; ok {
			fn(w, h)
		}
	}
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
