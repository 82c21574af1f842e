// Package graph derives the transient proximity edges drawn between
// particles and walked by activity propagation.
package graph

import (
	"math"
	"sort"

	"github.com/san-kum/synapse/internal/field"
)

// Edge links two particles closer than the connection radius. A < B.
type Edge struct {
	A, B       int
	Distance   float64
	Strength   float64
	MaxOpacity float64
}

type Options struct {
	Radius      float64
	MaxDegree   int // 0 disables the density cap
	LinkOpacity float64
	Gate        Gate
}

func DefaultOptions() Options {
	return Options{
		Radius:      120,
		MaxDegree:   6,
		LinkOpacity: 0.35,
		Gate:        Threshold{},
	}
}

// Graph is rebuilt from scratch by every Recompute; edges are never
// carried over between recomputations.
type Graph struct {
	opts       Options
	edges      []Edge
	candidates []Edge
	adjacency  [][]int
	grid       grid
}

func New(opts Options) *Graph {
	if opts.Gate == nil {
		opts.Gate = Threshold{}
	}
	return &Graph{opts: opts}
}

func (g *Graph) Options() Options { return g.opts }

// Recompute rebuilds the edge set from the field's current positions.
func (g *Graph) Recompute(f *field.Field) {
	n := f.Len()
	g.reset(n)
	r := g.opts.Radius
	if r <= 0 || n < 2 {
		return
	}

	ps := f.Particles()
	consider := func(a, b int) {
		dx, dy := ps[a].X-ps[b].X, ps[a].Y-ps[b].Y
		d := math.Sqrt(dx*dx + dy*dy)
		if d >= r {
			return
		}
		strength := 1 - d/r
		if !g.opts.Gate.Admit(a, b, &ps[a], &ps[b], strength) {
			return
		}
		g.candidates = append(g.candidates, Edge{A: a, B: b, Distance: d, Strength: strength})
	}
	if g.grid.build(ps, f.Width(), f.Height(), r) {
		g.grid.pairs(consider)
	} else {
		naivePairs(n, consider)
	}

	sort.Slice(g.candidates, func(i, j int) bool {
		ci, cj := g.candidates[i], g.candidates[j]
		if ci.Strength != cj.Strength {
			return ci.Strength > cj.Strength
		}
		if ci.A != cj.A {
			return ci.A < cj.A
		}
		return ci.B < cj.B
	})

	limit := g.opts.MaxDegree
	for _, e := range g.candidates {
		if limit > 0 && (len(g.adjacency[e.A]) >= limit || len(g.adjacency[e.B]) >= limit) {
			continue
		}
		e.MaxOpacity = e.Strength * g.opts.LinkOpacity
		idx := len(g.edges)
		g.edges = append(g.edges, e)
		g.adjacency[e.A] = append(g.adjacency[e.A], idx)
		g.adjacency[e.B] = append(g.adjacency[e.B], idx)
	}
}

func (g *Graph) reset(n int) {
	g.edges = g.edges[:0]
	g.candidates = g.candidates[:0]
	if cap(g.adjacency) < n {
		g.adjacency = make([][]int, n)
	}
	g.adjacency = g.adjacency[:n]
	for i := range g.adjacency {
		g.adjacency[i] = g.adjacency[i][:0]
	}
}

func (g *Graph) Edges() []Edge { return g.edges }
func (g *Graph) Len() int      { return len(g.edges) }

func (g *Graph) Degree(i int) int {
	if i < 0 || i >= len(g.adjacency) {
		return 0
	}
	return len(g.adjacency[i])
}

func (g *Graph) MeanDegree() float64 {
	if len(g.adjacency) == 0 {
		return 0
	}
	return 2 * float64(len(g.edges)) / float64(len(g.adjacency))
}

// Neighbors implements field.Topology. Each call walks the edges of i in
// the outgoing direction.
func (g *Graph) Neighbors(i int, fn func(j int, strength float64)) {
	if i < 0 || i >= len(g.adjacency) {
		return
	}
	for _, idx := range g.adjacency[i] {
		e := g.edges[idx]
		j := e.B
		if j == i {
			j = e.A
		}
		fn(j, e.Strength)
	}
}
