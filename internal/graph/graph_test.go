package graph

import (
	"math"
	"math/rand"
	"testing"

	"github.com/san-kum/synapse/internal/field"
)

func newField(t *testing.T, count int, w, h float64, seed int64) *field.Field {
	t.Helper()
	opts := field.DefaultOptions()
	opts.Count = count
	return field.New(opts, w, h, rand.New(rand.NewSource(seed)))
}

func TestRecomputeSingleClosePair(t *testing.T) {
	f := newField(t, 10, 20000, 20000, 1)
	for i := 0; i < f.Len(); i++ {
		p := f.Particle(i)
		p.X, p.Y = 1500*float64(i+1), 10000
	}
	f.Particle(0).X, f.Particle(0).Y = 100, 100
	f.Particle(1).X, f.Particle(1).Y = 110, 100

	g := New(Options{Radius: 50, Gate: Threshold{}})
	g.Recompute(f)

	if g.Len() != 1 {
		t.Fatalf("expected exactly 1 edge, got %d", g.Len())
	}
	e := g.Edges()[0]
	if e.A != 0 || e.B != 1 {
		t.Errorf("expected edge 0-1, got %d-%d", e.A, e.B)
	}
	if math.Abs(e.Strength-0.8) > 1e-12 {
		t.Errorf("expected strength 0.8, got %f", e.Strength)
	}
}

func TestRecomputeProximityInvariant(t *testing.T) {
	gates := map[string]Gate{
		"threshold":     Threshold{},
		"probabilistic": Probabilistic{Seed: 42, Probability: 0.4, HubBoost: 1.5},
	}
	for name, gate := range gates {
		t.Run(name, func(t *testing.T) {
			f := newField(t, 80, 800, 600, 3)
			g := New(Options{Radius: 120, MaxDegree: 6, LinkOpacity: 0.5, Gate: gate})
			for step := 0; step < 100; step++ {
				f.Update(field.FrameInterval)
				g.Recompute(f)
				for _, e := range g.Edges() {
					a, b := f.Particle(e.A), f.Particle(e.B)
					d := math.Hypot(a.X-b.X, a.Y-b.Y)
					if d >= 120 {
						t.Fatalf("edge %d-%d spans %f >= radius", e.A, e.B, d)
					}
					if math.Abs(e.MaxOpacity-e.Strength*0.5) > 1e-12 {
						t.Fatalf("edge opacity %f does not follow strength %f", e.MaxOpacity, e.Strength)
					}
				}
			}
		})
	}
}

func TestRecomputeDeterministic(t *testing.T) {
	gate := Probabilistic{Seed: 7, Probability: 0.4, HubBoost: 1.5}
	f := newField(t, 60, 800, 600, 5)

	g1 := New(Options{Radius: 150, Gate: gate})
	g2 := New(Options{Radius: 150, Gate: gate})
	g1.Recompute(f)
	g2.Recompute(f)
	g2.Recompute(f)

	if g1.Len() != g2.Len() {
		t.Fatalf("edge counts differ: %d vs %d", g1.Len(), g2.Len())
	}
	for i := range g1.Edges() {
		if g1.Edges()[i] != g2.Edges()[i] {
			t.Errorf("edge %d differs: %+v vs %+v", i, g1.Edges()[i], g2.Edges()[i])
		}
	}
}

func TestGridMatchesPairwiseScan(t *testing.T) {
	f := newField(t, 100, 1000, 800, 9)
	g := New(Options{Radius: 90})
	g.Recompute(f)

	expected := 0
	naivePairs(f.Len(), func(a, b int) {
		pa, pb := f.Particle(a), f.Particle(b)
		if math.Hypot(pa.X-pb.X, pa.Y-pb.Y) < 90 {
			expected++
		}
	})
	if g.Len() != expected {
		t.Errorf("grid found %d edges, pairwise scan %d", g.Len(), expected)
	}
}

func TestDegreeCap(t *testing.T) {
	f := newField(t, 50, 100, 100, 2)
	g := New(Options{Radius: 500, MaxDegree: 6})
	g.Recompute(f)

	for i := 0; i < f.Len(); i++ {
		if d := g.Degree(i); d > 6 {
			t.Errorf("particle %d has degree %d", i, d)
		}
	}
	if g.MeanDegree() > 6 {
		t.Errorf("mean degree %f above cap", g.MeanDegree())
	}
	if g.Len() == 0 {
		t.Error("expected a connected cluster")
	}
}

func TestNonPositiveRadius(t *testing.T) {
	f := newField(t, 20, 100, 100, 2)
	for _, r := range []float64{0, -10} {
		g := New(Options{Radius: r})
		g.Recompute(f)
		if g.Len() != 0 {
			t.Errorf("radius %f: expected no edges, got %d", r, g.Len())
		}
	}
}

func TestNeighborsBothDirections(t *testing.T) {
	f := newField(t, 3, 1000, 1000, 1)
	f.Particle(0).X, f.Particle(0).Y = 100, 100
	f.Particle(1).X, f.Particle(1).Y = 130, 100
	f.Particle(2).X, f.Particle(2).Y = 900, 900

	g := New(Options{Radius: 60})
	g.Recompute(f)

	var from0, from1, from2 []int
	g.Neighbors(0, func(j int, _ float64) { from0 = append(from0, j) })
	g.Neighbors(1, func(j int, _ float64) { from1 = append(from1, j) })
	g.Neighbors(2, func(j int, _ float64) { from2 = append(from2, j) })

	if len(from0) != 1 || from0[0] != 1 {
		t.Errorf("expected 0 -> 1, got %v", from0)
	}
	if len(from1) != 1 || from1[0] != 0 {
		t.Errorf("expected 1 -> 0, got %v", from1)
	}
	if len(from2) != 0 {
		t.Errorf("expected isolated particle, got %v", from2)
	}
}

func TestPairDrawRange(t *testing.T) {
	for a := 0; a < 50; a++ {
		for b := a + 1; b < 50; b++ {
			v := pairDraw(99, a, b)
			if v < 0 || v >= 1 {
				t.Fatalf("draw %f out of [0,1)", v)
			}
		}
	}
	if pairDraw(1, 2, 3) != pairDraw(1, 2, 3) {
		t.Error("draw must be stable")
	}
}
