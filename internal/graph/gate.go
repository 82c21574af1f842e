package graph

import "github.com/san-kum/synapse/internal/field"

// Gate decides whether an in-range pair becomes an edge.
type Gate interface {
	Admit(a, b int, pa, pb *field.Particle, strength float64) bool
}

// Threshold admits every pair closer than the connection radius.
type Threshold struct{}

func (Threshold) Admit(a, b int, pa, pb *field.Particle, strength float64) bool { return true }

// Probabilistic thins the graph with a per-pair draw scaled by strength
// and boosted when either endpoint is a hub. The draw is a pure function
// of the seed and the pair, so a pair keeps its verdict across frames.
type Probabilistic struct {
	Seed        int64
	Probability float64
	HubBoost    float64
}

func (g Probabilistic) Admit(a, b int, pa, pb *field.Particle, strength float64) bool {
	p := strength * g.Probability
	if pa.Kind == field.Hub || pb.Kind == field.Hub {
		p *= g.HubBoost
	}
	return pairDraw(g.Seed, a, b) < p
}

// pairDraw maps (seed, a, b) to [0, 1) with a splitmix64 finaliser.
func pairDraw(seed int64, a, b int) float64 {
	x := uint64(seed) ^ (uint64(uint32(a))<<32 | uint64(uint32(b)))
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31
	return float64(x>>11) / (1 << 53)
}
