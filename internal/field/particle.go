package field

import (
	"math"
	"time"
)

type Kind int

const (
	Regular Kind = iota
	Hub
)

func (k Kind) String() string {
	if k == Hub {
		return "hub"
	}
	return "regular"
}

// Particle is one animated point. Positions are in device-independent
// pixels of the field's viewport.
type Particle struct {
	X, Y   float64
	VX, VY float64

	BaseRadius  float64
	Radius      float64
	BaseOpacity float64
	Opacity     float64
	Brightness  float64
	Phase       float64

	Activity    float64
	MaxActivity float64
	Threshold   float64
	Kind        Kind

	// LastTrigger is the field time of the last trigger, negative if never.
	LastTrigger time.Duration
}

// Glow is the activity normalised to the particle's ceiling.
func (p *Particle) Glow() float64 {
	if p.MaxActivity <= 0 {
		return 0
	}
	return p.Activity / p.MaxActivity
}

func (p *Particle) addActivity(amount float64) {
	if amount <= 0 {
		return
	}
	p.Activity = math.Min(p.MaxActivity, p.Activity+amount)
}

func (p *Particle) idleFor(now, window time.Duration) bool {
	return p.LastTrigger < 0 || now-p.LastTrigger >= window
}

func pulseRadius(base, activity, gain, amplitude, phase float64) float64 {
	return base + activity*gain*(1+amplitude*math.Sin(phase))
}
