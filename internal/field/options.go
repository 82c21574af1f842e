package field

import (
	"math/rand"
	"time"
)

// FrameInterval is the nominal frame the per-frame constants are tuned for.
const FrameInterval = time.Second / 60

// MinRefractory is the shortest refractory window a field accepts, so a
// particle fires at most once per frame.
const MinRefractory = FrameInterval

// Range is a closed interval sampled uniformly.
type Range struct {
	Min, Max float64
}

func (r Range) Sample(rng *rand.Rand) float64 {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + rng.Float64()*(r.Max-r.Min)
}

// DurationRange is a closed interval of delays sampled uniformly.
type DurationRange struct {
	Min, Max time.Duration
}

func (r DurationRange) Sample(rng *rand.Rand) time.Duration {
	if r.Max <= r.Min {
		return r.Min
	}
	return r.Min + time.Duration(rng.Int63n(int64(r.Max-r.Min)+1))
}

// Options holds the physics and activity constants of a field.
type Options struct {
	Count int

	// Motion
	Speed          float64 // velocity components are sampled in [-Speed, Speed]
	SpawnInset     float64
	BoundaryMargin float64
	BounceDamping  float64
	ScrollParallax float64

	// Appearance
	BaseRadius     Range
	Opacity        Range
	Brightness     Range
	SizeGain       float64
	PulseRate      float64 // radians per frame
	PulseAmplitude float64
	Twinkle        float64 // noise amplitude applied to opacity, 0 disables

	// Activity
	MaxActivity    Range
	Threshold      Range
	ActivityDecay  float64 // multiplicative, per frame
	HubProbability float64
	HubTrigger     float64 // self-trigger chance per idle frame
	RegularTrigger float64
	Cooldown       time.Duration
	Refractory     time.Duration
	PointerGain    float64

	// Propagation
	PropagationDelay       DurationRange
	RetriggerDelay         DurationRange
	PropagationMinStrength float64
	PropagationChance      float64
	PropagationGain        float64
}

// DefaultOptions returns the constants of the neural hero decoration.
func DefaultOptions() Options {
	return Options{
		Count:          80,
		Speed:          0.1,
		SpawnInset:     30,
		BoundaryMargin: 15,
		BounceDamping:  0.7,
		ScrollParallax: 0.05,

		BaseRadius:     Range{Min: 0.6, Max: 1.8},
		Opacity:        Range{Min: 0.18, Max: 0.18},
		Brightness:     Range{Min: 1, Max: 1},
		SizeGain:       2,
		PulseRate:      0.08,
		PulseAmplitude: 0.2,

		MaxActivity:    Range{Min: 0.5, Max: 1.0},
		Threshold:      Range{Min: 0.1, Max: 0.4},
		ActivityDecay:  0.92,
		HubProbability: 0.3,
		HubTrigger:     0.003,
		RegularTrigger: 0.001,
		Cooldown:       time.Second,
		Refractory:     800 * time.Millisecond,
		PointerGain:    0.5,

		PropagationDelay:       DurationRange{Min: 50 * time.Millisecond, Max: 200 * time.Millisecond},
		RetriggerDelay:         DurationRange{Min: 25 * time.Millisecond, Max: 125 * time.Millisecond},
		PropagationMinStrength: 0.25,
		PropagationChance:      0.8,
		PropagationGain:        0.6,
	}
}
