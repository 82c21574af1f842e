package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/san-kum/synapse/internal/field"
	"github.com/san-kum/synapse/internal/graph"
	"github.com/san-kum/synapse/internal/render"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPreset           = "neural"
	DefaultParticleCount    = 80
	DefaultConnectionRadius = 120.0
	DefaultActivityDecay    = 0.92
	DefaultHubProbability   = 0.3
	DefaultExciteRadius     = 90.0
	DefaultTheme            = "mono"

	GatingThreshold     = "threshold"
	GatingProbabilistic = "probabilistic"
)

var ErrUnknownPreset = errors.New("config: unknown preset")

type Config struct {
	Preset              string  `yaml:"preset,omitempty"`
	ParticleCount       int     `yaml:"particle_count"`
	ConnectionRadius    float64 `yaml:"connection_radius"`
	MaxActivity         Range   `yaml:"max_activity"`
	ActivityDecay       float64 `yaml:"activity_decay"`
	HubProbability      float64 `yaml:"hub_probability"`
	ActivationThreshold Range   `yaml:"activation_threshold"`
	PointerExciteRadius float64 `yaml:"pointer_excite_radius"`
	Seed                int64   `yaml:"seed"`
	PixelRatio          float64 `yaml:"pixel_ratio"`
	Theme               string  `yaml:"theme"`
	Disabled            bool    `yaml:"disabled"`

	Motion      MotionConfig      `yaml:"motion"`
	Appearance  AppearanceConfig  `yaml:"appearance"`
	Triggering  TriggerConfig     `yaml:"triggering"`
	Propagation PropagationConfig `yaml:"propagation"`
	Links       LinkConfig        `yaml:"links"`
	Loop        LoopConfig        `yaml:"loop"`
}

type Range struct {
	Min float64 `yaml:"min"`
	Max float64 `yaml:"max"`
}

type DurationRange struct {
	Min time.Duration `yaml:"min"`
	Max time.Duration `yaml:"max"`
}

type MotionConfig struct {
	Speed          float64 `yaml:"speed"`
	SpawnInset     float64 `yaml:"spawn_inset"`
	BoundaryMargin float64 `yaml:"boundary_margin"`
	BounceDamping  float64 `yaml:"bounce_damping"`
	ScrollParallax float64 `yaml:"scroll_parallax"`
}

type AppearanceConfig struct {
	BaseRadius     Range   `yaml:"base_radius"`
	Opacity        Range   `yaml:"opacity"`
	Brightness     Range   `yaml:"brightness"`
	SizeGain       float64 `yaml:"size_gain"`
	PulseRate      float64 `yaml:"pulse_rate"`
	PulseAmplitude float64 `yaml:"pulse_amplitude"`
	Twinkle        float64 `yaml:"twinkle"`
	GlowRadius     float64 `yaml:"glow_radius"`
	LinkWidth      float64 `yaml:"link_width"`
}

type TriggerConfig struct {
	HubChance     float64       `yaml:"hub_chance"`
	RegularChance float64       `yaml:"regular_chance"`
	Cooldown      time.Duration `yaml:"cooldown"`
	Refractory    time.Duration `yaml:"refractory"`
	PointerGain   float64       `yaml:"pointer_gain"`
}

type PropagationConfig struct {
	Delay          DurationRange `yaml:"delay"`
	RetriggerDelay DurationRange `yaml:"retrigger_delay"`
	MinStrength    float64       `yaml:"min_strength"`
	Chance         float64       `yaml:"chance"`
	Gain           float64       `yaml:"gain"`
}

type LinkConfig struct {
	Gating      string  `yaml:"gating"`
	MaxDegree   int     `yaml:"max_degree"`
	Probability float64 `yaml:"probability"`
	HubBoost    float64 `yaml:"hub_boost"`
	Opacity     float64 `yaml:"opacity"`
}

type LoopConfig struct {
	RecomputeEvery int           `yaml:"recompute_every"`
	MaxFrameDelta  time.Duration `yaml:"max_frame_delta"`
}

// DefaultConfig returns the neural hero configuration.
func DefaultConfig() *Config {
	return &Config{
		Preset:              DefaultPreset,
		ParticleCount:       DefaultParticleCount,
		ConnectionRadius:    DefaultConnectionRadius,
		MaxActivity:         Range{Min: 0.5, Max: 1.0},
		ActivityDecay:       DefaultActivityDecay,
		HubProbability:      DefaultHubProbability,
		ActivationThreshold: Range{Min: 0.1, Max: 0.4},
		PointerExciteRadius: DefaultExciteRadius,
		PixelRatio:          1,
		Theme:               DefaultTheme,
		Motion: MotionConfig{
			Speed:          0.1,
			SpawnInset:     30,
			BoundaryMargin: 15,
			BounceDamping:  0.7,
			ScrollParallax: 0.05,
		},
		Appearance: AppearanceConfig{
			BaseRadius:     Range{Min: 0.6, Max: 1.8},
			Opacity:        Range{Min: 0.18, Max: 0.18},
			Brightness:     Range{Min: 1, Max: 1},
			SizeGain:       2,
			PulseRate:      0.08,
			PulseAmplitude: 0.2,
			GlowRadius:     16,
			LinkWidth:      1,
		},
		Triggering: TriggerConfig{
			HubChance:     0.003,
			RegularChance: 0.001,
			Cooldown:      time.Second,
			Refractory:    800 * time.Millisecond,
			PointerGain:   0.5,
		},
		Propagation: PropagationConfig{
			Delay:          DurationRange{Min: 50 * time.Millisecond, Max: 200 * time.Millisecond},
			RetriggerDelay: DurationRange{Min: 25 * time.Millisecond, Max: 125 * time.Millisecond},
			MinStrength:    0.25,
			Chance:         0.8,
			Gain:           0.6,
		},
		Links: LinkConfig{
			Gating:      GatingThreshold,
			MaxDegree:   6,
			Probability: 0.4,
			HubBoost:    1.5,
			Opacity:     0.35,
		},
		Loop: LoopConfig{
			RecomputeEvery: 1,
			MaxFrameDelta:  100 * time.Millisecond,
		},
	}
}

// Load reads a YAML file on top of the defaults. Unknown keys are errors.
func Load(path string) (*Config, error) {
	return Overlay(path, DefaultConfig())
}

// Overlay reads a YAML file on top of base, typically a preset.
func Overlay(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := Decode(data, base); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	base.Normalize()
	return base, nil
}

// Decode merges YAML data into cfg.
func Decode(data []byte, cfg *Config) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Normalize clamps every option into its valid range instead of failing:
// a negative count means an empty field, a non-positive radius means no
// connections.
func (c *Config) Normalize() {
	c.ParticleCount = max(0, c.ParticleCount)
	c.ConnectionRadius = math.Max(0, c.ConnectionRadius)
	c.PointerExciteRadius = math.Max(0, c.PointerExciteRadius)
	c.ActivityDecay = clamp01(c.ActivityDecay)
	c.HubProbability = clamp01(c.HubProbability)
	c.MaxActivity = c.MaxActivity.ordered().atLeast(0)
	c.ActivationThreshold = c.ActivationThreshold.ordered().atLeast(0)
	if c.PixelRatio <= 0 {
		c.PixelRatio = 1
	}
	if c.Theme == "" {
		c.Theme = DefaultTheme
	}

	c.Motion.Speed = math.Max(0, c.Motion.Speed)
	c.Motion.SpawnInset = math.Max(0, c.Motion.SpawnInset)
	c.Motion.BoundaryMargin = math.Max(0, c.Motion.BoundaryMargin)
	c.Motion.BounceDamping = clamp01(c.Motion.BounceDamping)

	c.Appearance.BaseRadius = c.Appearance.BaseRadius.ordered().atLeast(0)
	c.Appearance.Opacity = c.Appearance.Opacity.ordered().atLeast(0)
	c.Appearance.Brightness = c.Appearance.Brightness.ordered().atLeast(0)
	c.Appearance.GlowRadius = math.Max(0, c.Appearance.GlowRadius)
	c.Appearance.Twinkle = math.Max(0, c.Appearance.Twinkle)

	c.Triggering.HubChance = clamp01(c.Triggering.HubChance)
	c.Triggering.RegularChance = clamp01(c.Triggering.RegularChance)
	c.Triggering.PointerGain = math.Max(0, c.Triggering.PointerGain)
	c.Triggering.Refractory = max(c.Triggering.Refractory, field.MinRefractory)

	c.Propagation.Delay = c.Propagation.Delay.ordered()
	c.Propagation.RetriggerDelay = c.Propagation.RetriggerDelay.ordered()
	c.Propagation.Chance = clamp01(c.Propagation.Chance)
	c.Propagation.Gain = math.Max(0, c.Propagation.Gain)

	if c.Links.Gating != GatingProbabilistic {
		c.Links.Gating = GatingThreshold
	}
	c.Links.MaxDegree = max(0, c.Links.MaxDegree)
	c.Links.Probability = clamp01(c.Links.Probability)
	c.Links.HubBoost = math.Max(0, c.Links.HubBoost)
	c.Links.Opacity = clamp01(c.Links.Opacity)

	c.Loop.RecomputeEvery = max(1, c.Loop.RecomputeEvery)
}

// RenderOptions converts the configuration into loop options.
func (c *Config) RenderOptions() render.Options {
	opts := render.DefaultOptions()
	opts.Seed = c.Seed
	opts.PixelRatio = c.PixelRatio
	opts.Disabled = c.Disabled
	opts.ExciteRadius = c.PointerExciteRadius
	opts.GlowRadius = c.Appearance.GlowRadius
	opts.LinkWidth = c.Appearance.LinkWidth
	opts.RecomputeEvery = c.Loop.RecomputeEvery
	opts.MaxFrameDelta = c.Loop.MaxFrameDelta
	opts.Field = c.FieldOptions()
	opts.Graph = c.GraphOptions()
	return opts
}

func (c *Config) FieldOptions() field.Options {
	return field.Options{
		Count:          c.ParticleCount,
		Speed:          c.Motion.Speed,
		SpawnInset:     c.Motion.SpawnInset,
		BoundaryMargin: c.Motion.BoundaryMargin,
		BounceDamping:  c.Motion.BounceDamping,
		ScrollParallax: c.Motion.ScrollParallax,

		BaseRadius:     c.Appearance.BaseRadius.toField(),
		Opacity:        c.Appearance.Opacity.toField(),
		Brightness:     c.Appearance.Brightness.toField(),
		SizeGain:       c.Appearance.SizeGain,
		PulseRate:      c.Appearance.PulseRate,
		PulseAmplitude: c.Appearance.PulseAmplitude,
		Twinkle:        c.Appearance.Twinkle,

		MaxActivity:    c.MaxActivity.toField(),
		Threshold:      c.ActivationThreshold.toField(),
		ActivityDecay:  c.ActivityDecay,
		HubProbability: c.HubProbability,
		HubTrigger:     c.Triggering.HubChance,
		RegularTrigger: c.Triggering.RegularChance,
		Cooldown:       c.Triggering.Cooldown,
		Refractory:     c.Triggering.Refractory,
		PointerGain:    c.Triggering.PointerGain,

		PropagationDelay:       field.DurationRange(c.Propagation.Delay),
		RetriggerDelay:         field.DurationRange(c.Propagation.RetriggerDelay),
		PropagationMinStrength: c.Propagation.MinStrength,
		PropagationChance:      c.Propagation.Chance,
		PropagationGain:        c.Propagation.Gain,
	}
}

func (c *Config) GraphOptions() graph.Options {
	var gate graph.Gate = graph.Threshold{}
	if c.Links.Gating == GatingProbabilistic {
		gate = graph.Probabilistic{
			Seed:        c.Seed,
			Probability: c.Links.Probability,
			HubBoost:    c.Links.HubBoost,
		}
	}
	return graph.Options{
		Radius:      c.ConnectionRadius,
		MaxDegree:   c.Links.MaxDegree,
		LinkOpacity: c.Links.Opacity,
		Gate:        gate,
	}
}

func (r Range) ordered() Range {
	if r.Min > r.Max {
		r.Min, r.Max = r.Max, r.Min
	}
	return r
}

func (r Range) atLeast(v float64) Range {
	return Range{Min: math.Max(v, r.Min), Max: math.Max(v, r.Max)}
}

func (r Range) toField() field.Range { return field.Range{Min: r.Min, Max: r.Max} }

func (r DurationRange) ordered() DurationRange {
	if r.Min < 0 {
		r.Min = 0
	}
	if r.Max < 0 {
		r.Max = 0
	}
	if r.Min > r.Max {
		r.Min, r.Max = r.Max, r.Min
	}
	return r
}

func clamp01(v float64) float64 {
	return math.Max(0, math.Min(1, v))
}
