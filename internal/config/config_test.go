package config

import (
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/san-kum/synapse/internal/field"
	"github.com/san-kum/synapse/internal/graph"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Preset != "neural" {
		t.Errorf("expected preset neural, got %s", cfg.Preset)
	}
	if cfg.ParticleCount != 80 {
		t.Errorf("expected 80 particles, got %d", cfg.ParticleCount)
	}
	if cfg.ConnectionRadius != 120 {
		t.Errorf("expected radius 120, got %f", cfg.ConnectionRadius)
	}
	if cfg.ActivityDecay != 0.92 {
		t.Errorf("expected decay 0.92, got %f", cfg.ActivityDecay)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		edit  func(*Config)
		check func(*testing.T, *Config)
	}{
		{
			"negative particle count",
			func(c *Config) { c.ParticleCount = -10 },
			func(t *testing.T, c *Config) {
				if c.ParticleCount != 0 {
					t.Errorf("expected 0 particles, got %d", c.ParticleCount)
				}
			},
		},
		{
			"negative radius",
			func(c *Config) { c.ConnectionRadius = -5 },
			func(t *testing.T, c *Config) {
				if c.ConnectionRadius != 0 {
					t.Errorf("expected radius 0, got %f", c.ConnectionRadius)
				}
			},
		},
		{
			"swapped ranges",
			func(c *Config) { c.MaxActivity = Range{Min: 0.9, Max: 0.2} },
			func(t *testing.T, c *Config) {
				if c.MaxActivity.Min != 0.2 || c.MaxActivity.Max != 0.9 {
					t.Errorf("expected ordered range, got %+v", c.MaxActivity)
				}
			},
		},
		{
			"probabilities clamped",
			func(c *Config) { c.HubProbability = 3; c.ActivityDecay = -1 },
			func(t *testing.T, c *Config) {
				if c.HubProbability != 1 || c.ActivityDecay != 0 {
					t.Errorf("expected clamped values, got %f %f", c.HubProbability, c.ActivityDecay)
				}
			},
		},
		{
			"recompute interval and pixel ratio",
			func(c *Config) { c.Loop.RecomputeEvery = 0; c.PixelRatio = -2 },
			func(t *testing.T, c *Config) {
				if c.Loop.RecomputeEvery != 1 || c.PixelRatio != 1 {
					t.Errorf("expected 1 and 1, got %d %f", c.Loop.RecomputeEvery, c.PixelRatio)
				}
			},
		},
		{
			"zero refractory",
			func(c *Config) { c.Triggering.Refractory = 0 },
			func(t *testing.T, c *Config) {
				if c.Triggering.Refractory != field.MinRefractory {
					t.Errorf("expected refractory %v, got %v", field.MinRefractory, c.Triggering.Refractory)
				}
			},
		},
		{
			"unknown gating",
			func(c *Config) { c.Links.Gating = "fuzzy" },
			func(t *testing.T, c *Config) {
				if c.Links.Gating != GatingThreshold {
					t.Errorf("expected threshold gating, got %s", c.Links.Gating)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.edit(cfg)
			cfg.Normalize()
			tt.check(t, cfg)
		})
	}
}

func TestZeroDelayConfigKeepsFramesBounded(t *testing.T) {
	cfg := GetPreset("neural")
	cfg.Propagation.Delay = DurationRange{}
	cfg.Propagation.RetriggerDelay = DurationRange{}
	cfg.Triggering.Refractory = 0
	cfg.Normalize()

	opts := cfg.FieldOptions()
	opts.Count = 40
	f := field.New(opts, 200, 200, rand.New(rand.NewSource(1)))
	g := graph.New(cfg.GraphOptions())
	f.SetTopology(g)
	g.Recompute(f)
	f.Trigger(0)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			f.Update(field.FrameInterval)
			g.Recompute(f)
		}
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatalf("Update did not return, triggers=%d", f.Triggers())
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "synapse.yaml")
	data := []byte(`
particle_count: 50
connection_radius: 90
triggering:
  cooldown: 750ms
links:
  gating: probabilistic
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.ParticleCount != 50 || cfg.ConnectionRadius != 90 {
		t.Errorf("expected overrides, got %d %f", cfg.ParticleCount, cfg.ConnectionRadius)
	}
	if cfg.Triggering.Cooldown != 750*time.Millisecond {
		t.Errorf("expected 750ms cooldown, got %v", cfg.Triggering.Cooldown)
	}
	if cfg.ActivityDecay != DefaultActivityDecay {
		t.Errorf("unset keys should keep defaults, got decay %f", cfg.ActivityDecay)
	}
	if _, ok := cfg.GraphOptions().Gate.(graph.Probabilistic); !ok {
		t.Error("expected probabilistic gate")
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("particle_cuont: 3\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestLoadEmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("empty file should load defaults: %v", err)
	}
	if cfg.ParticleCount != DefaultParticleCount {
		t.Errorf("expected default count, got %d", cfg.ParticleCount)
	}
}

func TestOverlayKeepsPreset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "over.yaml")
	if err := os.WriteFile(path, []byte("connection_radius: 80\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Overlay(path, GetPreset("network"))
	if err != nil {
		t.Fatalf("overlay failed: %v", err)
	}
	if cfg.ConnectionRadius != 80 {
		t.Errorf("expected radius 80, got %f", cfg.ConnectionRadius)
	}
	if cfg.ParticleCount != 30 || cfg.Preset != "network" {
		t.Errorf("expected network preset values to survive, got %d %q", cfg.ParticleCount, cfg.Preset)
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected wrapped not-exist error, got %v", err)
	}
}

func TestGetPreset(t *testing.T) {
	cfg := GetPreset("background")
	if cfg == nil {
		t.Fatal("expected preset, got nil")
	}
	if cfg.ParticleCount != 40 {
		t.Errorf("expected 40 particles, got %d", cfg.ParticleCount)
	}

	cfg.ParticleCount = 1
	if GetPreset("background").ParticleCount != 40 {
		t.Error("presets must be returned as copies")
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if cfg := GetPreset("nonexistent"); cfg != nil {
		t.Error("expected nil for nonexistent preset")
	}
	if _, err := Resolve("nonexistent"); !errors.Is(err, ErrUnknownPreset) {
		t.Errorf("expected ErrUnknownPreset, got %v", err)
	}
}

func TestListPresets(t *testing.T) {
	presets := ListPresets()
	if len(presets) != 3 {
		t.Fatalf("expected 3 presets, got %v", presets)
	}
	if presets[0] != "background" {
		t.Errorf("expected sorted names, got %v", presets)
	}
}

func TestRenderOptions(t *testing.T) {
	cfg := DefaultConfig()
	cfg.ParticleCount = 12
	cfg.PixelRatio = 2
	opts := cfg.RenderOptions()

	if opts.Field.Count != 12 {
		t.Errorf("expected 12 particles, got %d", opts.Field.Count)
	}
	if opts.PixelRatio != 2 {
		t.Errorf("expected pixel ratio 2, got %f", opts.PixelRatio)
	}
	if opts.Graph.Radius != cfg.ConnectionRadius {
		t.Errorf("expected radius %f, got %f", cfg.ConnectionRadius, opts.Graph.Radius)
	}
	if opts.Field.PropagationDelay.Max != 200*time.Millisecond {
		t.Errorf("expected 200ms delay ceiling, got %v", opts.Field.PropagationDelay.Max)
	}
}
