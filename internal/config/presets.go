package config

import (
	"fmt"
	"sort"
)

// Presets reproduce the three animated decorations the core unifies.
var Presets = map[string]func() *Config{
	"neural":     DefaultConfig,
	"background": backgroundPreset,
	"network":    networkPreset,
}

// backgroundPreset is the full-page drifting particle layer: no hubs,
// no self-triggering, faint links, twinkling opacity.
func backgroundPreset() *Config {
	c := DefaultConfig()
	c.Preset = "background"
	c.ParticleCount = 40
	c.HubProbability = 0
	c.PointerExciteRadius = 0
	c.Motion = MotionConfig{Speed: 0.15, BounceDamping: 1, ScrollParallax: 0.05}
	c.Appearance.BaseRadius = Range{Min: 0.5, Max: 2.5}
	c.Appearance.Opacity = Range{Min: 0.1, Max: 0.5}
	c.Appearance.Brightness = Range{Min: 0.2, Max: 0.6}
	c.Appearance.Twinkle = 0.15
	c.Appearance.GlowRadius = 8
	c.Appearance.LinkWidth = 0.3
	c.Triggering.HubChance = 0
	c.Triggering.RegularChance = 0
	c.Links.Opacity = 0.2
	return c
}

// networkPreset is the plain linked-dots network: every close pair is
// linked and nothing pulses.
func networkPreset() *Config {
	c := DefaultConfig()
	c.Preset = "network"
	c.ParticleCount = 30
	c.HubProbability = 0
	c.Motion = MotionConfig{Speed: 0.5, BounceDamping: 1}
	c.Appearance.BaseRadius = Range{Min: 1, Max: 3}
	c.Appearance.Opacity = Range{Min: 1, Max: 1}
	c.Triggering.HubChance = 0
	c.Triggering.RegularChance = 0
	c.Links.MaxDegree = 0
	c.Links.Opacity = 0.4
	return c
}

// GetPreset returns a fresh copy of the named preset, or nil.
func GetPreset(name string) *Config {
	build, ok := Presets[name]
	if !ok {
		return nil
	}
	return build()
}

// Resolve returns the named preset or ErrUnknownPreset.
func Resolve(name string) (*Config, error) {
	if name == "" {
		name = DefaultPreset
	}
	cfg := GetPreset(name)
	if cfg == nil {
		return nil, fmt.Errorf("%w: %s (available: %v)", ErrUnknownPreset, name, ListPresets())
	}
	return cfg, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
