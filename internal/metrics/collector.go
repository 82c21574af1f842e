// Package metrics samples the particle network once per frame.
package metrics

import (
	"math"
	"sort"

	"github.com/san-kum/synapse/internal/field"
	"github.com/san-kum/synapse/internal/graph"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Stats is one frame's sample. The csv tags are the frames.csv columns.
// Triggers counts every trigger over the field's life; Fired counts the
// ones since the previous sample.
type Stats struct {
	Frame          int     `csv:"frame" json:"frame"`
	TimeMs         float64 `csv:"time_ms" json:"time_ms"`
	Particles      int     `csv:"particles" json:"particles"`
	Hubs           int     `csv:"hubs" json:"hubs"`
	Edges          int     `csv:"edges" json:"edges"`
	MeanDegree     float64 `csv:"mean_degree" json:"mean_degree"`
	MaxDegree      int     `csv:"max_degree" json:"max_degree"`
	MeanActivity   float64 `csv:"mean_activity" json:"mean_activity"`
	PeakActivity   float64 `csv:"peak_activity" json:"peak_activity"`
	ActivityStdDev float64 `csv:"activity_stddev" json:"activity_stddev"`
	Triggers       int     `csv:"triggers" json:"triggers"`
	Fired          int     `csv:"fired" json:"fired"`
	Pending        int     `csv:"pending" json:"pending"`
}

var series = map[string]func(Stats) float64{
	"time_ms":         func(s Stats) float64 { return s.TimeMs },
	"particles":       func(s Stats) float64 { return float64(s.Particles) },
	"hubs":            func(s Stats) float64 { return float64(s.Hubs) },
	"edges":           func(s Stats) float64 { return float64(s.Edges) },
	"mean_degree":     func(s Stats) float64 { return s.MeanDegree },
	"max_degree":      func(s Stats) float64 { return float64(s.MaxDegree) },
	"mean_activity":   func(s Stats) float64 { return s.MeanActivity },
	"peak_activity":   func(s Stats) float64 { return s.PeakActivity },
	"activity_stddev": func(s Stats) float64 { return s.ActivityStdDev },
	"triggers":        func(s Stats) float64 { return float64(s.Triggers) },
	"fired":           func(s Stats) float64 { return float64(s.Fired) },
	"pending":         func(s Stats) float64 { return float64(s.Pending) },
}

// SeriesNames lists the names accepted by Series, sorted.
func SeriesNames() []string {
	names := make([]string, 0, len(series))
	for name := range series {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Measure samples f and g without recording anything.
func Measure(frame int, f *field.Field, g *graph.Graph) Stats {
	s := Stats{
		Frame:     frame,
		TimeMs:    float64(f.Now().Microseconds()) / 1000,
		Particles: f.Len(),
		Edges:     g.Len(),
		Triggers:  f.Triggers(),
		Pending:   f.Pending(),
	}
	if s.Particles == 0 {
		return s
	}
	s.MeanDegree = g.MeanDegree()

	activity := make([]float64, s.Particles)
	for i, p := range f.Particles() {
		activity[i] = p.Activity
		if p.Kind == field.Hub {
			s.Hubs++
		}
		s.MaxDegree = max(s.MaxDegree, g.Degree(i))
	}
	mean, variance := stat.PopMeanVariance(activity, nil)
	s.MeanActivity = mean
	s.ActivityStdDev = math.Sqrt(variance)
	s.PeakActivity = floats.Max(activity)
	return s
}

// Collector is a render.Observer keeping the most recent samples.
type Collector struct {
	name     string
	limit    int
	frame    int
	triggers int
	history  []Stats
}

// NewCollector keeps at most limit samples. limit <= 0 keeps all of them.
func NewCollector(limit int) *Collector {
	return &Collector{name: "frames", limit: limit}
}

func (c *Collector) Name() string { return c.name }

func (c *Collector) OnFrame(f *field.Field, g *graph.Graph) {
	c.frame++
	s := Measure(c.frame, f, g)
	if s.Triggers < c.triggers {
		// a new field counts from zero
		c.triggers = 0
	}
	s.Fired = s.Triggers - c.triggers
	c.triggers = s.Triggers
	c.history = append(c.history, s)
	if c.limit > 0 && len(c.history) > c.limit {
		c.history = c.history[len(c.history)-c.limit:]
	}
}

func (c *Collector) Len() int { return len(c.history) }

// Latest returns the newest sample.
func (c *Collector) Latest() (Stats, bool) {
	if len(c.history) == 0 {
		return Stats{}, false
	}
	return c.history[len(c.history)-1], true
}

// History returns a copy of the recorded samples, oldest first.
func (c *Collector) History() []Stats {
	return append([]Stats(nil), c.history...)
}

// Series extracts one column of the history, or nil for an unknown name.
func (c *Collector) Series(name string) []float64 {
	return Series(c.history, name)
}

// Series extracts one column from samples.
func Series(samples []Stats, name string) []float64 {
	get, ok := series[name]
	if !ok {
		return nil
	}
	out := make([]float64, len(samples))
	for i, s := range samples {
		out[i] = get(s)
	}
	return out
}

// Summary reduces the history to run-level figures.
func (c *Collector) Summary() map[string]float64 {
	return Summarize(c.history)
}

// Summarize reduces samples to run-level figures.
func Summarize(samples []Stats) map[string]float64 {
	out := map[string]float64{"frames": float64(len(samples))}
	if len(samples) == 0 {
		return out
	}
	out["mean_activity"] = stat.Mean(Series(samples, "mean_activity"), nil)
	out["peak_activity"] = floats.Max(Series(samples, "peak_activity"))
	out["mean_edges"] = stat.Mean(Series(samples, "edges"), nil)
	out["mean_degree"] = stat.Mean(Series(samples, "mean_degree"), nil)
	out["max_pending"] = floats.Max(Series(samples, "pending"))
	out["triggers"] = floats.Sum(Series(samples, "fired"))
	return out
}

func (c *Collector) Reset() {
	c.frame = 0
	c.history = nil
}
