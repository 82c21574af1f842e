// Package experiment runs the network headless on a synthetic clock.
package experiment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/san-kum/synapse/internal/config"
	"github.com/san-kum/synapse/internal/field"
	"github.com/san-kum/synapse/internal/metrics"
	"github.com/san-kum/synapse/internal/render"
)

var ErrDisabled = errors.New("experiment: animation disabled")

type Config struct {
	Network *config.Config
	Frames  int
	Width   int
	Height  int
	// Surface receives every frame. Nil draws nothing.
	Surface render.Surface
}

type Result struct {
	Frames   []metrics.Stats
	Summary  map[string]float64
	Edges    int
	Width    float64
	Height   float64
	Elapsed  time.Duration
	Complete bool
}

type Experiment struct {
	cfg       Config
	loop      *render.Loop
	collector *metrics.Collector
}

func New(cfg Config, logger *slog.Logger) *Experiment {
	if cfg.Network == nil {
		cfg.Network = config.DefaultConfig()
	}
	if cfg.Surface == nil {
		cfg.Surface = render.Discard{Width: cfg.Width, Height: cfg.Height}
	}
	e := &Experiment{
		cfg:       cfg,
		loop:      render.New(cfg.Network.RenderOptions(), logger),
		collector: metrics.NewCollector(0),
	}
	e.loop.AddObserver(e.collector)
	return e
}

// AddObserver registers o for every simulated frame.
func (e *Experiment) AddObserver(o render.Observer) { e.loop.AddObserver(o) }

// Loop returns the underlying loop for inspection after Run.
func (e *Experiment) Loop() *render.Loop { return e.loop }

// Run simulates cfg.Frames frames of field.FrameInterval each. A cancelled
// context stops early with the frames simulated so far.
func (e *Experiment) Run(ctx context.Context) (*Result, error) {
	frames := render.NewManualFrames(field.FrameInterval)
	e.loop.Start(e.cfg.Surface, frames, nil)
	if e.loop.State() != render.Running {
		return nil, ErrDisabled
	}
	defer e.loop.Stop()

	start := time.Now()
	res := &Result{}
	for i := 0; i < e.cfg.Frames; i++ {
		if err := ctx.Err(); err != nil {
			res.finish(e, start)
			return res, fmt.Errorf("experiment: stopped after %d frames: %w", i, err)
		}
		frames.Step()
	}
	res.Complete = true
	res.finish(e, start)
	return res, nil
}

func (r *Result) finish(e *Experiment, start time.Time) {
	r.Elapsed = time.Since(start)
	r.Frames = e.collector.History()
	r.Summary = e.collector.Summary()
	r.Edges = e.loop.Graph().Len()
	r.Width, r.Height = e.loop.Viewport()
}

// FramesPerSecond is the simulated frame throughput.
func (r *Result) FramesPerSecond() float64 {
	if r.Elapsed <= 0 {
		return 0
	}
	return float64(len(r.Frames)) / r.Elapsed.Seconds()
}
