package analysis

import (
	"math"
	"testing"
	"time"

	"github.com/san-kum/synapse/internal/metrics"
)

func TestDominantRhythm(t *testing.T) {
	const n = 240
	data := make([]float64, n)
	for i := range data {
		// period of 40 samples
		data[i] = 0.5 + 0.3*math.Sin(2*math.Pi*float64(i)/40)
	}

	r, ok := DominantRhythm(data, 10*time.Millisecond)
	if !ok {
		t.Fatal("expected a rhythm")
	}
	if r.Bin != n/40 {
		t.Errorf("expected bin %d, got %d", n/40, r.Bin)
	}
	if r.Period != 400*time.Millisecond {
		t.Errorf("expected 400ms period, got %v", r.Period)
	}
}

func TestDominantRhythmFlat(t *testing.T) {
	if _, ok := DominantRhythm([]float64{1, 1, 1, 1}, time.Millisecond); ok {
		t.Error("flat series has no rhythm")
	}
	if _, ok := DominantRhythm([]float64{1}, time.Millisecond); ok {
		t.Error("single sample has no rhythm")
	}
}

func TestPowerSpectrumLength(t *testing.T) {
	ps := PowerSpectrum(make([]float64, 10))
	if len(ps) != 6 {
		t.Errorf("expected 6 bins, got %d", len(ps))
	}
}

func TestWelchSpectrumPeak(t *testing.T) {
	const n = 600
	data := make([]float64, n)
	for i := range data {
		// 3 Hz at 60 samples per second
		data[i] = 0.4 + 0.2*math.Sin(2*math.Pi*3*float64(i)/60)
	}

	power, freqs := WelchSpectrum(data, time.Second/60)
	if len(power) == 0 || len(power) != len(freqs) {
		t.Fatalf("unexpected spectrum lengths %d and %d", len(power), len(freqs))
	}
	f, ok := PeakFrequency(power, freqs)
	if !ok {
		t.Fatal("expected a peak")
	}
	if math.Abs(f-3) > 0.3 {
		t.Errorf("expected peak near 3 Hz, got %.2f", f)
	}
}

func TestWelchSpectrumShort(t *testing.T) {
	if p, _ := WelchSpectrum(make([]float64, 8), time.Millisecond); p != nil {
		t.Error("short series should yield nil")
	}
	if _, ok := PeakFrequency(nil, nil); ok {
		t.Error("empty spectrum has no peak")
	}
}

func TestCascades(t *testing.T) {
	triggers := []int{0, 1, 3, 3, 4, 4, 4, 4, 4, 9, 9}
	samples := make([]metrics.Stats, len(triggers))
	for i, n := range triggers {
		samples[i] = metrics.Stats{Frame: i + 1, Triggers: n}
	}

	cs := Cascades(samples, 1)
	if len(cs) != 2 {
		t.Fatalf("expected 2 cascades, got %+v", cs)
	}
	if cs[0] != (Cascade{Start: 2, Frames: 4, Size: 4}) {
		t.Errorf("unexpected first cascade %+v", cs[0])
	}
	if cs[1] != (Cascade{Start: 10, Frames: 1, Size: 5}) {
		t.Errorf("unexpected second cascade %+v", cs[1])
	}

	best, ok := LargestCascade(cs)
	if !ok || best.Size != 5 {
		t.Errorf("expected largest cascade of 5, got %+v", best)
	}
	if _, ok := LargestCascade(nil); ok {
		t.Error("expected no cascade")
	}
}
