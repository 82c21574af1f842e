package analysis

import (
	"math/cmplx"
	"time"

	"github.com/mjibson/go-dsp/spectral"
	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/stat"
)

// PowerSpectrum returns the magnitude of every non-negative frequency bin
// of data with its mean removed.
func PowerSpectrum(data []float64) []float64 {
	if len(data) < 2 {
		return nil
	}
	mean := stat.Mean(data, nil)
	centred := make([]float64, len(data))
	for i, v := range data {
		centred[i] = v - mean
	}

	fft := fourier.NewFFT(len(centred))
	coeff := fft.Coefficients(nil, centred)
	ps := make([]float64, len(coeff))
	for i, c := range coeff {
		ps[i] = cmplx.Abs(c)
	}
	return ps
}

// Rhythm is the strongest periodic component of a series.
type Rhythm struct {
	Bin    int
	Period time.Duration
	Power  float64
}

// DominantRhythm finds the strongest non-constant bin of data sampled
// every step. ok is false for series too short or entirely flat.
func DominantRhythm(data []float64, step time.Duration) (r Rhythm, ok bool) {
	ps := PowerSpectrum(data)
	for i := 1; i < len(ps); i++ {
		if ps[i] > r.Power {
			r = Rhythm{Bin: i, Power: ps[i]}
		}
	}
	if r.Bin == 0 {
		return Rhythm{}, false
	}
	r.Period = time.Duration(float64(step) * float64(len(data)) / float64(r.Bin))
	return r, true
}

// WelchSpectrum estimates the power spectral density of data sampled every
// step by averaging Hann-windowed segments that overlap by half. freqs is
// in hertz. Series shorter than 16 samples yield nil.
func WelchSpectrum(data []float64, step time.Duration) (power, freqs []float64) {
	if len(data) < 16 || step <= 0 {
		return nil, nil
	}
	nfft := 16
	for nfft*2 <= len(data) && nfft < 256 {
		nfft *= 2
	}
	mean := stat.Mean(data, nil)
	centred := make([]float64, len(data))
	for i, v := range data {
		centred[i] = v - mean
	}
	return spectral.Pwelch(centred, float64(time.Second)/float64(step), &spectral.PwelchOptions{
		NFFT:     nfft,
		Noverlap: nfft / 2,
		Window:   window.Hann,
	})
}

// PeakFrequency returns the frequency of the strongest non-DC bin.
func PeakFrequency(power, freqs []float64) (float64, bool) {
	n := min(len(power), len(freqs))
	if n < 2 {
		return 0, false
	}
	best := 1
	for i := 2; i < n; i++ {
		if power[i] > power[best] {
			best = i
		}
	}
	if power[best] == 0 {
		return 0, false
	}
	return freqs[best], true
}
