package sensor

import (
	"errors"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var (
	ErrTooShort     = errors.New("sensor: series too short for a spectrum")
	ErrBadTimeSteps = errors.New("sensor: time axis is not increasing")
)

// minSpectrumSamples is the shortest series a spectrum is computed for.
const minSpectrumSamples = 4

// Spectrum is the one-sided amplitude spectrum of a series.
type Spectrum struct {
	// Rate is the sample rate in samples per time unit.
	Rate      float64
	Freqs     []float64
	Amplitude []float64
}

// Spectrum computes the amplitude spectrum of s after removing its mean. The
// sample rate comes from the mean spacing of the time axis.
func (s Series) Spectrum() (Spectrum, error) {
	n := len(s.Values)
	if n < minSpectrumSamples || len(s.Times) != n {
		return Spectrum{}, ErrTooShort
	}
	dt := (s.Times[n-1] - s.Times[0]) / float64(n-1)
	if dt <= 0 {
		return Spectrum{}, ErrBadTimeSteps
	}

	mean := s.Stats().Mean
	x := make([]float64, n)
	for i, v := range s.Values {
		x[i] = v - mean
	}

	coeffs := fft.FFTReal(x)
	half := n/2 + 1
	sp := Spectrum{
		Rate:      1 / dt,
		Freqs:     make([]float64, half),
		Amplitude: make([]float64, half),
	}
	for k := range half {
		sp.Freqs[k] = float64(k) / (float64(n) * dt)
		sp.Amplitude[k] = 2 * cmplx.Abs(coeffs[k]) / float64(n)
	}
	return sp, nil
}

// Dominant returns the frequency with the largest amplitude, ignoring DC.
func (sp Spectrum) Dominant() (freq, amplitude float64) {
	for k := 1; k < len(sp.Amplitude); k++ {
		if sp.Amplitude[k] > amplitude {
			freq, amplitude = sp.Freqs[k], sp.Amplitude[k]
		}
	}
	return freq, amplitude
}
