package sensor

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sine(freq, rate float64, n int, offset float64) Series {
	s := Series{Name: "acc", Times: make([]float64, n), Values: make([]float64, n)}
	for i := range n {
		t := float64(i) / rate
		s.Times[i] = t
		s.Values[i] = offset + 3*math.Sin(2*math.Pi*freq*t)
	}
	return s
}

func TestSpectrumDominant(t *testing.T) {
	sp, err := sine(5, 100, 100, 7).Spectrum()
	require.NoError(t, err)

	assert.InDelta(t, 100, sp.Rate, 1e-9)
	require.Len(t, sp.Freqs, 51)
	assert.InDelta(t, 50, sp.Freqs[50], 1e-9)

	freq, amp := sp.Dominant()
	assert.InDelta(t, 5, freq, 1e-9)
	assert.InDelta(t, 3, amp, 1e-6)
	assert.InDelta(t, 0, sp.Amplitude[0], 1e-9, "mean removed")
}

func TestSpectrumErrors(t *testing.T) {
	_, err := Series{Times: []float64{0, 1}, Values: []float64{1, 2}}.Spectrum()
	assert.ErrorIs(t, err, ErrTooShort)

	_, err = Series{Times: []float64{0, 0, 0, 0}, Values: []float64{1, 2, 3, 4}}.Spectrum()
	assert.ErrorIs(t, err, ErrBadTimeSteps)
}
