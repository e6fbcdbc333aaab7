package audio

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWaveformDuration(t *testing.T) {
	w := Waveform{Samples: make([]float64, 24000), SampleRate: 16000}
	assert.Equal(t, 1500*time.Millisecond, w.Duration())
	assert.Equal(t, 1500.0, w.DurationMS())

	t.Run("NoSampleRate", func(t *testing.T) {
		var zero Waveform
		assert.Zero(t, zero.Duration())
		assert.Zero(t, zero.DurationMS())
		assert.Equal(t, "0 samples @ 0Hz (0s)", zero.String())

		noRate := Waveform{Samples: make([]float64, 10)}
		assert.Zero(t, noRate.Duration())
		assert.Zero(t, noRate.DurationMS())
	})
}

func TestWaveformClone(t *testing.T) {
	w := Waveform{Samples: []float64{1, 2}, SampleRate: 8000}
	c := w.Clone()
	c.Samples[0] = 5
	assert.Equal(t, 1.0, w.Samples[0])
	assert.Nil(t, Waveform{}.Clone().Samples)
	assert.NotNil(t, Waveform{Samples: []float64{}}.Clone().Samples)
}
