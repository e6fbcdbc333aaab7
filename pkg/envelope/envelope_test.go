package envelope

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/shiftalign/pkg/audio"
)

func TestRMS(t *testing.T) {
	t.Run("FrameCount", func(t *testing.T) {
		for _, tc := range []struct {
			numSamples int
			expected   int
		}{
			{numSamples: 0, expected: 0},
			{numSamples: 399, expected: 0},
			{numSamples: 400, expected: 1},
			{numSamples: 559, expected: 1},
			{numSamples: 560, expected: 2},
			{numSamples: 16000, expected: 98},
		} {
			w := audio.Waveform{Samples: make([]float64, tc.numSamples), SampleRate: 16000}
			env, err := RMS(w, 25*time.Millisecond, 10*time.Millisecond)
			require.NoError(t, err)
			assert.Equal(t, tc.expected, env.Len(), "numSamples: %d", tc.numSamples)
			assert.Equal(t, tc.numSamples, env.NumSamples)
			assert.Equal(t, audio.SampleRate(16000), env.SampleRate)
			assert.Equal(t, 10*time.Millisecond, env.HopLength)
		}
	})

	t.Run("Values", func(t *testing.T) {
		// 1 kHz, 4 samples per window, hop of 2 samples
		w := audio.Waveform{Samples: []float64{1, -1, 1, -1, 0, 0, 0, 0}, SampleRate: 1000}
		env, err := RMS(w, 4*time.Millisecond, 2*time.Millisecond)
		require.NoError(t, err)
		require.Equal(t, 3, env.Len())
		assert.InDelta(t, 1, env.Values[0], 1e-12)
		assert.InDelta(t, math.Sqrt(0.5), env.Values[1], 1e-12)
		assert.InDelta(t, 0, env.Values[2], 1e-12)
	})

	t.Run("SineRMS", func(t *testing.T) {
		sr := audio.SampleRate(16000)
		samples := make([]float64, int(sr))
		for i := range samples {
			samples[i] = 0.5 * math.Sin(2*math.Pi*1000*float64(i)/float64(sr))
		}
		env, err := Default(audio.Waveform{Samples: samples, SampleRate: sr})
		require.NoError(t, err)
		for _, v := range env.Values {
			assert.InDelta(t, 0.5/math.Sqrt2, v, 1e-3)
		}
	})

	t.Run("DifferentRatesShareTimeAxis", func(t *testing.T) {
		a, err := Default(audio.Waveform{Samples: make([]float64, 48000), SampleRate: 48000})
		require.NoError(t, err)
		b, err := Default(audio.Waveform{Samples: make([]float64, 8000), SampleRate: 8000})
		require.NoError(t, err)
		assert.Equal(t, a.Len(), b.Len())
	})

	t.Run("DoesNotMutateInput", func(t *testing.T) {
		samples := []float64{0.1, -0.2, 0.3, -0.4}
		_, err := RMS(audio.Waveform{Samples: samples, SampleRate: 1000}, 2*time.Millisecond, time.Millisecond)
		require.NoError(t, err)
		assert.Equal(t, []float64{0.1, -0.2, 0.3, -0.4}, samples)
	})

	t.Run("Errors", func(t *testing.T) {
		_, err := RMS(audio.Waveform{Samples: []float64{1}}, DefaultWinLength, DefaultHopLength)
		assert.ErrorIs(t, err, audio.ErrNoSampleRate)

		w := audio.Waveform{Samples: []float64{1}, SampleRate: 1000}
		_, err = RMS(w, 0, DefaultHopLength)
		assert.Error(t, err)
		_, err = RMS(w, DefaultWinLength, -time.Millisecond)
		assert.Error(t, err)
		_, err = RMS(w, DefaultWinLength, 100*time.Microsecond)
		assert.Error(t, err)
	})
}
