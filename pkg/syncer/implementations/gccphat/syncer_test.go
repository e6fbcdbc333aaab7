package gccphat

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/shiftalign/pkg/audio"
	"github.com/xaionaro-go/shiftalign/pkg/syncer"
)

const sampleRate = audio.SampleRate(44100)

func samplesToMS(samples float64) float64 {
	return 1000 * samples / float64(sampleRate)
}

func waveform(samples []float64) audio.Waveform {
	return audio.Waveform{Samples: samples, SampleRate: sampleRate}
}

func sine(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = float64(float32(math.Sin(float64(i) * 0.1)))
	}
	return s
}

func TestSyncer_CalculateShift(t *testing.T) {
	s := NewSyncer()
	ctx := context.Background()

	t.Run("ahead by 10", func(t *testing.T) {
		ref := make([]float64, 1000)
		ref[500] = 1.0

		comp := make([]float64, 1000)
		comp[490] = 1.0 // comp is ahead by 10 samples (event at 490 vs 500)

		result, err := s.CalculateShift(ctx, waveform(ref), waveform(comp))
		require.NoError(t, err)
		assert.InDelta(t, samplesToMS(10), result.ShiftMS, samplesToMS(0.5))
		assert.Greater(t, result.Confidence, 0.4)
	})

	t.Run("delayed by 10 (ahead by -10)", func(t *testing.T) {
		ref := make([]float64, 1000)
		ref[500] = 1.0

		comp := make([]float64, 1000)
		comp[510] = 1.0

		result, err := s.CalculateShift(ctx, waveform(ref), waveform(comp))
		require.NoError(t, err)
		assert.InDelta(t, samplesToMS(-10), result.ShiftMS, samplesToMS(0.5))
		assert.Greater(t, result.Confidence, 0.4)
	})

	t.Run("no shift", func(t *testing.T) {
		ref := make([]float64, 1000)
		ref[500] = 1.0

		comp := make([]float64, 1000)
		comp[500] = 1.0

		result, err := s.CalculateShift(ctx, waveform(ref), waveform(comp))
		require.NoError(t, err)
		assert.InDelta(t, 0.0, result.ShiftMS, samplesToMS(0.5))
		assert.Greater(t, result.Confidence, 0.4)
	})

	t.Run("complex signal ahead by 5", func(t *testing.T) {
		ref := sine(2000)
		comp := make([]float64, 2000)
		copy(comp, ref[5:]) // comp[0] = ref[5], so it's ahead by 5

		result, err := s.CalculateShift(ctx, waveform(ref), waveform(comp))
		require.NoError(t, err)
		assert.InDelta(t, samplesToMS(5), result.ShiftMS, samplesToMS(0.5))
		assert.Greater(t, result.Confidence, 0.4)
	})

	t.Run("max shift", func(t *testing.T) {
		ref := make([]float64, 1000)
		ref[500] = 1.0

		comp := make([]float64, 1000)
		comp[300] = 1.0

		limited := NewSyncer()
		limited.MaxShift = time.Millisecond // 44 samples
		result, err := limited.CalculateShift(ctx, waveform(ref), waveform(comp))
		require.NoError(t, err)
		assert.LessOrEqual(t, math.Abs(result.ShiftMS), 1.0+samplesToMS(1))

		result, err = s.CalculateShift(ctx, waveform(ref), waveform(comp))
		require.NoError(t, err)
		assert.InDelta(t, samplesToMS(200), result.ShiftMS, samplesToMS(0.5))
	})

	t.Run("different sample rates", func(t *testing.T) {
		_, err := s.CalculateShift(ctx, waveform(sine(100)), audio.Waveform{Samples: sine(100), SampleRate: 8000})
		assert.Error(t, err)
	})

	t.Run("silence", func(t *testing.T) {
		_, err := s.CalculateShift(ctx, waveform(make([]float64, 100)), waveform(make([]float64, 100)))
		assert.ErrorIs(t, err, syncer.ErrDegenerateInput)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := s.CalculateShift(ctx, waveform(nil), waveform(sine(100)))
		assert.ErrorIs(t, err, syncer.ErrDegenerateInput)
	})
}

func BenchmarkSyncer_CalculateShift(b *testing.B) {
	s := NewSyncer()
	ctx := context.Background()

	sizes := []int{1000, 10000, 100000}
	for _, n := range sizes {
		b.Run(fmt.Sprintf("size-%d", n), func(b *testing.B) {
			ref := sine(n)
			comp := make([]float64, n)
			copy(comp, ref[n/10:])

			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				_, err := s.CalculateShift(ctx, waveform(ref), waveform(comp))
				if err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
