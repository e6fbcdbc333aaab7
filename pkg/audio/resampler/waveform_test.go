package resampler

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xaionaro-go/shiftalign/pkg/audio"
	"github.com/xaionaro-go/shiftalign/pkg/audio/types"
)

func TestToMonoWaveform(t *testing.T) {
	data := make([]byte, 8)
	binary.LittleEndian.PutUint16(data[0:], uint16(int16(16384)))
	binary.LittleEndian.PutUint16(data[2:], uint16(int16(0)))
	neg := int16(-16384)
	binary.LittleEndian.PutUint16(data[4:], uint16(neg))
	binary.LittleEndian.PutUint16(data[6:], uint16(neg))

	w, err := ToMonoWaveform(types.PCMFormatS16LE, 2, 8000, data)
	require.NoError(t, err)
	assert.Equal(t, audio.SampleRate(8000), w.SampleRate)
	require.Len(t, w.Samples, 2)
	assert.InDelta(t, 0.25, w.Samples[0], 1e-9)
	assert.InDelta(t, -0.5, w.Samples[1], 1e-9)

	_, err = ToMonoWaveform(types.PCMFormatS16LE, 2, 8000, data[:6])
	assert.Error(t, err)
	_, err = ToMonoWaveform(types.PCMFormatS16LE, 2, 0, data)
	assert.ErrorIs(t, err, audio.ErrNoSampleRate)
}

func TestResampleWaveform(t *testing.T) {
	t.Run("SameRate", func(t *testing.T) {
		in := audio.Waveform{Samples: []float64{1, 2, 3}, SampleRate: 100}
		out, err := ResampleWaveform(in, 100)
		require.NoError(t, err)
		assert.Equal(t, in.Samples, out.Samples)
		out.Samples[0] = 42
		assert.Equal(t, 1.0, in.Samples[0])
	})

	t.Run("Upsample", func(t *testing.T) {
		in := audio.Waveform{Samples: []float64{0, 1, 2, 3}, SampleRate: 100}
		out, err := ResampleWaveform(in, 200)
		require.NoError(t, err)
		assert.Equal(t, audio.SampleRate(200), out.SampleRate)
		assert.Equal(t, []float64{0, 0.5, 1, 1.5, 2, 2.5, 3, 3}, out.Samples)
	})

	t.Run("Downsample", func(t *testing.T) {
		in := audio.Waveform{Samples: []float64{0, 1, 2, 3, 4, 5}, SampleRate: 300}
		out, err := ResampleWaveform(in, 100)
		require.NoError(t, err)
		assert.Equal(t, []float64{0, 3}, out.Samples)
	})

	t.Run("NoSampleRate", func(t *testing.T) {
		_, err := ResampleWaveform(audio.Waveform{Samples: []float64{1}}, 100)
		assert.ErrorIs(t, err, audio.ErrNoSampleRate)
	})
}
