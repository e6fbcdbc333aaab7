package resampler

import (
	"fmt"

	"github.com/xaionaro-go/shiftalign/pkg/audio"
	"github.com/xaionaro-go/shiftalign/pkg/audio/types"
)

// ToMonoWaveform decodes interleaved PCM into a mono waveform,
// averaging the channels.
func ToMonoWaveform(
	format types.PCMFormat,
	channels audio.Channel,
	sampleRate audio.SampleRate,
	data []byte,
) (audio.Waveform, error) {
	if sampleRate == 0 {
		return audio.Waveform{}, audio.ErrNoSampleRate
	}
	if channels == 0 {
		return audio.Waveform{}, fmt.Errorf("the amount of channels is zero")
	}
	sampleSize := int(format.Size())
	if sampleSize == 0 {
		return audio.Waveform{}, fmt.Errorf("unsupported PCM format: %v", format)
	}
	frameSize := sampleSize * int(channels)
	if len(data)%frameSize != 0 {
		return audio.Waveform{}, fmt.Errorf("the data length %d is not a multiple of the frame size %d", len(data), frameSize)
	}

	samples := make([]float64, len(data)/frameSize)
	for i := range samples {
		frame := data[i*frameSize:]
		var sum float64
		for ch := 0; ch < int(channels); ch++ {
			sum += SampleFromBytes(format, frame[ch*sampleSize:])
		}
		samples[i] = sum / float64(channels)
	}
	return audio.Waveform{
		Samples:    samples,
		SampleRate: sampleRate,
	}, nil
}

// ResampleWaveform changes the sample rate using linear interpolation
// between neighbouring samples. The duration is preserved up to one
// output sample.
func ResampleWaveform(
	w audio.Waveform,
	sampleRate audio.SampleRate,
) (audio.Waveform, error) {
	if err := w.Validate(); err != nil {
		return audio.Waveform{}, err
	}
	if sampleRate == 0 {
		return audio.Waveform{}, audio.ErrNoSampleRate
	}
	if sampleRate == w.SampleRate {
		return w.Clone(), nil
	}

	outLen := sampleRate.SamplesForMS(w.DurationMS())
	out := make([]float64, outLen)
	if len(w.Samples) == 0 {
		return audio.Waveform{Samples: out, SampleRate: sampleRate}, nil
	}
	ratio := float64(w.SampleRate) / float64(sampleRate)
	last := len(w.Samples) - 1
	for i := range out {
		pos := float64(i) * ratio
		idx := int(pos)
		if idx >= last {
			out[i] = w.Samples[last]
			continue
		}
		frac := pos - float64(idx)
		out[i] = (1-frac)*w.Samples[idx] + frac*w.Samples[idx+1]
	}
	return audio.Waveform{
		Samples:    out,
		SampleRate: sampleRate,
	}, nil
}
