package codec

import (
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/mewkiz/flac"
	"github.com/xaionaro-go/shiftalign/pkg/audio"
)

func decodeFLAC(r io.ReadSeeker) (audio.Waveform, error) {
	stream, err := flac.New(r)
	if err != nil {
		return audio.Waveform{}, fmt.Errorf("unable to parse the FLAC header: %w", err)
	}
	defer stream.Close()

	info := stream.Info
	channels := int(info.NChannels)
	if channels == 0 {
		return audio.Waveform{}, fmt.Errorf("the amount of channels is zero")
	}
	scale := math.Ldexp(1, int(info.BitsPerSample)-1)

	samples := make([]float64, 0, min(info.NSamples, 1<<26))
	for {
		frame, err := stream.ParseNext()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return audio.Waveform{}, fmt.Errorf("unable to parse a FLAC frame after %d samples: %w", len(samples), err)
		}
		if len(frame.Subframes) < channels {
			return audio.Waveform{}, fmt.Errorf("a FLAC frame has %d subframes instead of %d", len(frame.Subframes), channels)
		}

		for i := 0; i < int(frame.BlockSize); i++ {
			var sum float64
			for ch := 0; ch < channels; ch++ {
				sum += float64(frame.Subframes[ch].Samples[i]) / scale
			}
			samples = append(samples, sum/float64(channels))
		}
	}

	return audio.Waveform{
		Samples:    samples,
		SampleRate: audio.SampleRate(info.SampleRate),
	}, nil
}
