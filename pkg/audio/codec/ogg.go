package codec

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"
	"github.com/xaionaro-go/shiftalign/pkg/audio"
)

func decodeOggVorbis(r io.ReadSeeker) (audio.Waveform, error) {
	data, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return audio.Waveform{}, fmt.Errorf("unable to decode Ogg Vorbis: %w", err)
	}
	if format.Channels == 0 {
		return audio.Waveform{}, fmt.Errorf("the amount of channels is zero")
	}

	channels := format.Channels
	samples := make([]float64, len(data)/channels)
	for i := range samples {
		var sum float64
		for ch := 0; ch < channels; ch++ {
			sum += float64(data[i*channels+ch])
		}
		samples[i] = sum / float64(channels)
	}
	return audio.Waveform{
		Samples:    samples,
		SampleRate: audio.SampleRate(format.SampleRate),
	}, nil
}
