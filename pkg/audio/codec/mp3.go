package codec

import (
	"fmt"
	"io"

	"github.com/hajimehoshi/go-mp3"
	"github.com/xaionaro-go/shiftalign/pkg/audio"
	"github.com/xaionaro-go/shiftalign/pkg/audio/resampler"
)

// the MP3 decoder always outputs interleaved 16-bit stereo
const (
	mp3Channels  = 2
	mp3PCMFormat = audio.PCMFormatS16LE
)

func decodeMP3(r io.ReadSeeker) (audio.Waveform, error) {
	d, err := mp3.NewDecoder(r)
	if err != nil {
		return audio.Waveform{}, fmt.Errorf("unable to initialize the MP3 decoder: %w", err)
	}

	pcm, err := io.ReadAll(d)
	if err != nil {
		return audio.Waveform{}, fmt.Errorf("unable to decode MP3: %w", err)
	}

	frameSize := int(mp3PCMFormat.Size()) * mp3Channels
	pcm = pcm[:len(pcm)/frameSize*frameSize]
	return resampler.ToMonoWaveform(mp3PCMFormat, mp3Channels, audio.SampleRate(d.SampleRate()), pcm)
}
