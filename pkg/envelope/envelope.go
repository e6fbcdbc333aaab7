// Package envelope extracts coarse loudness-over-time signals from
// waveforms.
//
// An envelope keeps one RMS value per analysis frame. Window and hop are
// given as durations and converted to samples with the waveform's own
// sample rate, so envelopes of recordings with different sample rates
// share a common time axis as long as they use the same hop.
package envelope

import (
	"fmt"
	"math"
	"time"

	"github.com/xaionaro-go/shiftalign/pkg/audio"
)

const (
	DefaultWinLength = 25 * time.Millisecond
	DefaultHopLength = 10 * time.Millisecond
)

type Envelope struct {
	Values []float64

	// SampleRate and NumSamples describe the waveform the envelope was
	// extracted from.
	SampleRate audio.SampleRate
	NumSamples int

	HopLength time.Duration
}

func (e Envelope) Len() int {
	return len(e.Values)
}

func (e Envelope) IsEmpty() bool {
	return len(e.Values) == 0
}

// HopMS returns the hop length in milliseconds.
func (e Envelope) HopMS() float64 {
	return float64(e.HopLength) / float64(time.Millisecond)
}

func (e Envelope) String() string {
	return fmt.Sprintf("%d frames (hop %v) of %d samples @ %dHz", len(e.Values), e.HopLength, e.NumSamples, e.SampleRate)
}

// RMS returns the root-mean-square of every window of winLength,
// stepping by hopLength. A window that would run past the end of the
// waveform is not emitted, so a waveform shorter than a window yields an
// empty envelope.
func RMS(
	w audio.Waveform,
	winLength time.Duration,
	hopLength time.Duration,
) (Envelope, error) {
	if err := w.Validate(); err != nil {
		return Envelope{}, err
	}
	if winLength <= 0 {
		return Envelope{}, fmt.Errorf("window length must be positive: got %v", winLength)
	}
	if hopLength <= 0 {
		return Envelope{}, fmt.Errorf("hop length must be positive: got %v", hopLength)
	}

	win := w.SampleRate.SamplesForDuration(winLength)
	hop := w.SampleRate.SamplesForDuration(hopLength)
	if win < 1 || hop < 1 {
		return Envelope{}, fmt.Errorf("window (%v) and hop (%v) must be at least one sample long @ %dHz", winLength, hopLength, w.SampleRate)
	}

	result := Envelope{
		SampleRate: w.SampleRate,
		NumSamples: len(w.Samples),
		HopLength:  hopLength,
	}
	if len(w.Samples) < win {
		return result, nil
	}

	result.Values = make([]float64, (len(w.Samples)-win)/hop+1)
	for idx := range result.Values {
		frame := w.Samples[idx*hop : idx*hop+win]
		var sum float64
		for _, v := range frame {
			sum += v * v
		}
		result.Values[idx] = math.Sqrt(sum / float64(win))
	}
	return result, nil
}

// Default is RMS with DefaultWinLength and DefaultHopLength.
func Default(w audio.Waveform) (Envelope, error) {
	return RMS(w, DefaultWinLength, DefaultHopLength)
}
