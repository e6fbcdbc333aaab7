package audio

import (
	"errors"
	"fmt"
	"time"
)

var ErrNoSampleRate = errors.New("sample rate is mandatory")

// Waveform is a mono sequence of samples (conventionally within [-1, 1])
// together with its sample rate. Functions in this module treat the
// samples as read-only and allocate new slices for their results.
type Waveform struct {
	Samples    []float64
	SampleRate SampleRate
}

func NewWaveform(samples []float64, sampleRate SampleRate) (Waveform, error) {
	w := Waveform{
		Samples:    samples,
		SampleRate: sampleRate,
	}
	if err := w.Validate(); err != nil {
		return Waveform{}, err
	}
	return w, nil
}

func (w Waveform) Validate() error {
	if w.SampleRate == 0 {
		return fmt.Errorf("%w: got a waveform of %d samples without a sample rate", ErrNoSampleRate, len(w.Samples))
	}
	return nil
}

func (w Waveform) Len() int {
	return len(w.Samples)
}

func (w Waveform) DurationMS() float64 {
	if w.SampleRate == 0 {
		return 0
	}
	return w.SampleRate.MSForSamples(len(w.Samples))
}

func (w Waveform) Duration() time.Duration {
	if w.SampleRate == 0 {
		return 0
	}
	return time.Duration(float64(len(w.Samples)) / float64(w.SampleRate) * float64(time.Second))
}

func (w Waveform) Clone() Waveform {
	var samples []float64
	if w.Samples != nil {
		samples = make([]float64, len(w.Samples))
		copy(samples, w.Samples)
	}
	return Waveform{
		Samples:    samples,
		SampleRate: w.SampleRate,
	}
}

func (w Waveform) String() string {
	return fmt.Sprintf("%d samples @ %dHz (%v)", len(w.Samples), w.SampleRate, w.Duration())
}
