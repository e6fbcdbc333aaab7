// Package align realizes an estimated shift between two waveforms as
// concrete padding and cropping.
//
// Every transform takes the shift of the start of b relative to the
// start of a (see syncer.ShiftResult.ShiftMS), converts the start
// displacement and then the remaining end displacement to samples using
// each waveform's own sample rate, and returns freshly allocated
// waveforms. The inputs are never modified.
package align

import (
	"fmt"

	"github.com/xaionaro-go/shiftalign/pkg/audio"
)

type TransformFunc func(a, b audio.Waveform, shiftMS float64) (audio.Waveform, audio.Waveform, error)

// PadBoth pads the start of whichever waveform begins later in time and
// then the end of whichever is shorter, so both keep all their content.
//
//	a = [1 2 3 4],   b = [3 4 5], shift = 2 samples -> [1 2 3 4 0], [0 0 3 4 5]
//	a = [1 2 3 4 5], b = [3 4],   shift = 2 samples -> [1 2 3 4 5], [0 0 3 4 0]
func PadBoth(
	a, b audio.Waveform,
	shiftMS float64,
) (audio.Waveform, audio.Waveform, error) {
	if err := validate(a, b); err != nil {
		return audio.Waveform{}, audio.Waveform{}, err
	}

	startA := a.SampleRate.SamplesForMS(-min(0, shiftMS))
	startB := b.SampleRate.SamplesForMS(max(0, shiftMS))
	lenA := startA + a.Len()
	lenB := startB + b.Len()

	endMS := a.SampleRate.MSForSamples(lenA) - b.SampleRate.MSForSamples(lenB)
	endA := a.SampleRate.SamplesForMS(-min(0, endMS))
	endB := b.SampleRate.SamplesForMS(max(0, endMS))

	return pad(a, startA, endA), pad(b, startB, endB), nil
}

// CropBoth crops the start of whichever waveform begins earlier in time
// and then the end of whichever is longer, so only the common part
// remains.
//
//	a = [1 2 3 4],   b = [3 4 5], shift = 2 samples -> [3 4], [3 4]
//	a = [1 2 3 4 5], b = [3 4],   shift = 2 samples -> [3 4], [3 4]
func CropBoth(
	a, b audio.Waveform,
	shiftMS float64,
) (audio.Waveform, audio.Waveform, error) {
	if err := validate(a, b); err != nil {
		return audio.Waveform{}, audio.Waveform{}, err
	}

	startA := min(a.SampleRate.SamplesForMS(max(0, shiftMS)), a.Len())
	startB := min(b.SampleRate.SamplesForMS(-min(0, shiftMS)), b.Len())
	lenA := a.Len() - startA
	lenB := b.Len() - startB

	endMS := a.SampleRate.MSForSamples(lenA) - b.SampleRate.MSForSamples(lenB)
	endA := min(a.SampleRate.SamplesForMS(max(0, endMS)), lenA)
	endB := min(b.SampleRate.SamplesForMS(-min(0, endMS)), lenB)

	return crop(a, startA, endA), crop(b, startB, endB), nil
}

// PadAndCropOneToMatchOther returns a as is, and b padded or cropped at
// the start by the shift and then at the end so that its duration
// equals the duration of a.
//
//	a = [1 2 3 4], b = [3 4 5],   shift = 2 samples  -> [1 2 3 4], [0 0 3 4]
//	a = [3 4 5],   b = [1 2 3 4], shift = -2 samples -> [3 4 5],   [3 4 0]
func PadAndCropOneToMatchOther(
	a, b audio.Waveform,
	shiftMS float64,
) (audio.Waveform, audio.Waveform, error) {
	if err := validate(a, b); err != nil {
		return audio.Waveform{}, audio.Waveform{}, err
	}

	start := b.SampleRate.SamplesForMS(shiftMS)
	if start < 0 {
		b = crop(b, min(-start, b.Len()), 0)
	} else {
		b = pad(b, start, 0)
	}

	endMS := a.DurationMS() - b.DurationMS()
	end := b.SampleRate.SamplesForMS(endMS)
	if end < 0 {
		b = crop(b, 0, min(-end, b.Len()))
	} else {
		b = pad(b, 0, end)
	}

	return a.Clone(), b, nil
}

// Transform applies the transform selected by the policy.
func Transform(
	policy Policy,
	a, b audio.Waveform,
	shiftMS float64,
) (audio.Waveform, audio.Waveform, error) {
	fn, err := policy.TransformFunc()
	if err != nil {
		return audio.Waveform{}, audio.Waveform{}, err
	}
	return fn(a, b, shiftMS)
}

func (p Policy) TransformFunc() (TransformFunc, error) {
	switch p {
	case PolicyPadBoth:
		return PadBoth, nil
	case PolicyCropBoth:
		return CropBoth, nil
	case PolicyPadAndCropOneToMatchOther:
		return PadAndCropOneToMatchOther, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownPolicy, p)
	}
}

func validate(a, b audio.Waveform) error {
	if err := a.Validate(); err != nil {
		return fmt.Errorf("invalid waveform A: %w", err)
	}
	if err := b.Validate(); err != nil {
		return fmt.Errorf("invalid waveform B: %w", err)
	}
	return nil
}

func pad(w audio.Waveform, start, end int) audio.Waveform {
	samples := make([]float64, start+w.Len()+end)
	copy(samples[start:], w.Samples)
	return audio.Waveform{
		Samples:    samples,
		SampleRate: w.SampleRate,
	}
}

func crop(w audio.Waveform, start, end int) audio.Waveform {
	return audio.Waveform{
		Samples:    append([]float64(nil), w.Samples[start:w.Len()-end]...),
		SampleRate: w.SampleRate,
	}
}
