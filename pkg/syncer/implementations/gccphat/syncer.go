// Package gccphat implements an audio synchronization algorithm using
// Generalized Cross-Correlation with Phase Transform (GCC-PHAT).
//
// The algorithm calculates the time delay between two signals by
// looking at their cross-correlation in the frequency domain. By
// normalizing the magnitude (the Phase Transform), it becomes
// robust against variations in volume and certain types of noise,
// focusing only on the phase information that indicates the delay.
//
// Unlike the envelope-based syncer it works on raw samples, so both
// tracks must have the same sample rate, and it gives a sub-sample
// precision.
package gccphat

import (
	"context"
	"fmt"
	"time"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/mjibson/go-dsp/fft"
	"github.com/xaionaro-go/shiftalign/pkg/audio"
	"github.com/xaionaro-go/shiftalign/pkg/syncer"
	"github.com/xaionaro-go/shiftalign/pkg/xcorr"
)

type Syncer struct {
	MinFreq float64
	MaxFreq float64

	// MaxShift limits the search; zero means no limit.
	MaxShift time.Duration
}

var _ syncer.Syncer = (*Syncer)(nil)

// NewSyncer initializes a new one-shot GCC-PHAT syncer.
func NewSyncer() *Syncer {
	return &Syncer{
		// Reasonable defaults: 100Hz to 12000Hz captures most informative audio
		// while filtering out low-frequency rumble and high-frequency digital noise.
		MinFreq: 100,
		MaxFreq: 12000,
	}
}

func (s *Syncer) CalculateShift(
	ctx context.Context,
	referenceTrack audio.Waveform,
	comparisonTrack audio.Waveform,
) (_ret syncer.ShiftResult, _err error) {
	logger.Debugf(ctx, "CalculateShift(ctx, %s, %s)", referenceTrack, comparisonTrack)
	defer func() { logger.Debugf(ctx, "/CalculateShift(ctx, %s, %s): %v %v", referenceTrack, comparisonTrack, _ret, _err) }()

	if err := referenceTrack.Validate(); err != nil {
		return syncer.ShiftResult{}, fmt.Errorf("invalid reference track: %w", err)
	}
	if err := comparisonTrack.Validate(); err != nil {
		return syncer.ShiftResult{}, fmt.Errorf("invalid comparison track: %w", err)
	}
	if referenceTrack.SampleRate != comparisonTrack.SampleRate {
		return syncer.ShiftResult{}, fmt.Errorf("the tracks have different sample rates (%d != %d), resample them first", referenceTrack.SampleRate, comparisonTrack.SampleRate)
	}
	n1 := referenceTrack.Len()
	n2 := comparisonTrack.Len()
	if n1 == 0 || n2 == 0 {
		return syncer.ShiftResult{}, fmt.Errorf("%w: empty track (%d and %d samples)", syncer.ErrDegenerateInput, n1, n2)
	}

	select {
	case <-ctx.Done():
		return syncer.ShiftResult{}, ctx.Err()
	default:
	}

	// next power of two of (n1 + n2 - 1) to avoid circular convolution artifacts
	n := xcorr.NextPowerOfTwo(n1 + n2 - 1)
	fref := make([]complex128, n)
	fcomp := make([]complex128, n)
	for j, v := range referenceTrack.Samples {
		fref[j] = complex(v, 0)
	}
	for j, v := range comparisonTrack.Samples {
		fcomp[j] = complex(v, 0)
	}

	sampleRate := referenceTrack.SampleRate
	maxLag := 0
	if s.MaxShift > 0 {
		maxLag = sampleRate.SamplesForDuration(s.MaxShift)
	}

	shift, confidence, err := CrossCorrelate(fft.FFT(fref), fft.FFT(fcomp), float64(sampleRate), s.MinFreq, s.MaxFreq, maxLag)
	if err != nil {
		return syncer.ShiftResult{}, fmt.Errorf("unable to cross-correlate: %w", err)
	}
	return syncer.ShiftResult{
		ShiftMS:    1000 * shift / float64(sampleRate),
		Confidence: confidence,
	}, nil
}
