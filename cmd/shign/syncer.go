package main

import (
	"context"
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/shiftalign/pkg/audio"
	"github.com/xaionaro-go/shiftalign/pkg/audio/resampler"
	"github.com/xaionaro-go/shiftalign/pkg/syncer"
)

// sameRateSyncer resamples the comparison track to the rate of the
// reference track for syncers that work on raw samples. The resampled
// copy is used only for the estimation.
type sameRateSyncer struct {
	syncer.Syncer
}

func (s sameRateSyncer) CalculateShift(
	ctx context.Context,
	referenceTrack audio.Waveform,
	comparisonTrack audio.Waveform,
) (syncer.ShiftResult, error) {
	if err := referenceTrack.Validate(); err != nil {
		return syncer.ShiftResult{}, err
	}
	if comparisonTrack.SampleRate != referenceTrack.SampleRate {
		logger.Debugf(ctx, "resampling the comparison track from %dHz to %dHz for the estimation", comparisonTrack.SampleRate, referenceTrack.SampleRate)
		resampled, err := resampler.ResampleWaveform(comparisonTrack, referenceTrack.SampleRate)
		if err != nil {
			return syncer.ShiftResult{}, fmt.Errorf("unable to resample the comparison track: %w", err)
		}
		comparisonTrack = resampled
	}
	return s.Syncer.CalculateShift(ctx, referenceTrack, comparisonTrack)
}
