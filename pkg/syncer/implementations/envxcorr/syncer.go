// Package envxcorr implements an audio synchronization algorithm that
// cross-correlates the loudness envelopes of the tracks.
//
// Working on envelopes instead of raw samples makes it insensitive to
// the sample rates and to the phase of the signals (two microphones
// hear the same event with different phases), at the cost of a
// precision limited by the hop length.
package envxcorr

import (
	"context"
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/shiftalign/pkg/audio"
	"github.com/xaionaro-go/shiftalign/pkg/envelope"
	"github.com/xaionaro-go/shiftalign/pkg/syncer"
)

type Syncer struct {
	Config Config
}

var _ syncer.Syncer = (*Syncer)(nil)

// NewSyncer initializes a new envelope cross-correlation syncer.
func NewSyncer(cfg Config) (*Syncer, error) {
	cfg = cfg.withDefaults()
	if cfg.WinLength < 0 || cfg.HopLength < 0 {
		return nil, fmt.Errorf("window and hop lengths must not be negative: got %v and %v", cfg.WinLength, cfg.HopLength)
	}
	return &Syncer{
		Config: cfg,
	}, nil
}

func (s *Syncer) CalculateShift(
	ctx context.Context,
	referenceTrack audio.Waveform,
	comparisonTrack audio.Waveform,
) (_ret syncer.ShiftResult, _err error) {
	logger.Debugf(ctx, "CalculateShift(ctx, %s, %s)", referenceTrack, comparisonTrack)
	defer func() { logger.Debugf(ctx, "/CalculateShift(ctx, %s, %s): %v %v", referenceTrack, comparisonTrack, _ret, _err) }()

	refEnvelope, err := envelope.RMS(referenceTrack, s.Config.WinLength, s.Config.HopLength)
	if err != nil {
		return syncer.ShiftResult{}, fmt.Errorf("unable to extract the envelope of the reference track: %w", err)
	}
	compEnvelope, err := envelope.RMS(comparisonTrack, s.Config.WinLength, s.Config.HopLength)
	if err != nil {
		return syncer.ShiftResult{}, fmt.Errorf("unable to extract the envelope of the comparison track: %w", err)
	}
	logger.Tracef(ctx, "envelopes: %s; %s", refEnvelope, compEnvelope)

	return EstimateShiftMS(refEnvelope, compEnvelope, s.Config)
}
