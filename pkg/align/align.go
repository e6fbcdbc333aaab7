package align

import (
	"context"
	"fmt"

	"github.com/facebookincubator/go-belt/tool/logger"
	"github.com/xaionaro-go/shiftalign/pkg/audio"
	"github.com/xaionaro-go/shiftalign/pkg/syncer"
	"github.com/xaionaro-go/shiftalign/pkg/syncer/implementations/envxcorr"
)

type Result struct {
	A     audio.Waveform
	B     audio.Waveform
	Shift syncer.ShiftResult
}

// Align estimates the shift of b relative to a with the envelope
// cross-correlation syncer and applies the policy.
func Align(
	ctx context.Context,
	a, b audio.Waveform,
	policy Policy,
	cfg envxcorr.Config,
) (Result, error) {
	if err := policy.Validate(); err != nil {
		return Result{}, err
	}
	s, err := envxcorr.NewSyncer(cfg)
	if err != nil {
		return Result{}, fmt.Errorf("unable to initialize the syncer: %w", err)
	}
	return AlignWith(ctx, s, a, b, policy)
}

// AlignWith is Align with an arbitrary syncer.
func AlignWith(
	ctx context.Context,
	s syncer.Syncer,
	a, b audio.Waveform,
	policy Policy,
) (Result, error) {
	fn, err := policy.TransformFunc()
	if err != nil {
		return Result{}, err
	}
	if err := validate(a, b); err != nil {
		return Result{}, err
	}

	shift, err := s.CalculateShift(ctx, a, b)
	if err != nil {
		return Result{}, fmt.Errorf("unable to calculate the shift: %w", err)
	}
	logger.Debugf(ctx, "shift: %s", shift)

	alignedA, alignedB, err := fn(a, b, shift.ShiftMS)
	if err != nil {
		return Result{}, fmt.Errorf("unable to %s: %w", policy, err)
	}
	logger.Debugf(ctx, "aligned with %s: %s; %s", policy, alignedA, alignedB)

	return Result{
		A:     alignedA,
		B:     alignedB,
		Shift: shift,
	}, nil
}
