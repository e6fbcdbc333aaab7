package syncer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xaionaro-go/shiftalign/pkg/audio"
)

// ErrDegenerateInput is returned when the inputs do not allow to
// estimate a shift at all: an empty envelope, or constraints that
// exclude every candidate lag.
var ErrDegenerateInput = errors.New("cannot estimate shift")

type ShiftResult struct {
	// ShiftMS is how far (in milliseconds) the start of the comparison
	// track must be moved to the right to get it synced with the
	// reference track. Negative values mean moving it to the left.
	ShiftMS float64

	// Confidence is a score within [0, 1].
	Confidence float64
}

func (r ShiftResult) Shift() time.Duration {
	return time.Duration(r.ShiftMS * float64(time.Millisecond))
}

func (r ShiftResult) String() string {
	return fmt.Sprintf("%.1fms (confidence %.3f)", r.ShiftMS, r.Confidence)
}

type Syncer interface {
	// CalculateShift returns the shift of the comparison track relative
	// to the reference track, see ShiftResult.ShiftMS. The tracks may
	// have different sample rates unless the implementation says
	// otherwise.
	CalculateShift(
		ctx context.Context,
		referenceTrack audio.Waveform,
		comparisonTrack audio.Waveform,
	) (ShiftResult, error)
}
