package envxcorr

import (
	"fmt"
	"math"
	"time"

	"github.com/xaionaro-go/shiftalign/pkg/envelope"
	"github.com/xaionaro-go/shiftalign/pkg/syncer"
	"github.com/xaionaro-go/shiftalign/pkg/xcorr"
)

// EstimateShiftMS finds the lag that maximizes the normalized
// cross-correlation of the two envelopes and converts it to the shift of
// the start of b relative to the start of a.
//
// The cross-correlation is divided by the amount of overlapping frames
// at each lag, so the score is a mean product per overlapping pair
// rather than a sum. Lags excluded by cfg.MinOverlap and cfg.MaxShift
// (and lags with a non-finite score) never win; if nothing is left, or
// an envelope is silent, or the best lag has no energy in common,
// syncer.ErrDegenerateInput is returned. Among equal maxima the lowest
// index wins.
func EstimateShiftMS(
	a envelope.Envelope,
	b envelope.Envelope,
	cfg Config,
) (syncer.ShiftResult, error) {
	cfg = cfg.withDefaults()
	if a.IsEmpty() || b.IsEmpty() {
		return syncer.ShiftResult{}, fmt.Errorf("%w: empty envelope (%d and %d frames)", syncer.ErrDegenerateInput, a.Len(), b.Len())
	}
	if a.HopLength != b.HopLength {
		return syncer.ShiftResult{}, fmt.Errorf("the envelopes have different hop lengths: %v != %v", a.HopLength, b.HopLength)
	}
	hop := a.HopLength
	if hop <= 0 {
		return syncer.ShiftResult{}, fmt.Errorf("hop length must be positive: got %v", hop)
	}
	if isSilent(a.Values) || isSilent(b.Values) {
		return syncer.ShiftResult{}, fmt.Errorf("%w: silent envelope (%d and %d frames)", syncer.ErrDegenerateInput, a.Len(), b.Len())
	}

	corr := cfg.Correlator.Correlate(a.Values, b.Values)
	counts := xcorr.OverlapCounts(a.Len(), b.Len())
	if len(corr) != len(counts) {
		return syncer.ShiftResult{}, fmt.Errorf("the correlator %T returned %d values instead of %d", cfg.Correlator, len(corr), len(counts))
	}

	n := len(corr)
	score := make([]float64, n)
	allowed := make([]bool, n)
	for k := range corr {
		score[k] = corr[k] / counts[k]
		allowed[k] = !math.IsNaN(score[k]) && !math.IsInf(score[k], 0)
	}

	if m := framesFor(cfg.MinOverlap, hop); m > 0 {
		for k := 0; k < min(m, n); k++ {
			allowed[k] = false
			allowed[n-1-k] = false
		}
	}

	if m := framesFor(cfg.MaxShift, hop); m > 0 {
		halfIdx := n / 2
		lo := max(halfIdx-m, 0)
		hi := min(halfIdx+m, n)
		for k := range allowed {
			if k < lo || k >= hi {
				allowed[k] = false
			}
		}
	}

	best := -1
	for k, ok := range allowed {
		if !ok {
			continue
		}
		if best < 0 || score[k] > score[best] {
			best = k
		}
	}
	if best < 0 {
		return syncer.ShiftResult{}, fmt.Errorf(
			"%w: no lag is left after applying min overlap %v and max shift %v to envelopes of %d and %d frames",
			syncer.ErrDegenerateInput, cfg.MinOverlap, cfg.MaxShift, a.Len(), b.Len(),
		)
	}

	if score[best] <= 0 {
		return syncer.ShiftResult{}, fmt.Errorf(
			"%w: the envelopes have no energy in common within the allowed lags",
			syncer.ErrDegenerateInput,
		)
	}

	// the lag of the envelope centers plus (len(a)-len(b))/2 is exactly
	// the lag of the envelope starts
	shiftFrames := xcorr.Lag(best, b.Len())

	return syncer.ShiftResult{
		ShiftMS:    float64(shiftFrames) * a.HopMS(),
		Confidence: confidence(score[best], a.Values, b.Values),
	}, nil
}

// framesFor converts a duration into a whole number of hops, rounding
// down; non-positive durations give zero.
func framesFor(d, hop time.Duration) int {
	if d <= 0 {
		return 0
	}
	return int(d / hop)
}

func isSilent(values []float64) bool {
	for _, v := range values {
		if v != 0 {
			return false
		}
	}
	return true
}

func meanSquare(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v * v
	}
	return sum / float64(len(values))
}

func confidence(peak float64, a, b []float64) float64 {
	norm := math.Sqrt(meanSquare(a) * meanSquare(b))
	if norm == 0 || math.IsNaN(peak) {
		return 0
	}
	return math.Max(0, math.Min(1, peak/norm))
}
