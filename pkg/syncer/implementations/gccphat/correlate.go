package gccphat

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/xaionaro-go/shiftalign/pkg/syncer"
)

// CrossCorrelate calculates the sample shift of 'fcomp' relative to 'fref' using GCC-PHAT.
// The fref and fcomp slices are expected to be the FFTs of the zero-padded reference
// and comparison tracks. Both must have the same length N.
//
// Arguments:
// - sampleRate: Used to calculate frequency bin indices for band limiting.
// - minFreq: Minimum frequency to consider (Hz). Use 0 for no limit.
// - maxFreq: Maximum frequency to consider (Hz). Use 0 or >sampleRate/2 for no limit.
// - maxLag: Maximum absolute shift (in samples) to consider. Use 0 for no limit.
//
// Returns (shift, confidence, error). A positive shift means 'comp' leads 'ref',
// so the start of 'comp' has to be moved to the right to match 'ref'.
func CrossCorrelate(
	fref, fcomp []complex128,
	sampleRate float64,
	minFreq, maxFreq float64,
	maxLag int,
) (float64, float64, error) {
	if sampleRate <= 0 {
		return 0, 0, fmt.Errorf("sampleRate must be positive: got %v", sampleRate)
	}
	if len(fref) != len(fcomp) {
		return 0, 0, fmt.Errorf("fref and fcomp must have same length: %d != %d", len(fref), len(fcomp))
	}
	n := len(fref)
	if n == 0 {
		return 0, 0, fmt.Errorf("%w: empty spectrum", syncer.ErrDegenerateInput)
	}

	binMin := 0
	binMax := n / 2
	if minFreq > 0 {
		binMin = int(minFreq * float64(n) / sampleRate)
	}
	if maxFreq > 0 && maxFreq < sampleRate/2 {
		binMax = int(maxFreq * float64(n) / sampleRate)
	}

	cross := make([]complex128, n)
	maxMag := 0.0
	for i := range cross {
		cross[i] = fcomp[i] * cmplx.Conj(fref[i])
		maxMag = math.Max(maxMag, cmplx.Abs(cross[i]))
	}

	// only the bins within 60dB from the strongest one are whitened,
	// the rest is dropped as noise
	threshold := maxMag * 0.001

	activeBins := 0
	for i, prod := range cross {
		idx := i
		if i > n/2 {
			idx = n - i
		}
		mag := cmplx.Abs(prod)
		if idx < binMin || idx > binMax || mag <= threshold || mag <= 1e-12 {
			cross[i] = 0
			continue
		}
		cross[i] = prod / complex(mag, 0)
		activeBins++
	}
	if activeBins == 0 {
		return 0, 0, fmt.Errorf("%w: no frequency bin has enough energy", syncer.ErrDegenerateInput)
	}

	timeDomain := fft.IFFT(cross)

	maxVal := -1.0
	maxIdx := -1
	for i := range n {
		if maxLag > 0 && abs(lagOf(i, n)) > maxLag {
			continue
		}
		val := cmplx.Abs(timeDomain[i])
		if val > maxVal {
			maxVal = val
			maxIdx = i
		}
	}
	if maxIdx < 0 {
		return 0, 0, fmt.Errorf("%w: no lag is left within %d samples", syncer.ErrDegenerateInput, maxLag)
	}

	// peak shift where comp(t) = ref(t-shift)
	shift := float64(lagOf(maxIdx, n))

	// parabolic sub-sample interpolation, only around a local maximum
	// (maxLag may cut the search on a slope)
	if maxIdx > 0 && maxIdx < n-1 {
		y1 := cmplx.Abs(timeDomain[maxIdx-1])
		y2 := maxVal
		y3 := cmplx.Abs(timeDomain[maxIdx+1])

		denom := y1 - 2*y2 + y3
		if y2 >= y1 && y2 >= y3 && math.Abs(denom) > 1e-12 {
			shift += (y1 - y3) / (2 * denom)
		}
	}

	// A perfect match gives a peak of activeBins/n: there are activeBins
	// unit-magnitude bins, and IFFT divides by n.
	confidence := math.Min(1, maxVal*float64(n)/float64(activeBins))

	return -shift, confidence, nil
}

func lagOf(idx, n int) int {
	if idx > n/2 {
		return idx - n
	}
	return idx
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
