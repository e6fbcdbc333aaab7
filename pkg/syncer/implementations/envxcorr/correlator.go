package envxcorr

import (
	"github.com/xaionaro-go/shiftalign/pkg/xcorr"
	"github.com/xaionaro-go/shiftalign/pkg/xcorr/implementations/direct"
	"github.com/xaionaro-go/shiftalign/pkg/xcorr/implementations/fft"
)

// AutoDirectThreshold is the largest len(a)*len(b) that Auto still
// correlates directly.
const AutoDirectThreshold = 1 << 20

type autoCorrelator struct {
	direct xcorr.Correlator
	fft    xcorr.Correlator
}

// Auto returns a Correlator that sums directly for short envelopes and
// switches to the FFT for long ones.
func Auto() xcorr.Correlator {
	return &autoCorrelator{
		direct: direct.New(),
		fft:    fft.New(),
	}
}

func (c *autoCorrelator) Correlate(a, b []float64) []float64 {
	if len(a)*len(b) <= AutoDirectThreshold {
		return c.direct.Correlate(a, b)
	}
	return c.fft.Correlate(a, b)
}
