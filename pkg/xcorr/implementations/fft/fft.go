// Package fft implements the cross-correlation as a convolution with
// the reversed second sequence, computed in the frequency domain.
package fft

import (
	"github.com/mjibson/go-dsp/fft"
	"github.com/xaionaro-go/shiftalign/pkg/xcorr"
)

type Correlator struct{}

var _ xcorr.Correlator = (*Correlator)(nil)

func New() xcorr.Correlator {
	return &Correlator{}
}

func (c *Correlator) Correlate(a, b []float64) []float64 {
	n := xcorr.Len(len(a), len(b))
	if n == 0 {
		return nil
	}

	// zero padding up to n avoids circular wrap-around
	size := xcorr.NextPowerOfTwo(n)
	fa := make([]complex128, size)
	fb := make([]complex128, size)
	for i, v := range a {
		fa[i] = complex(v, 0)
	}
	for i, v := range b {
		fb[len(b)-1-i] = complex(v, 0)
	}

	sa := fft.FFT(fa)
	sb := fft.FFT(fb)
	for i := range sa {
		sa[i] *= sb[i]
	}
	conv := fft.IFFT(sa)

	result := make([]float64, n)
	for i := range result {
		result[i] = real(conv[i])
	}
	return result
}
