// Package fourier is the same frequency-domain cross-correlation as
// package fft, but on top of the radix-2 transform of
// github.com/brettbuddin/fourier.
package fourier

import (
	"math/cmplx"

	"github.com/brettbuddin/fourier"
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

	size := xcorr.NextPowerOfTwo(n)
	fa := make([]complex128, size)
	fb := make([]complex128, size)
	for i, v := range a {
		fa[i] = complex(v, 0)
	}
	for i, v := range b {
		fb[len(b)-1-i] = complex(v, 0)
	}

	// Forward only rejects sizes that are not a power of two
	if err := fourier.Forward(fa); err != nil {
		panic(err)
	}
	if err := fourier.Forward(fb); err != nil {
		panic(err)
	}

	// inverse through the forward transform: x = conj(F(conj(X))) / N
	for i := range fa {
		fa[i] = cmplx.Conj(fa[i] * fb[i])
	}
	if err := fourier.Forward(fa); err != nil {
		panic(err)
	}

	result := make([]float64, n)
	for i := range result {
		result[i] = real(fa[i]) / float64(size)
	}
	return result
}
