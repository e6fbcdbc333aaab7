// Package direct implements the cross-correlation as a plain O(n*m) sum.
package direct

import (
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
	result := make([]float64, n)
	for k := range result {
		lag := xcorr.Lag(k, len(b))
		lo := max(0, -lag)
		hi := min(len(b), len(a)-lag)
		var sum float64
		for i := lo; i < hi; i++ {
			sum += a[i+lag] * b[i]
		}
		result[k] = sum
	}
	return result
}
