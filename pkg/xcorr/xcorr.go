// Package xcorr defines full linear cross-correlation engines.
//
// For sequences a and b a Correlator returns len(a)+len(b)-1 values,
// where index k holds
//
//	sum over n of a[n+lag] * b[n], lag = k - (len(b) - 1)
//
// so a peak at a positive lag means the content of b is found later in a.
package xcorr

type Correlator interface {
	// Correlate returns the full linear cross-correlation of a and b,
	// or nil if any of them is empty.
	Correlate(a, b []float64) []float64
}

// Len returns the length of the full cross-correlation of sequences of
// lengths la and lb.
func Len(la, lb int) int {
	if la == 0 || lb == 0 {
		return 0
	}
	return la + lb - 1
}

// Lag returns the lag of b relative to a at index k of the full
// cross-correlation.
func Lag(k, lb int) int {
	return k - (lb - 1)
}

// OverlapCounts returns, for every index of the full cross-correlation
// of sequences of lengths la and lb, how many element pairs take part
// in the sum. It equals the cross-correlation of two all-ones sequences
// and is at least 1 everywhere.
func OverlapCounts(la, lb int) []float64 {
	n := Len(la, lb)
	if n == 0 {
		return nil
	}
	counts := make([]float64, n)
	for k := range counts {
		counts[k] = float64(min(k+1, la, lb, n-k))
	}
	return counts
}

// NextPowerOfTwo returns the smallest power of two that is not less than n.
func NextPowerOfTwo(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
