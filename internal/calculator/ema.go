package calculator

import "math"

// EMA computes the exponential moving average of values with smoothing
// factor 2/(span+1). The first output equals the first input; there is no
// warm-up window.
func EMA(values []float64, span int) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}
	if span <= 0 {
		for i := range out {
			out[i] = math.NaN()
		}
		return out
	}
	alpha := 2.0 / float64(span+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out
}

// MACD returns the fast and slow EMAs of closes, their difference and the
// signal line (EMA of the difference).
func MACD(closes []float64, fast, slow, signalSpan int) (emaFast, emaSlow, macd, signal []float64) {
	emaFast = EMA(closes, fast)
	emaSlow = EMA(closes, slow)
	macd = make([]float64, len(closes))
	for i := range closes {
		macd[i] = emaFast[i] - emaSlow[i]
	}
	signal = EMA(macd, signalSpan)
	return emaFast, emaSlow, macd, signal
}

// CompareLines reports pointwise a > b and a < b. Both are false where the
// lines are equal or either side is NaN.
func CompareLines(a, b []float64) (above, below []bool) {
	above = make([]bool, len(a))
	below = make([]bool, len(a))
	for i := range a {
		above[i] = a[i] > b[i]
		below[i] = a[i] < b[i]
	}
	return above, below
}
