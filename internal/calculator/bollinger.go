package calculator

import (
	"math"

	"github.com/markcheno/go-talib"
)

// Bollinger computes the middle band (SMA), the sample standard deviation and
// the upper/lower bands k deviations away. The window is strict: the first
// window-1 rows of every output are NaN.
func Bollinger(closes []float64, window int, k float64) (sma, std, upper, lower []float64) {
	n := len(closes)
	sma = nanSlice(n)
	upper = nanSlice(n)
	lower = nanSlice(n)
	std = RollingStdDev(closes, window, window)
	if window <= 1 || n < window {
		return sma, std, upper, lower
	}

	mid := talib.Sma(closes, window)
	for i := window - 1; i < n; i++ {
		sma[i] = mid[i]
		upper[i] = sma[i] + k*std[i]
		lower[i] = sma[i] - k*std[i]
	}
	return sma, std, upper, lower
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
