package calculator

import "math"

// RSI computes the relative strength index of closes.
//
// Average gain and loss are plain rolling means over period deltas with a
// minimum window of one, so early rows average over the prefix available
// instead of waiting for a full window. The first row has no delta; it
// contributes zero gain and zero loss to the windows that cover it and its
// own RSI is NaN.
func RSI(closes []float64, period int) []float64 {
	n := len(closes)
	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else if change < 0 {
			losses[i] = -change
		}
	}

	avgGain := RollingMean(gains, period, 1)
	avgLoss := RollingMean(losses, period, 1)

	out := make([]float64, n)
	for i := range out {
		if i == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = rsiFromAverages(avgGain[i], avgLoss[i])
	}
	return out
}

// rsiFromAverages guards the gain/loss ratio: no losses saturates to 100,
// and a window with neither gains nor losses is undefined.
func rsiFromAverages(avgGain, avgLoss float64) float64 {
	switch {
	case math.IsNaN(avgGain) || math.IsNaN(avgLoss):
		return math.NaN()
	case avgLoss == 0 && avgGain == 0:
		return math.NaN()
	case avgLoss == 0:
		return 100.0
	}
	rs := avgGain / avgLoss
	return 100.0 - 100.0/(1.0+rs)
}
