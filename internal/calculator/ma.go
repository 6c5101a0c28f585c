package calculator

import "math"

// RollingMean returns the mean of each trailing window, aligned to values.
// A window yields NaN until it holds at least minPeriods non-NaN values, so
// minPeriods == window waits for a full window while minPeriods == 1 averages
// whatever prefix is available.
func RollingMean(values []float64, window, minPeriods int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		sum, n := windowSum(values, i, window)
		if n == 0 || n < minPeriods {
			out[i] = math.NaN()
			continue
		}
		out[i] = sum / float64(n)
	}
	return out
}

// RollingStdDev returns the sample standard deviation (n-1 denominator) of
// each trailing window, under the same minPeriods rule as RollingMean.
// Windows with fewer than two values are NaN.
func RollingStdDev(values []float64, window, minPeriods int) []float64 {
	out := make([]float64, len(values))
	for i := range values {
		sum, n := windowSum(values, i, window)
		if n < 2 || n < minPeriods {
			out[i] = math.NaN()
			continue
		}
		mean := sum / float64(n)
		var sq float64
		for j := windowStart(i, window); j <= i; j++ {
			if math.IsNaN(values[j]) {
				continue
			}
			d := values[j] - mean
			sq += d * d
		}
		out[i] = math.Sqrt(sq / float64(n-1))
	}
	return out
}

func windowStart(i, window int) int {
	if window <= 0 {
		return i + 1
	}
	start := i - window + 1
	if start < 0 {
		start = 0
	}
	return start
}

func windowSum(values []float64, i, window int) (sum float64, n int) {
	for j := windowStart(i, window); j <= i; j++ {
		if math.IsNaN(values[j]) {
			continue
		}
		sum += values[j]
		n++
	}
	return sum, n
}
