package strategy

import "RallyFinder/internal/model"

// DetectRisePoints flags rows where MACD crosses above its signal line while
// RSI is rising:
//
//	macd[i] > signal[i] && macd[i-1] <= signal[i-1] && rsi[i] > rsi[i-1]
//
// Row 0 is never flagged. Comparisons involving NaN are false.
func DetectRisePoints(ind *model.Indicators) []bool {
	n := ind.Len()
	rise := make([]bool, n)
	for i := 1; i < n; i++ {
		crossed := ind.MACD[i] > ind.Signal[i] && ind.MACD[i-1] <= ind.Signal[i-1]
		rising := ind.RSI[i] > ind.RSI[i-1]
		rise[i] = crossed && rising
	}
	return rise
}

// Evaluate attaches the rise points to the computed series.
func Evaluate(series *model.PriceSeries, ind *model.Indicators) *model.AnnotatedSeries {
	return &model.AnnotatedSeries{
		Series:     series,
		Indicators: ind,
		RisePoints: DetectRisePoints(ind),
	}
}
