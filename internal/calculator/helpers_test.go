package calculator

import (
	"math"
	"testing"
	"time"

	"RallyFinder/internal/model"
)

func assertClose(t *testing.T, label string, got, want, tol float64) {
	t.Helper()
	if math.Abs(got-want) > tol {
		t.Errorf("%s: got %.9f, want %.9f (diff=%.9f)", label, got, want, math.Abs(got-want))
	}
}

func seriesFromCloses(closes ...float64) *model.PriceSeries {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	points := make([]model.PricePoint, len(closes))
	for i, c := range closes {
		points[i] = model.PricePoint{
			Date:   start.AddDate(0, 0, i),
			Open:   c,
			High:   c * 1.01,
			Low:    c * 0.99,
			Close:  c,
			Volume: 1000,
		}
	}
	return &model.PriceSeries{Symbol: "TEST", Period: "1y", Points: points}
}

// zigzag returns n closes oscillating around base with a slow drift.
func zigzag(n int, base float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = base + float64(i)*0.3 + 4*math.Sin(float64(i)/3)
	}
	return out
}
