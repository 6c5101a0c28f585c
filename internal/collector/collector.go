package collector

import (
	"context"
	"math"
	"time"

	"RallyFinder/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Price  float64
	Days   int
	Points []model.PricePoint
	Err    error
	Calls  int
}

func (m *MockFetcher) Name() string { return "mock" }

// FetchDaily returns Points when set, otherwise a generated series of Days
// bars (default 250) around Price.
func (m *MockFetcher) FetchDaily(_ context.Context, symbol, period string) (*model.PriceSeries, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	points := m.Points
	if points == nil {
		days := m.Days
		if days == 0 {
			days = 250
		}
		price := m.Price
		if price == 0 {
			price = 100
		}
		points = generateMockBars(price, days, time.Now())
	}
	if len(points) == 0 {
		return nil, &NoDataError{Symbol: symbol}
	}
	out := make([]model.PricePoint, len(points))
	copy(out, points)
	return &model.PriceSeries{Symbol: symbol, Period: period, Points: out, FetchedAt: time.Now()}, nil
}

// generateMockBars builds count consecutive weekday bars ending before end,
// oscillating around basePrice so that crossovers occur.
func generateMockBars(basePrice float64, count int, end time.Time) []model.PricePoint {
	bars := make([]model.PricePoint, 0, count)
	day := model.TradingDay(end)
	for len(bars) < count {
		day = day.AddDate(0, 0, -1)
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			continue
		}
		bars = append(bars, model.PricePoint{Date: day})
	}
	for i, j := 0, len(bars)-1; i < j; i, j = i+1, j-1 {
		bars[i], bars[j] = bars[j], bars[i]
	}
	for i := range bars {
		x := float64(i)
		p := basePrice * (1 + 0.08*math.Sin(x/9) + 0.03*math.Sin(x/2.5)) * math.Exp(float64(i-count/2)*0.0005)
		bars[i].Open = p * 0.999
		bars[i].High = p * 1.005
		bars[i].Low = p * 0.995
		bars[i].Close = p
		bars[i].Volume = 1000000
	}
	return bars
}
