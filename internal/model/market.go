package model

import (
	"fmt"
	"time"
)

// PricePoint represents a single daily bar.
type PricePoint struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume int64
}

// PriceSeries holds the daily bars of one symbol, ascending by date.
type PriceSeries struct {
	Symbol    string
	Period    string
	Points    []PricePoint
	FetchedAt time.Time
}

// Len returns the number of bars.
func (s *PriceSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Points)
}

// Closes extracts the close column.
func (s *PriceSeries) Closes() []float64 {
	closes := make([]float64, s.Len())
	for i, p := range s.Points {
		closes[i] = p.Close
	}
	return closes
}

// Dates extracts the date column.
func (s *PriceSeries) Dates() []time.Time {
	dates := make([]time.Time, s.Len())
	for i, p := range s.Points {
		dates[i] = p.Date
	}
	return dates
}

// Validate checks ordering and value ranges of the bars.
func (s *PriceSeries) Validate() error {
	for i, p := range s.Points {
		if p.Open <= 0 || p.High <= 0 || p.Low <= 0 || p.Close <= 0 {
			return fmt.Errorf("bar %d (%s): prices must be positive", i, p.Date.Format("2006-01-02"))
		}
		if p.Volume < 0 {
			return fmt.Errorf("bar %d (%s): negative volume %d", i, p.Date.Format("2006-01-02"), p.Volume)
		}
		if i > 0 && !p.Date.After(s.Points[i-1].Date) {
			return fmt.Errorf("bar %d (%s): dates not strictly increasing", i, p.Date.Format("2006-01-02"))
		}
	}
	return nil
}

// TradingDay truncates t to its calendar date in UTC.
func TradingDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
