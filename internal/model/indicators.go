package model

import "time"

// Indicators holds the derived columns, aligned 1:1 with PriceSeries.Points.
// Undefined values are NaN.
type Indicators struct {
	EMA12           []float64
	EMA26           []float64
	MACD            []float64
	Signal          []float64
	MACDAboveSignal []bool
	MACDBelowSignal []bool
	RSI             []float64
	SMA20           []float64
	STD20           []float64
	UpperBand       []float64
	LowerBand       []float64
}

// Len returns the number of rows.
func (ind *Indicators) Len() int {
	if ind == nil {
		return 0
	}
	return len(ind.MACD)
}

// AnnotatedSeries is the fully computed result handed to presenters.
type AnnotatedSeries struct {
	Series     *PriceSeries
	Indicators *Indicators
	RisePoints []bool
}

// AnnotatedPoint is a row view over an AnnotatedSeries.
type AnnotatedPoint struct {
	PricePoint
	EMA12     float64
	EMA26     float64
	MACD      float64
	Signal    float64
	RSI       float64
	SMA20     float64
	STD20     float64
	UpperBand float64
	LowerBand float64
	RisePoint bool
}

// Len returns the number of rows.
func (a *AnnotatedSeries) Len() int {
	return a.Series.Len()
}

// At returns row i.
func (a *AnnotatedSeries) At(i int) AnnotatedPoint {
	ind := a.Indicators
	return AnnotatedPoint{
		PricePoint: a.Series.Points[i],
		EMA12:      ind.EMA12[i],
		EMA26:      ind.EMA26[i],
		MACD:       ind.MACD[i],
		Signal:     ind.Signal[i],
		RSI:        ind.RSI[i],
		SMA20:      ind.SMA20[i],
		STD20:      ind.STD20[i],
		UpperBand:  ind.UpperBand[i],
		LowerBand:  ind.LowerBand[i],
		RisePoint:  a.RisePoints[i],
	}
}

// Last returns the most recent row. The series must not be empty.
func (a *AnnotatedSeries) Last() AnnotatedPoint {
	return a.At(a.Len() - 1)
}

// RiseDates lists the dates flagged as rising points.
func (a *AnnotatedSeries) RiseDates() []time.Time {
	var dates []time.Time
	for i, r := range a.RisePoints {
		if r {
			dates = append(dates, a.Series.Points[i].Date)
		}
	}
	return dates
}
