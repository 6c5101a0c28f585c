package calculator

import (
	"errors"

	"RallyFinder/internal/model"
)

// ErrInsufficientData is returned when there are no bars to compute on.
var ErrInsufficientData = errors.New("insufficient data: price series is empty")

// Params configures the indicator windows.
type Params struct {
	FastSpan    int     `yaml:"fast_span"`
	SlowSpan    int     `yaml:"slow_span"`
	SignalSpan  int     `yaml:"signal_span"`
	RSIPeriod   int     `yaml:"rsi_period"`
	BandWindow  int     `yaml:"band_window"`
	BandStdDevs float64 `yaml:"band_std_devs"`
}

// DefaultParams returns MACD 12/26/9, RSI 14 and Bollinger 20/2.
func DefaultParams() Params {
	return Params{
		FastSpan:    12,
		SlowSpan:    26,
		SignalSpan:  9,
		RSIPeriod:   14,
		BandWindow:  20,
		BandStdDevs: 2,
	}
}

// Compute derives every indicator column from series. The order is fixed:
// EMA, MACD, Signal, RSI, Bollinger. The series is only read.
func Compute(series *model.PriceSeries, p Params) (*model.Indicators, error) {
	if series.Len() == 0 {
		return nil, ErrInsufficientData
	}
	closes := series.Closes()

	ind := &model.Indicators{}
	ind.EMA12, ind.EMA26, ind.MACD, ind.Signal = MACD(closes, p.FastSpan, p.SlowSpan, p.SignalSpan)
	ind.MACDAboveSignal, ind.MACDBelowSignal = CompareLines(ind.MACD, ind.Signal)
	ind.RSI = RSI(closes, p.RSIPeriod)
	ind.SMA20, ind.STD20, ind.UpperBand, ind.LowerBand = Bollinger(closes, p.BandWindow, p.BandStdDevs)
	return ind, nil
}
