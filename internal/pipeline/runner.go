package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"RallyFinder/internal/calculator"
	"RallyFinder/internal/chart"
	"RallyFinder/internal/collector"
	"RallyFinder/internal/logger"
	"RallyFinder/internal/metrics"
	"RallyFinder/internal/model"
	"RallyFinder/internal/notifier"
	"RallyFinder/internal/strategy"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Runner executes one analysis: validate, fetch, compute, detect, present.
type Runner struct {
	Fetcher      collector.Fetcher
	Presenter    chart.Presenter
	Reporter     io.Writer // text report destination; nil disables it
	Params       calculator.Params
	StrictPeriod bool
	Metrics      *metrics.Metrics
	Log          logrus.FieldLogger
}

// Run analyses symbol over period. Any error aborts before charts are
// produced.
func (r *Runner) Run(ctx context.Context, symbol, period string) (*model.AnnotatedSeries, error) {
	symbol = collector.NormalizeSymbol(symbol)
	log := logger.WithSymbol(r.Log, symbol).WithFields(logrus.Fields{
		"run":    uuid.NewString(),
		"period": period,
	})
	start := time.Now()
	r.Metrics.RunStarted(symbol)

	if err := collector.ValidatePeriod(period, r.StrictPeriod); err != nil {
		r.Metrics.Failed(metrics.KindInvalidPeriod)
		return nil, err
	}
	if symbol == "" {
		r.Metrics.Failed(metrics.KindNoData)
		return nil, &collector.NoDataError{Symbol: symbol}
	}

	log.WithField("provider", r.Fetcher.Name()).Info("fetching price history")
	fetchStart := time.Now()
	series, err := r.Fetcher.FetchDaily(ctx, symbol, period)
	r.Metrics.ObserveFetch(time.Since(fetchStart))
	if err != nil {
		r.Metrics.Failed(failureKind(err))
		return nil, fmt.Errorf("fetch %s: %w", symbol, err)
	}
	if series.Len() == 0 {
		r.Metrics.Failed(metrics.KindNoData)
		return nil, &collector.NoDataError{Symbol: symbol}
	}
	if err := series.Validate(); err != nil {
		r.Metrics.Failed(metrics.KindFetch)
		return nil, fmt.Errorf("provider returned bad bars for %s: %w", symbol, err)
	}

	ind, err := calculator.Compute(series, r.Params)
	if err != nil {
		r.Metrics.Failed(metrics.KindCompute)
		return nil, fmt.Errorf("compute indicators: %w", err)
	}
	result := strategy.Evaluate(series, ind)
	rises := len(result.RiseDates())
	log.WithFields(logrus.Fields{
		"bars":        series.Len(),
		"rise_points": rises,
	}).Info("indicators computed")

	if r.Reporter != nil {
		if _, err := io.WriteString(r.Reporter, notifier.FormatReport(result)); err != nil {
			log.WithError(err).Warn("write report failed")
		}
	}
	if r.Presenter != nil {
		if err := r.Presenter.Render(result); err != nil {
			r.Metrics.Failed(metrics.KindRender)
			return nil, fmt.Errorf("render charts: %w", err)
		}
	}

	r.Metrics.Completed(symbol, rises, result.Last().RisePoint, time.Since(start))
	log.WithField("duration_ms", time.Since(start).Milliseconds()).Info("run complete")
	return result, nil
}

func failureKind(err error) string {
	var noData *collector.NoDataError
	var badPeriod *collector.InvalidPeriodError
	switch {
	case errors.As(err, &noData):
		return metrics.KindNoData
	case errors.As(err, &badPeriod):
		return metrics.KindInvalidPeriod
	default:
		return metrics.KindFetch
	}
}
