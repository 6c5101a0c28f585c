package collector

import (
	"context"
	"time"

	"RallyFinder/internal/cache"
	"RallyFinder/internal/model"

	"github.com/sirupsen/logrus"
)

// CachingFetcher serves repeated requests for the same symbol and period
// from a cache.Store within one trading day.
type CachingFetcher struct {
	Upstream Fetcher
	Store    cache.Store
	Log      logrus.FieldLogger
	Now      func() time.Time
}

// NewCachingFetcher wraps upstream with store.
func NewCachingFetcher(upstream Fetcher, store cache.Store, log logrus.FieldLogger) *CachingFetcher {
	return &CachingFetcher{Upstream: upstream, Store: store, Log: log, Now: time.Now}
}

func (c *CachingFetcher) Name() string { return c.Upstream.Name() + "+cache" }

func (c *CachingFetcher) FetchDaily(ctx context.Context, symbol, period string) (*model.PriceSeries, error) {
	day := model.TradingDay(c.Now())
	log := c.Log.WithFields(logrus.Fields{"symbol": symbol, "period": period})

	if series, ok, err := c.Store.Get(symbol, period, day); err != nil {
		log.WithError(err).Warn("bar cache read failed, fetching upstream")
	} else if ok {
		log.WithField("bars", series.Len()).Debug("bar cache hit")
		return series, nil
	}

	series, err := c.Upstream.FetchDaily(ctx, symbol, period)
	if err != nil {
		return nil, err
	}
	if err := c.Store.Put(series, day); err != nil {
		log.WithError(err).Warn("bar cache write failed")
	}
	return series, nil
}
