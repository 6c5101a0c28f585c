package cache

import (
	"time"

	"RallyFinder/internal/model"
)

// Store caches fetched price series per trading day. Only provider input is
// stored; computed indicators never are.
type Store interface {
	// Get returns the series cached for (symbol, period) on day, if any.
	Get(symbol, period string, day time.Time) (*model.PriceSeries, bool, error)
	// Put replaces whatever is cached for (symbol, period) with series.
	Put(series *model.PriceSeries, day time.Time) error
	Close() error
}

// NoopStore is a no-op implementation used when the cache is not configured.
type NoopStore struct{}

func NewNoopStore() *NoopStore { return &NoopStore{} }

func (NoopStore) Get(_, _ string, _ time.Time) (*model.PriceSeries, bool, error) {
	return nil, false, nil
}
func (NoopStore) Put(_ *model.PriceSeries, _ time.Time) error { return nil }
func (NoopStore) Close() error                                { return nil }
