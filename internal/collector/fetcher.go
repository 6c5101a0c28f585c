package collector

import (
	"context"

	"RallyFinder/internal/model"
)

// Fetcher defines the interface for fetching daily price history.
type Fetcher interface {
	FetchDaily(ctx context.Context, symbol, period string) (*model.PriceSeries, error)
	Name() string
}
