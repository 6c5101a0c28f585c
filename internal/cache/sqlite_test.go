package cache

import (
	"io"
	"path/filepath"
	"testing"
	"time"

	"RallyFinder/internal/model"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func setupStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "cache.db"), quietLogger())
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func sampleSeries(symbol, period string, closes ...float64) *model.PriceSeries {
	start := time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC)
	points := make([]model.PricePoint, len(closes))
	for i, c := range closes {
		points[i] = model.PricePoint{
			Date:   start.AddDate(0, 0, i),
			Open:   c - 0.5,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: int64(1000 * (i + 1)),
		}
	}
	return &model.PriceSeries{
		Symbol:    symbol,
		Period:    period,
		Points:    points,
		FetchedAt: time.Date(2024, 5, 10, 21, 0, 0, 0, time.UTC),
	}
}

func TestSQLiteStore_PutAndGet(t *testing.T) {
	store := setupStore(t)
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	series := sampleSeries("AAPL", "1mo", 180.5, 181.25, 179.75)

	require.NoError(t, store.Put(series, day))

	got, ok, err := store.Get("AAPL", "1mo", day)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "AAPL", got.Symbol)
	assert.Equal(t, "1mo", got.Period)
	require.Len(t, got.Points, 3)
	for i := range series.Points {
		assert.True(t, series.Points[i].Date.Equal(got.Points[i].Date))
		assert.Equal(t, series.Points[i].Close, got.Points[i].Close)
		assert.Equal(t, series.Points[i].Volume, got.Points[i].Volume)
	}
	assert.Equal(t, series.FetchedAt.Unix(), got.FetchedAt.Unix())
}

func TestSQLiteStore_MissOnOtherDayOrKey(t *testing.T) {
	store := setupStore(t)
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Put(sampleSeries("AAPL", "1mo", 1, 2), day))

	_, ok, err := store.Get("AAPL", "1mo", day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = store.Get("AAPL", "3mo", day)
	require.NoError(t, err)
	assert.False(t, ok)

	_, ok, err = store.Get("MSFT", "1mo", day)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSQLiteStore_PutReplacesPreviousDay(t *testing.T) {
	store := setupStore(t)
	day := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	require.NoError(t, store.Put(sampleSeries("AAPL", "1mo", 1, 2, 3), day))
	require.NoError(t, store.Put(sampleSeries("AAPL", "1mo", 4, 5), day.AddDate(0, 0, 1)))

	_, ok, err := store.Get("AAPL", "1mo", day)
	require.NoError(t, err)
	assert.False(t, ok, "stale day must be pruned")

	got, ok, err := store.Get("AAPL", "1mo", day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, got.Points, 2)
}

func TestNoopStore(t *testing.T) {
	var s Store = NewNoopStore()
	require.NoError(t, s.Put(sampleSeries("AAPL", "1mo", 1), time.Now()))
	_, ok, err := s.Get("AAPL", "1mo", time.Now())
	require.NoError(t, err)
	assert.False(t, ok)
	assert.NoError(t, s.Close())
}
