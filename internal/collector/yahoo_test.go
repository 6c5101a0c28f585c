package collector

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func newTestYahoo(t *testing.T, status int, body string) (*YahooFetcher, *http.Request) {
	t.Helper()
	var captured http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = *r
		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)

	f := NewYahooFetcher("", 5*time.Second, testLogger())
	f.BaseURL = srv.URL
	return f, &captured
}

// 2024-03-04..06 14:30 UTC, New York offset -18000; the middle bar is null
// and the last bar repeats the second trading day.
const yahooBody = `{"chart":{"result":[{
	"meta":{"symbol":"AAPL","gmtoffset":-18000},
	"timestamp":[1709562600,1709649000,1709735400,1709821800,1709825400],
	"indicators":{"quote":[{
		"open":  [170.0, 171.0, null, 172.0, 172.5],
		"high":  [172.0, 173.0, null, 174.0, 174.5],
		"low":   [169.0, 170.0, null, 171.0, 171.5],
		"close": [171.5, 172.5, null, 173.5, 174.0],
		"volume":[1000, 2000, null, 3000, 3500]
	}]}
}],"error":null}}`

func TestYahooFetcher_FetchDaily(t *testing.T) {
	f, req := newTestYahoo(t, http.StatusOK, yahooBody)

	series, err := f.FetchDaily(context.Background(), "AAPL", "1mo")
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/AAPL", req.URL.Path)
	assert.Equal(t, "1d", req.URL.Query().Get("interval"))
	assert.Equal(t, "1mo", req.URL.Query().Get("range"))

	require.Len(t, series.Points, 3)
	assert.Equal(t, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC), series.Points[0].Date)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), series.Points[1].Date)
	assert.Equal(t, time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC), series.Points[2].Date)
	assert.Equal(t, 174.0, series.Points[2].Close, "duplicate day keeps the latest bar")
	assert.Equal(t, int64(3500), series.Points[2].Volume)
	assert.NoError(t, series.Validate())
}

func TestYahooFetcher_SymbolAlias(t *testing.T) {
	f, req := newTestYahoo(t, http.StatusOK, yahooBody)
	_, err := f.FetchDaily(context.Background(), "SPX", "1y")
	require.NoError(t, err)
	assert.Equal(t, "/v8/finance/chart/^GSPC", req.URL.Path)
}

func TestYahooFetcher_NotFound(t *testing.T) {
	body := `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`
	f, _ := newTestYahoo(t, http.StatusNotFound, body)

	_, err := f.FetchDaily(context.Background(), "ZZZZ", "1mo")
	var nde *NoDataError
	require.True(t, errors.As(err, &nde))
	assert.Equal(t, "ZZZZ", nde.Symbol)
}

func TestYahooFetcher_EmptyResult(t *testing.T) {
	body := `{"chart":{"result":[{"meta":{"gmtoffset":0},"timestamp":[],"indicators":{"quote":[{}]}}],"error":null}}`
	f, _ := newTestYahoo(t, http.StatusOK, body)

	_, err := f.FetchDaily(context.Background(), "EMPTY", "5d")
	var nde *NoDataError
	assert.True(t, errors.As(err, &nde))
}

func TestYahooFetcher_RejectsUnknownPeriod(t *testing.T) {
	f, req := newTestYahoo(t, http.StatusOK, yahooBody)

	_, err := f.FetchDaily(context.Background(), "AAPL", "xx9")
	var ipe *InvalidPeriodError
	assert.True(t, errors.As(err, &ipe))
	assert.Nil(t, req.URL, "no request for an invalid period")
}

func TestYahooFetcher_ServerError(t *testing.T) {
	f, _ := newTestYahoo(t, http.StatusInternalServerError, "boom")
	_, err := f.FetchDaily(context.Background(), "AAPL", "1mo")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 500")
}
