package notifier

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
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

func sampleAnnotated(rise ...bool) *model.AnnotatedSeries {
	n := len(rise)
	start := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	points := make([]model.PricePoint, n)
	col := func(v float64) []float64 {
		out := make([]float64, n)
		for i := range out {
			out[i] = v
		}
		return out
	}
	for i := range points {
		c := 100 + float64(i)
		points[i] = model.PricePoint{Date: start.AddDate(0, 0, i), Open: c, High: c + 2, Low: c - 2, Close: c, Volume: 10}
	}
	ind := &model.Indicators{
		EMA12:     col(101),
		EMA26:     col(100),
		MACD:      col(1.5),
		Signal:    col(0.5),
		RSI:       col(62.5),
		SMA20:     col(math.NaN()),
		STD20:     col(math.NaN()),
		UpperBand: col(math.NaN()),
		LowerBand: col(math.NaN()),
	}
	return &model.AnnotatedSeries{
		Series:     &model.PriceSeries{Symbol: "AAPL", Period: "1mo", Points: points},
		Indicators: ind,
		RisePoints: rise,
	}
}

func TestFormatReport(t *testing.T) {
	report := FormatReport(sampleAnnotated(false, true, false, true))

	assert.Contains(t, report, "AAPL | 1mo | 4 bars | 2024-03-04 .. 2024-03-07")
	assert.Contains(t, report, "Close:     103.00")
	assert.Contains(t, report, "MACD:      1.50 (signal 0.50, above)")
	assert.Contains(t, report, "RSI:       62.50")
	assert.Contains(t, report, "Bollinger: n/a / n/a / n/a")
	assert.Contains(t, report, "Rise points (2):\n  2024-03-05\n  2024-03-07\n")
}

func TestFormatReport_NoRisePoints(t *testing.T) {
	report := FormatReport(sampleAnnotated(false, false))
	assert.True(t, strings.HasSuffix(report, "Rise points: none\n"))
	assert.Equal(t, "no data\n", FormatReport(nil))
}

func TestFormatAlert_EscapesHTML(t *testing.T) {
	a := sampleAnnotated(false, true)
	a.Series.Symbol = "A&B"
	msg := FormatAlert(a)
	assert.Contains(t, msg, "<b>Rise point</b> | A&amp;B 2024-03-05")
	assert.Contains(t, msg, "<pre>A&amp;B | 1mo")
}

func newTestNotifier(t *testing.T, handler http.HandlerFunc) *TelegramNotifier {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	n := NewTelegramNotifier("TOKEN", "42", "", quietLogger())
	n.APIBase = srv.URL
	n.Backoff = func(int) time.Duration { return time.Millisecond }
	return n
}

func TestSend_PostsMessage(t *testing.T) {
	var got map[string]string
	var path string
	n := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Write([]byte(`{"ok":true}`))
	})

	require.NoError(t, n.Send(context.Background(), "hello"))
	assert.Equal(t, "/botTOKEN/sendMessage", path)
	assert.Equal(t, "42", got["chat_id"])
	assert.Equal(t, "hello", got["text"])
	assert.Equal(t, "HTML", got["parse_mode"])
}

func TestSendWithRetry(t *testing.T) {
	tests := []struct {
		name      string
		failFirst int32
		retries   int
		wantErr   bool
		wantCalls int32
	}{
		{"first try", 0, 3, false, 1},
		{"recovers", 2, 3, false, 3},
		{"exhausted", 10, 2, true, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			n := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
				if atomic.AddInt32(&calls, 1) <= tt.failFirst {
					http.Error(w, "boom", http.StatusInternalServerError)
					return
				}
				w.Write([]byte(`{"ok":true}`))
			})

			err := n.SendWithRetry(context.Background(), "x", tt.retries)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.wantCalls, atomic.LoadInt32(&calls))
		})
	}
}

func TestSendWithRetry_ContextCancelled(t *testing.T) {
	n := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	})
	n.Backoff = func(int) time.Duration { return time.Hour }

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)
	err := n.SendWithRetry(ctx, "x", 3)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestStartPolling_RepliesToCommands(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var polls int32
	replies := make(chan string, 1)
	n := newTestNotifier(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/getUpdates"):
			if atomic.AddInt32(&polls, 1) == 1 {
				assert.Equal(t, "0", r.URL.Query().Get("offset"))
				w.Write([]byte(`{"ok":true,"result":[{"update_id":7,"message":{"text":" /periods "}}]}`))
				return
			}
			assert.Equal(t, "8", r.URL.Query().Get("offset"))
			<-r.Context().Done()
		case strings.HasSuffix(r.URL.Path, "/sendMessage"):
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			replies <- body["text"]
			w.Write([]byte(`{"ok":true}`))
		}
	})

	done := make(chan struct{})
	go func() {
		n.StartPolling(ctx, func(_ context.Context, cmd string) string {
			if cmd == "/periods" {
				return FormatPeriods()
			}
			return ""
		})
		close(done)
	}()

	select {
	case reply := <-replies:
		assert.Contains(t, reply, "1d, 5d, 1mo")
	case <-time.After(5 * time.Second):
		t.Fatal("no reply sent")
	}
	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("polling did not stop")
	}
}
