package metrics

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

// Failure kinds used as the "kind" label of FailuresTotal.
const (
	KindInvalidPeriod = "invalid_period"
	KindNoData        = "no_data"
	KindFetch         = "fetch"
	KindCompute       = "compute"
	KindRender        = "render"
)

// Metrics holds the Prometheus collectors for analysis runs. All methods are
// safe on a nil receiver so callers need not guard optional metrics.
type Metrics struct {
	RunsTotal       *prometheus.CounterVec // labels: symbol
	FailuresTotal   *prometheus.CounterVec // labels: kind
	RisePointsTotal *prometheus.CounterVec // labels: symbol
	LatestRise      *prometheus.GaugeVec   // labels: symbol; 1 if the last bar is a rise point
	FetchDur        prometheus.Histogram
	RunDur          prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RunsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rallyfinder_runs_total",
			Help: "Analysis runs started",
		}, []string{"symbol"}),
		FailuresTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rallyfinder_failures_total",
			Help: "Analysis runs aborted, by failure kind",
		}, []string{"kind"}),
		RisePointsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rallyfinder_rise_points_total",
			Help: "Rise points found across all runs",
		}, []string{"symbol"}),
		LatestRise: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rallyfinder_latest_bar_rise",
			Help: "1 if the most recent bar of the last run was a rise point",
		}, []string{"symbol"}),
		FetchDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rallyfinder_fetch_duration_seconds",
			Help:    "Provider fetch latency",
			Buckets: prometheus.DefBuckets,
		}),
		RunDur: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "rallyfinder_run_duration_seconds",
			Help:    "End-to-end run latency including chart rendering",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}

	reg.MustRegister(
		m.RunsTotal,
		m.FailuresTotal,
		m.RisePointsTotal,
		m.LatestRise,
		m.FetchDur,
		m.RunDur,
	)
	return m
}

func (m *Metrics) RunStarted(symbol string) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(symbol).Inc()
}

func (m *Metrics) Failed(kind string) {
	if m == nil {
		return
	}
	m.FailuresTotal.WithLabelValues(kind).Inc()
}

func (m *Metrics) ObserveFetch(d time.Duration) {
	if m == nil {
		return
	}
	m.FetchDur.Observe(d.Seconds())
}

// Completed records the outcome of a successful run.
func (m *Metrics) Completed(symbol string, risePoints int, latestRise bool, d time.Duration) {
	if m == nil {
		return
	}
	m.RisePointsTotal.WithLabelValues(symbol).Add(float64(risePoints))
	v := 0.0
	if latestRise {
		v = 1
	}
	m.LatestRise.WithLabelValues(symbol).Set(v)
	m.RunDur.Observe(d.Seconds())
}

// HealthStatus tracks the outcome of the most recent scheduled run.
type HealthStatus struct {
	mu sync.RWMutex

	StartedAt time.Time
	LastRunAt time.Time
	LastError string
}

// NewHealthStatus returns a status with StartedAt set to now.
func NewHealthStatus() *HealthStatus {
	return &HealthStatus{StartedAt: time.Now()}
}

// Record stores the result of a run.
func (h *HealthStatus) Record(at time.Time, err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.LastRunAt = at
	h.LastError = ""
	if err != nil {
		h.LastError = err.Error()
	}
}

// ServeHTTP handles the /healthz endpoint. A failed last run reports 503.
func (h *HealthStatus) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	status := struct {
		Status    string `json:"status"`
		Uptime    string `json:"uptime"`
		LastRunAt string `json:"last_run_at,omitempty"`
		LastError string `json:"last_error,omitempty"`
	}{
		Status:    "healthy",
		Uptime:    time.Since(h.StartedAt).Round(time.Second).String(),
		LastError: h.LastError,
	}
	if !h.LastRunAt.IsZero() {
		status.LastRunAt = h.LastRunAt.Format(time.RFC3339)
	}

	w.Header().Set("Content-Type", "application/json")
	if h.LastError != "" {
		status.Status = "degraded"
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(status)
}

// Server exposes /metrics and /healthz.
type Server struct {
	addr string
	srv  *http.Server
	log  logrus.FieldLogger
	done chan struct{}
}

// NewServer creates a metrics and health server backed by gatherer.
func NewServer(addr string, gatherer prometheus.Gatherer, health *HealthStatus, log logrus.FieldLogger) *Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	mux.Handle("/healthz", health)

	return &Server{
		addr: addr,
		log:  log,
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
	}
}

// Handler returns the server's mux.
func (s *Server) Handler() http.Handler { return s.srv.Handler }

// Start launches the HTTP server in a goroutine.
func (s *Server) Start() {
	s.done = make(chan struct{})
	go func() {
		defer close(s.done)
		s.log.WithField("addr", s.addr).Info("metrics server listening")
		if err := s.srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			s.log.WithError(err).Error("metrics server error")
		}
	}()
}

// Stop gracefully shuts down the metrics server and waits for the serve
// loop to exit.
func (s *Server) Stop(ctx context.Context) error {
	err := s.srv.Shutdown(ctx)
	if s.done != nil {
		select {
		case <-s.done:
		case <-ctx.Done():
		}
	}
	return err
}
