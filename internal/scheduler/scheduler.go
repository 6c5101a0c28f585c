package scheduler

import (
	"context"
	"fmt"
	"html"
	"strings"
	"sync"
	"time"

	"RallyFinder/internal/metrics"
	"RallyFinder/internal/model"
	"RallyFinder/internal/notifier"
	"RallyFinder/internal/pipeline"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Sender delivers alert messages.
type Sender interface {
	SendWithRetry(ctx context.Context, text string, maxRetries int) error
}

// Scheduler re-runs the analysis of one symbol on a cron schedule and alerts
// when the most recent bar is a rise point.
type Scheduler struct {
	Cron     *cron.Cron
	Runner   *pipeline.Runner
	Notifier Sender // nil disables alerts
	Health   *metrics.HealthStatus
	Symbol   string
	Period   string
	Log      logrus.FieldLogger
	Ctx      context.Context

	mu sync.Mutex // serialises cron and chat-triggered runs
}

// NewScheduler creates a Scheduler. Overlapping runs are skipped.
func NewScheduler(ctx context.Context, runner *pipeline.Runner, sender Sender, symbol, period string, log logrus.FieldLogger) *Scheduler {
	cronLog := cron.PrintfLogger(log)
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cronLog))),
		Runner:   runner,
		Notifier: sender,
		Health:   metrics.NewHealthStatus(),
		Symbol:   symbol,
		Period:   period,
		Log:      log,
		Ctx:      ctx,
	}
}

// Register adds the watch task.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.watchTask); err != nil {
		return fmt.Errorf("register watch task: %w", err)
	}
	s.Log.WithField("cron", spec).Info("watch task registered")
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.Log.Info("scheduler started")
}

// Stop stops the cron scheduler and waits for a running task to finish.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	s.Log.Info("scheduler stopped")
}

// RunNow executes the watch task immediately.
func (s *Scheduler) RunNow() (*model.AnnotatedSeries, error) {
	return s.run()
}

func (s *Scheduler) watchTask() {
	_, _ = s.run()
}

func (s *Scheduler) run() (*model.AnnotatedSeries, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	log := s.Log.WithFields(logrus.Fields{"symbol": s.Symbol, "period": s.Period})
	log.Info("running watch task")

	result, err := s.Runner.Run(s.Ctx, s.Symbol, s.Period)
	if s.Health != nil {
		s.Health.Record(time.Now(), err)
	}
	if err != nil {
		log.WithError(err).Error("watch run failed")
		s.trySend(notifier.FormatError(s.Symbol, s.Period, err))
		return nil, err
	}

	if last := result.Last(); last.RisePoint {
		log.WithField("date", last.Date.Format("2006-01-02")).Info("latest bar is a rise point")
		s.trySend(notifier.FormatAlert(result))
	}
	return result, nil
}

// HandleCommand processes a chat command and returns a reply.
func (s *Scheduler) HandleCommand(_ context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}
	switch fields[0] {
	case "/report":
		result, err := s.run()
		if err != nil {
			return notifier.FormatError(s.Symbol, s.Period, err)
		}
		return "<pre>" + html.EscapeString(notifier.FormatReport(result)) + "</pre>"
	case "/periods":
		return notifier.FormatPeriods()
	default:
		return fmt.Sprintf("Watching %s over %s.\nCommands:\n/report - analyse now\n/periods - list valid periods",
			html.EscapeString(s.Symbol), html.EscapeString(s.Period))
	}
}

func (s *Scheduler) trySend(text string) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		s.Log.WithError(err).Error("send notification failed")
	}
}
