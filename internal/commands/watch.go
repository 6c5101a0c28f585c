package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"RallyFinder/internal/logger"
	"RallyFinder/internal/metrics"
	"RallyFinder/internal/notifier"
	"RallyFinder/internal/scheduler"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	watchSymbol string
	watchPeriod string
	watchCron   string
	watchNow    bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Re-run the analysis on a schedule and alert on new rise points",
	Long: `Re-run the analysis for one stock on a cron schedule (with seconds).
When the most recent bar is a rise point and Telegram is configured, the
report is sent to the configured chat.

Examples:
  rallyfinder watch --symbol AAPL --period 6mo
  rallyfinder watch --symbol MSFT --period 1y --cron "0 0 22 * * 1-5" --now`,
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().StringVarP(&watchSymbol, "symbol", "s", "", "stock symbol (required)")
	watchCmd.Flags().StringVarP(&watchPeriod, "period", "p", "", "history length (default from config)")
	watchCmd.Flags().StringVar(&watchCron, "cron", "", "cron spec with seconds (default from config)")
	watchCmd.Flags().BoolVar(&watchNow, "now", false, "run once immediately on start")
	cobra.CheckErr(watchCmd.MarkFlagRequired("symbol"))
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	a, err := setup()
	if err != nil {
		return err
	}
	defer a.close()
	cfg := a.cfg

	period := watchPeriod
	if period == "" {
		period = cfg.Period.Default
	}
	if period == "" {
		return fmt.Errorf("--period is required when period.default is not configured")
	}
	spec := watchCron
	if spec == "" {
		spec = cfg.Schedule.WatchCron
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	runner := a.runner(cfg.Output.Dir, cfg.Output.Charts, cfg.Period.Strict)
	runner.Reporter = os.Stdout

	var tn *notifier.TelegramNotifier
	var sender scheduler.Sender
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy,
			logger.WithComponent(a.log, "telegram"))
		sender = tn
	}

	sched := scheduler.NewScheduler(ctx, runner, sender, watchSymbol, period, logger.WithComponent(a.log, "scheduler"))

	if cfg.Metrics.Addr != "" {
		reg := prometheus.NewRegistry()
		runner.Metrics = metrics.NewMetrics(reg)
		srv := metrics.NewServer(cfg.Metrics.Addr, reg, sched.Health, logger.WithComponent(a.log, "metrics"))
		srv.Start()
		defer func() {
			shutdownCtx, done := context.WithTimeout(context.Background(), 5*time.Second)
			defer done()
			if err := srv.Stop(shutdownCtx); err != nil {
				a.log.WithError(err).Warn("stop metrics server")
			}
		}()
	}

	if err := sched.Register(spec); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		a.log.Info("telegram polling started")
	}
	if watchNow {
		go sched.RunNow()
	}

	a.log.WithFields(logrus.Fields{
		"symbol": watchSymbol,
		"period": period,
		"cron":   spec,
	}).Info("watching; press Ctrl+C to stop")
	<-ctx.Done()
	a.log.Info("shutdown signal received, stopping")
	return nil
}
