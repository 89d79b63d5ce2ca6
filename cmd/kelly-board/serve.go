package main

import (
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/kelly-board/internal/health"
	"github.com/yourusername/kelly-board/internal/metrics"
	"github.com/yourusername/kelly-board/internal/scheduler"
	"github.com/yourusername/kelly-board/internal/stream"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Refresh the board on a schedule and serve it over HTTP and WebSocket",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	appLog := newAppLogger(cfg)

	a, err := newApp(cfg, appLog)
	if err != nil {
		return err
	}
	defer a.Close()

	routes := map[string]http.Handler{}
	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
		metrics.CurrentBankroll.Set(cfg.Engine.Bankroll)
		routes[cfg.Metrics.Path] = metrics.Handler()
	}

	if cfg.Stream.Enabled {
		writeTimeout := time.Duration(cfg.Stream.WriteTimeoutSeconds) * time.Second
		hub := stream.NewHub(a.service.Latest, writeTimeout, appLog)
		a.service.Subscribe(hub)
		routes[cfg.Stream.Path] = hub
		go hub.Run(ctx)
	}

	healthServer := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Port:        strconv.Itoa(cfg.Health.Port),
		Logger:      appLog,
		Checks:      []health.Checker{a.service},
		Board:       a.service,
		Routes:      routes,
	})
	if err := healthServer.Start(ctx); err != nil {
		return err
	}

	sched := scheduler.NewScheduler(a.service, appLog)
	if cfg.Schedule.RefreshCron != "" {
		err = sched.ScheduleRefresh(cfg.Schedule.RefreshCron)
	} else {
		err = sched.ScheduleInterval(cfg.Schedule.RefreshIntervalSeconds)
	}
	if err != nil {
		return err
	}

	sched.RunNow(ctx)
	if err := sched.Start(); err != nil {
		return err
	}
	healthServer.SetReady(true)

	appLog.WithFields(logrus.Fields{
		"port":     cfg.Health.Port,
		"metrics":  cfg.Metrics.Enabled,
		"stream":   cfg.Stream.Enabled,
		"next_run": sched.GetNextRun(),
	}).Info("Kelly board serving")

	<-ctx.Done()
	appLog.Info("Shutdown signal received")

	healthServer.SetReady(false)
	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Warn("Scheduler did not stop cleanly")
	}

	if err := healthServer.Shutdown(); err != nil {
		appLog.WithError(err).Warn("HTTP server did not shut down cleanly")
	}

	appLog.Info("Kelly board stopped")
	return nil
}
