// Package main provides the entry point for the signal engine service.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/yourusername/tennis-edge/internal/alerts"
	"github.com/yourusername/tennis-edge/internal/api"
	"github.com/yourusername/tennis-edge/internal/config"
	"github.com/yourusername/tennis-edge/internal/database"
	"github.com/yourusername/tennis-edge/internal/logger"
	"github.com/yourusername/tennis-edge/internal/metrics"
	"github.com/yourusername/tennis-edge/internal/repository"
	"github.com/yourusername/tennis-edge/internal/scheduler"
	"github.com/yourusername/tennis-edge/internal/service"
)

var configPath string

func main() {
	root := &cobra.Command{
		Use:   "signals",
		Short: "Tennis value-bet signal engine",
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config/config.yaml", "Path to config file")

	root.AddCommand(newRunCommand())
	root.AddCommand(newOnceCommand())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRunCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Run the signal engine with scheduler, API and metrics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runService()
		},
	}
}

func newOnceCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "once",
		Short: "Evaluate upcoming matches once and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runOnce(limit)
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 200, "Maximum number of matches to evaluate")
	return cmd
}

// app holds the wired components shared by both commands.
type app struct {
	cfg       *config.Config
	log       *logrus.Logger
	db        *database.DB
	repos     *repository.Repositories
	notifier  alerts.Notifier
	signalSvc *service.SignalService
}

func buildApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfigWithSecrets(configPath)
	if err != nil {
		return nil, err
	}

	log := logger.NewLoggerForEnvironment(cfg.App.LogLevel, cfg.App.Environment)
	metrics.InitRegistry()

	db, err := database.Initialize(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	repos, err := repository.NewRepositories(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	var notifier alerts.Notifier = alerts.NopNotifier{}
	if cfg.Alerts.Enabled {
		notifier, err = alerts.NewTelegramNotifier(cfg.Alerts, log)
		if err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to create telegram notifier: %w", err)
		}
	}

	signalSvc, err := service.NewSignalService(cfg, repos, notifier, log)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &app{
		cfg:       cfg,
		log:       log,
		db:        db,
		repos:     repos,
		notifier:  notifier,
		signalSvc: signalSvc,
	}, nil
}

func runOnce(limit int) error {
	ctx := context.Background()
	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.db.Close()

	signals, err := a.signalSvc.ProcessUpcoming(ctx, limit)
	if err != nil {
		return err
	}
	a.log.WithField("signals", len(signals)).Info("Batch completed")
	return nil
}

func runService() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	a, err := buildApp(ctx)
	if err != nil {
		return err
	}
	defer a.db.Close()

	apiServer, err := api.NewServer(a.cfg, a.repos, a.db, a.log)
	if err != nil {
		return err
	}
	if err := apiServer.Start(ctx); err != nil {
		return err
	}

	if a.cfg.Metrics.Enabled {
		startMetricsServer(ctx, a.cfg, a.log)
	}

	var sched *scheduler.Scheduler
	if a.cfg.Scheduler.Enabled {
		sched = scheduler.NewScheduler(a.signalSvc, a.log)
		if err := sched.ScheduleSignalGeneration(a.cfg.Scheduler.SignalSchedule); err != nil {
			return err
		}
		if err := sched.Start(); err != nil {
			return err
		}
		a.log.WithField("next_run", sched.GetNextRun()).Info("Signal scheduler running")
	}

	a.log.Info("Signal engine started")
	<-ctx.Done()
	a.log.Info("Shutting down")

	if sched != nil {
		sched.Stop()
	}
	apiServer.Shutdown()
	return nil
}

func startMetricsServer(ctx context.Context, cfg *config.Config, log *logrus.Logger) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, metrics.Handler())

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Metrics.Port),
		Handler:      mux,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Metrics.Port).Info("Metrics server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("Metrics server error")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()
}

func loadConfigWithSecrets(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return nil, fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return nil, fmt.Errorf("failed to load secrets: %w", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
