// Package main provides the entry point for the backtesting CLI tool.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/tennis-edge/internal/alerts"
	"github.com/yourusername/tennis-edge/internal/backtest"
	"github.com/yourusername/tennis-edge/internal/config"
	"github.com/yourusername/tennis-edge/internal/database"
	"github.com/yourusername/tennis-edge/internal/logger"
	"github.com/yourusername/tennis-edge/internal/metrics"
	"github.com/yourusername/tennis-edge/internal/repository"
	"github.com/yourusername/tennis-edge/internal/service"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		startDate  = flag.String("start-date", "", "Override start date (YYYY-MM-DD)")
		endDate    = flag.String("end-date", "", "Override end date (YYYY-MM-DD)")
		strategy   = flag.String("strategy", "", "Override strategy name")
		mode       = flag.String("mode", "historical", "Backtest mode: historical, monte-carlo, all")
		output     = flag.String("output", "", "Output directory for result files")
	)
	flag.Parse()

	ctx := context.Background()

	cfg := loadConfigWithSecrets(*configPath)
	applyOverrides(cfg, *startDate, *endDate, *strategy, *mode)

	log := logger.NewLoggerForEnvironment(cfg.App.LogLevel, cfg.App.Environment)
	metrics.InitRegistry()

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	repos, err := repository.NewRepositories(db)
	if err != nil {
		log.Fatalf("Failed to create repositories: %v", err)
	}

	notifier := buildNotifier(cfg, log)
	svc, err := service.NewBacktestService(cfg, repos, notifier, log)
	if err != nil {
		log.Fatalf("Failed to create backtest service: %v", err)
	}

	log.WithFields(logrus.Fields{
		"strategy": cfg.Backtest.Strategy,
		"start":    cfg.Backtest.StartDate,
		"end":      cfg.Backtest.EndDate,
		"mode":     *mode,
	}).Info("Starting backtest")

	result, err := svc.Run(ctx)
	if err != nil {
		log.Fatalf("Backtest failed: %v", err)
	}

	fmt.Print(backtest.GenerateConsoleReport(result.Report))
	if result.MonteCarlo != nil {
		fmt.Println("Monte Carlo:")
		fmt.Println(result.MonteCarlo.ToJSON())
	}

	outputDir := *output
	if outputDir == "" {
		outputDir = cfg.Backtest.OutputPath
	}
	if outputDir != "" {
		if err := writeResults(result, outputDir); err != nil {
			log.Fatalf("Failed to write results: %v", err)
		}
		log.WithField("output", outputDir).Info("Backtest results written")
	}
}

func loadConfigWithSecrets(path string) *config.Config {
	cfg, err := config.Load(path)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			logrus.Fatal("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			logrus.Fatalf("Failed to load secrets: %v", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		logrus.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

func applyOverrides(cfg *config.Config, startDate, endDate, strategy, mode string) {
	if startDate != "" {
		cfg.Backtest.StartDate = startDate
	}
	if endDate != "" {
		cfg.Backtest.EndDate = endDate
	}
	if strategy != "" {
		cfg.Backtest.Strategy = strategy
	}
	switch mode {
	case "historical":
		cfg.Backtest.MonteCarloIterations = 0
	case "monte-carlo", "all":
		if cfg.Backtest.MonteCarloIterations <= 0 {
			cfg.Backtest.MonteCarloIterations = 10000
		}
	default:
		logrus.Fatalf("Unknown mode %q", mode)
	}
}

func buildNotifier(cfg *config.Config, log *logrus.Logger) alerts.Notifier {
	if !cfg.Alerts.Enabled {
		return alerts.NopNotifier{}
	}
	notifier, err := alerts.NewTelegramNotifier(cfg.Alerts, log)
	if err != nil {
		log.Fatalf("Failed to create telegram notifier: %v", err)
	}
	return notifier
}

func writeResults(result *service.BacktestResult, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}
	if err := backtest.GenerateJSONExport(result.Report, filepath.Join(outputDir, "report.json")); err != nil {
		return err
	}
	if err := backtest.GenerateCSVExport(result.Report, filepath.Join(outputDir, "metrics.csv")); err != nil {
		return err
	}
	return backtest.GenerateEquityCSV(result.State.EquityCurve, filepath.Join(outputDir, "equity.csv"))
}
