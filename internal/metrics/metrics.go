// Package metrics provides the centralized Prometheus metrics registry.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	MatchesProcessedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "tennis_edge",
		Name:      "matches_processed_total",
		Help:      "Total number of match records processed by the signal pipeline",
	})
	SignalsGeneratedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tennis_edge",
		Name:      "signals_generated_total",
		Help:      "Total number of value signals generated by confidence level",
	}, []string{"confidence_level"})
	MarketsRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tennis_edge",
		Name:      "markets_rejected_total",
		Help:      "Total number of markets rejected during normalization by reason",
	}, []string{"reason"})
	AlertsSentTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tennis_edge",
		Name:      "alerts_sent_total",
		Help:      "Total number of alerts sent by type and status",
	}, []string{"type", "status"})
	BacktestRunsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tennis_edge",
		Name:      "backtest_runs_total",
		Help:      "Total number of backtest runs by status",
	}, []string{"status"})
)

// Gauge metrics
var (
	CurrentBankroll = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tennis_edge",
		Name:      "current_bankroll",
		Help:      "Configured bankroll in currency units",
	})
	ActiveSignals = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "tennis_edge",
		Name:      "active_signals",
		Help:      "Number of signals currently in active status",
	})
)

// Histogram metrics
var (
	SignalExpectedValue = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tennis_edge",
		Name:      "signal_expected_value",
		Help:      "Expected value of generated signals",
		Buckets:   []float64{0.02, 0.05, 0.1, 0.15, 0.2, 0.3, 0.5},
	})
	BatchDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tennis_edge",
		Name:      "signal_batch_duration_seconds",
		Help:      "Duration of one signal generation batch in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	BacktestDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "tennis_edge",
		Name:      "backtest_duration_seconds",
		Help:      "Duration of backtest runs in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 5, 10, 30, 60, 300},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(MatchesProcessedTotal)
		registry.MustRegister(SignalsGeneratedTotal)
		registry.MustRegister(MarketsRejectedTotal)
		registry.MustRegister(AlertsSentTotal)
		registry.MustRegister(BacktestRunsTotal)

		registry.MustRegister(CurrentBankroll)
		registry.MustRegister(ActiveSignals)

		registry.MustRegister(SignalExpectedValue)
		registry.MustRegister(BatchDuration)
		registry.MustRegister(BacktestDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordMatchProcessed records one processed match record.
func RecordMatchProcessed() {
	MatchesProcessedTotal.Inc()
}

// RecordSignalGenerated records a generated signal and its expected value.
func RecordSignalGenerated(confidenceLevel string, expectedValue float64) {
	SignalsGeneratedTotal.WithLabelValues(confidenceLevel).Inc()
	SignalExpectedValue.Observe(expectedValue)
}

// RecordMarketRejected records a rejected market.
func RecordMarketRejected(reason string) {
	MarketsRejectedTotal.WithLabelValues(reason).Inc()
}

// RecordAlertSent records an alert delivery attempt.
func RecordAlertSent(alertType, status string) {
	AlertsSentTotal.WithLabelValues(alertType, status).Inc()
}

// RecordBacktestRun records a completed backtest run and its duration.
func RecordBacktestRun(status string, durationSeconds float64) {
	BacktestRunsTotal.WithLabelValues(status).Inc()
	BacktestDuration.Observe(durationSeconds)
}

// RecordBatchDuration records the duration of a signal generation batch.
func RecordBatchDuration(durationSeconds float64) {
	BatchDuration.Observe(durationSeconds)
}

// UpdateBankroll updates the bankroll gauge.
func UpdateBankroll(bankroll float64) {
	CurrentBankroll.Set(bankroll)
}

// UpdateActiveSignals updates the active signals gauge.
func UpdateActiveSignals(count float64) {
	ActiveSignals.Set(count)
}
