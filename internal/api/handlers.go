package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/yourusername/tennis-edge/internal/alerts"
	"github.com/yourusername/tennis-edge/internal/models"
	"github.com/yourusername/tennis-edge/internal/service"
)

const defaultSignalLimit = 50

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	checks := map[string]string{"service": "ok"}
	status := http.StatusOK
	overall := "ok"

	if s.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()
		if err := s.db.HealthCheck(ctx); err != nil {
			checks["database"] = "error: " + err.Error()
			status = http.StatusServiceUnavailable
			overall = "degraded"
		} else {
			checks["database"] = "ok"
		}
	}

	writeJSON(w, status, map[string]any{
		"status":    overall,
		"service":   s.cfg.App.Name,
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleListSignals(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := defaultSignalLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	signals, err := s.repos.Signal.GetActive(r.Context(), limit)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load active signals")
		writeError(w, http.StatusInternalServerError, "failed to load signals")
		return
	}
	if signals == nil {
		signals = []*models.Signal{}
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"count":   len(signals),
		"signals": signals,
	})
}

func (s *Server) handleGetSignal(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	rawID := strings.TrimPrefix(r.URL.Path, "/api/signals/")
	id, err := uuid.Parse(rawID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid signal id")
		return
	}

	sig, err := s.repos.Signal.GetByID(r.Context(), id)
	if err != nil {
		if err == models.ErrNotFound {
			writeError(w, http.StatusNotFound, "signal not found")
			return
		}
		s.logger.WithError(err).Error("Failed to load signal")
		writeError(w, http.StatusInternalServerError, "failed to load signal")
		return
	}

	writeJSON(w, http.StatusOK, sig)
}

// signalStats aggregates the active signal book for the stats endpoint.
type signalStats struct {
	ActiveSignals    int            `json:"active_signals"`
	ByConfidence     map[string]int `json:"by_confidence"`
	AvgExpectedValue float64        `json:"avg_expected_value"`
	TotalRecommended float64        `json:"total_recommended_stake"`
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	signals, err := s.repos.Signal.GetActive(r.Context(), 0)
	if err != nil {
		s.logger.WithError(err).Error("Failed to load active signals")
		writeError(w, http.StatusInternalServerError, "failed to load signals")
		return
	}

	stats := signalStats{ByConfidence: map[string]int{}}
	stats.ActiveSignals = len(signals)
	for _, sig := range signals {
		stats.ByConfidence[string(sig.ConfidenceLevel)]++
		stats.AvgExpectedValue += sig.ExpectedValue
		stats.TotalRecommended += sig.RecommendedStake
	}
	if stats.ActiveSignals > 0 {
		stats.AvgExpectedValue /= float64(stats.ActiveSignals)
	}

	writeJSON(w, http.StatusOK, stats)
}

// backtestRequest overrides the configured backtest window per request.
// Zero-valued fields fall back to the server configuration.
type backtestRequest struct {
	StartDate            string  `json:"start_date"`
	EndDate              string  `json:"end_date"`
	Strategy             string  `json:"strategy"`
	InitialBankroll      float64 `json:"initial_bankroll"`
	MonteCarloIterations int     `json:"monte_carlo_iterations"`
}

func (s *Server) handleBacktest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req backtestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// Run against a copy so concurrent requests cannot see each other's
	// window overrides.
	runCfg := *s.cfg
	if req.StartDate != "" {
		runCfg.Backtest.StartDate = req.StartDate
	}
	if req.EndDate != "" {
		runCfg.Backtest.EndDate = req.EndDate
	}
	if req.Strategy != "" {
		runCfg.Backtest.Strategy = req.Strategy
	}
	if req.InitialBankroll > 0 {
		runCfg.Backtest.InitialBankroll = req.InitialBankroll
	}
	runCfg.Backtest.MonteCarloIterations = req.MonteCarloIterations
	runCfg.Alerts.Enabled = false

	svc, err := service.NewBacktestService(&runCfg, s.repos, alerts.NopNotifier{}, s.logger)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := svc.Run(r.Context())
	if err != nil {
		s.logger.WithError(err).Error("Backtest run failed")
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	response := map[string]any{"report": result.Report}
	if result.MonteCarlo != nil {
		response["monte_carlo"] = result.MonteCarlo
	}
	writeJSON(w, http.StatusOK, response)
}
