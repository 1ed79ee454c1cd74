// Package config provides configuration management for the Tennis Edge application.
package config

import (
	"os"
	"strings"
	"testing"
)

const (
	validConfigPath            = "testdata/valid_config.yaml"
	expansionConfigPath        = "testdata/expansion_config.yaml"
	expansionConfigMissingPath = "testdata/expansion_config_missing.yaml"
	nonexistentConfigPath      = "testdata/nonexistent_config.yaml"
)

// TestLoadConfigSuccess tests loading a valid configuration file
func TestLoadConfigSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg == nil {
		t.Fatal("expected non-nil config")
	}

	if cfg.App.Name != "tennis-edge" {
		t.Errorf("expected app name 'tennis-edge', got '%s'", cfg.App.Name)
	}
	if cfg.App.Environment != "development" {
		t.Errorf("expected environment 'development', got '%s'", cfg.App.Environment)
	}
	if cfg.Database.Host != "localhost" {
		t.Errorf("expected database host 'localhost', got '%s'", cfg.Database.Host)
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("expected database port 5432, got %d", cfg.Database.Port)
	}
	if cfg.Staking.KellyFraction != 0.5 {
		t.Errorf("expected kelly fraction 0.5, got %v", cfg.Staking.KellyFraction)
	}
	if cfg.Signals.MinConfidenceLevel != "medium" {
		t.Errorf("expected min confidence level 'medium', got '%s'", cfg.Signals.MinConfidenceLevel)
	}
}

// TestLoadConfigFileNotFound tests handling of missing configuration file
func TestLoadConfigFileNotFound(t *testing.T) {
	if _, err := Load(nonexistentConfigPath); err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestLoadConfigEnvironmentVariables tests environment variable override
func TestLoadConfigEnvironmentVariables(t *testing.T) {
	os.Setenv("TENNIS_EDGE_APP_NAME", "test-app")
	defer os.Unsetenv("TENNIS_EDGE_APP_NAME")

	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.App.Name != "test-app" {
		t.Errorf("expected app name 'test-app' from environment, got '%s'", cfg.App.Name)
	}
}

// TestValidateSuccess tests validation of a valid configuration
func TestValidateSuccess(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}
	if err := Validate(cfg); err != nil {
		t.Fatalf("expected no validation error, got %v", err)
	}
}

// TestValidateInvalidEnvironment tests validation of invalid environment
func TestValidateInvalidEnvironment(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	cfg.App.Environment = "invalid"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for invalid environment")
	}
}

// TestValidateConfidenceThresholdOrdering tests that inverted bands fail
func TestValidateConfidenceThresholdOrdering(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	cfg.Signals.ConfidenceLowThreshold = 0.8
	cfg.Signals.ConfidenceHighThreshold = 0.6
	err = Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error for inverted confidence thresholds")
	}
	if !strings.Contains(err.Error(), "confidence_low_threshold") {
		t.Errorf("expected threshold ordering error, got: %v", err)
	}
}

// TestValidateInvalidStaking tests stake sizing bounds
func TestValidateInvalidStaking(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	cfg.Staking.KellyFraction = 1.5
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for kelly_fraction above 1")
	}
}

// TestValidateBacktestDateRange tests backtest date ordering
func TestValidateBacktestDateRange(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	cfg.Backtest.StartDate = "2024-06-30"
	cfg.Backtest.EndDate = "2024-01-01"
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for inverted backtest date range")
	}
}

// TestValidateAlertsRequireToken tests alert credential checks
func TestValidateAlertsRequireToken(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	cfg.Alerts.Enabled = true
	cfg.Alerts.TelegramToken = ""
	if err := Validate(cfg); err == nil {
		t.Fatal("expected validation error for enabled alerts without a token")
	}
}

// TestGetDatabaseDSN tests DSN generation
func TestGetDatabaseDSN(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	dsn := cfg.GetDatabaseDSN()
	if dsn == "" {
		t.Fatal("expected non-empty DSN")
	}
	if !strings.HasPrefix(dsn, "postgres://") {
		t.Errorf("expected DSN to start with 'postgres://', got '%s'", dsn)
	}
	if !strings.Contains(dsn, "tennis_edge") {
		t.Errorf("expected DSN to contain database name, got '%s'", dsn)
	}
}

// TestIsDevelopment tests environment check function
func TestIsDevelopment(t *testing.T) {
	cfg := &Config{App: AppConfig{Environment: "development"}}
	if !cfg.IsDevelopment() {
		t.Error("expected IsDevelopment() to return true")
	}
	if cfg.IsProduction() {
		t.Error("expected IsProduction() to return false")
	}
}

// TestIsProduction tests production environment check
func TestIsProduction(t *testing.T) {
	cfg := &Config{App: AppConfig{Environment: "production"}}
	if !cfg.IsProduction() {
		t.Error("expected IsProduction() to return true")
	}
	if cfg.IsStaging() {
		t.Error("expected IsStaging() to return false")
	}
}

// TestSecretsOverlay tests applying a secrets overlay to the config
func TestSecretsOverlay(t *testing.T) {
	cfg, err := Load(validConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}

	overlaySecretsOnConfig(cfg, &SecretsOverlay{
		DatabasePassword: "vault-password",
		APIKey:           "vault-key",
		TelegramToken:    "vault-token",
	})

	if cfg.Database.Password != "vault-password" {
		t.Errorf("expected overlaid database password, got '%s'", cfg.Database.Password)
	}
	if cfg.API.Key != "vault-key" {
		t.Errorf("expected overlaid API key, got '%s'", cfg.API.Key)
	}
	if cfg.Alerts.TelegramToken != "vault-token" {
		t.Errorf("expected overlaid telegram token, got '%s'", cfg.Alerts.TelegramToken)
	}
}

// TestLoadConfigEnvironmentVariableExpansion tests environment variable expansion in config file
func TestLoadConfigEnvironmentVariableExpansion(t *testing.T) {
	os.Setenv("TEST_DB_PASSWORD", "expanded_secret_value")
	defer os.Unsetenv("TEST_DB_PASSWORD")

	cfg, err := Load(expansionConfigPath)
	if err != nil {
		t.Fatalf("expected no error loading config with expansion, got %v", err)
	}
	if cfg.Database.Password != "expanded_secret_value" {
		t.Errorf("expected password from environment expansion, got '%s'", cfg.Database.Password)
	}
}

// TestLoadConfigMissingEnvironmentVariable tests handling of missing environment variables
func TestLoadConfigMissingEnvironmentVariable(t *testing.T) {
	os.Unsetenv("TEST_MISSING_VAR")

	cfg, err := Load(expansionConfigMissingPath)
	if err != nil {
		t.Fatalf("expected no error loading config, got %v", err)
	}
	// os.ExpandEnv replaces unset variables with the empty string.
	if cfg.Database.Password != "" {
		t.Errorf("expected empty password for unset variable, got %q", cfg.Database.Password)
	}
}

// TestLoadWithDefaults tests defaults when no file is present
func TestLoadWithDefaults(t *testing.T) {
	cfg, err := LoadWithDefaults(nonexistentConfigPath)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if cfg.App.Environment != "development" {
		t.Errorf("expected default environment 'development', got '%s'", cfg.App.Environment)
	}
	if cfg.Staking.KellyFraction != 0.5 {
		t.Errorf("expected default kelly fraction 0.5, got %v", cfg.Staking.KellyFraction)
	}
	if cfg.Signals.ConfidenceHighThreshold != 0.7 {
		t.Errorf("expected default high threshold 0.7, got %v", cfg.Signals.ConfidenceHighThreshold)
	}
}
