// Package config provides configuration management for the Tennis Edge application.
package config

import (
	"fmt"
)

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database" validate:"required"`
	Staking   StakingConfig   `mapstructure:"staking" validate:"required"`
	Signals   SignalsConfig   `mapstructure:"signals" validate:"required"`
	Backtest  BacktestConfig  `mapstructure:"backtest" validate:"required"`
	Alerts    AlertsConfig    `mapstructure:"alerts"`
	API       APIConfig       `mapstructure:"api" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host               string `mapstructure:"host" validate:"required"`
	Port               int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name               string `mapstructure:"name" validate:"required"`
	User               string `mapstructure:"user" validate:"required"`
	Password           string `mapstructure:"password" validate:"required"`
	SSLMode            string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections     int    `mapstructure:"max_connections" validate:"required,gt=0"`
	MaxIdleConnections int    `mapstructure:"max_idle_connections" validate:"required,gt=0"`
}

// StakingConfig represents bankroll and stake sizing configuration
type StakingConfig struct {
	Bankroll        float64 `mapstructure:"bankroll" validate:"required,gt=0"`
	KellyFraction   float64 `mapstructure:"kelly_fraction" validate:"required,gt=0,lte=1"`
	MaxStakePercent float64 `mapstructure:"max_stake_percent" validate:"required,gt=0,lte=1"`
	MinEVThreshold  float64 `mapstructure:"min_ev_threshold" validate:"gte=0"`
}

// SignalsConfig represents signal generation configuration
type SignalsConfig struct {
	ConfidenceLowThreshold  float64 `mapstructure:"confidence_low_threshold" validate:"gte=0,lte=1"`
	ConfidenceHighThreshold float64 `mapstructure:"confidence_high_threshold" validate:"gte=0,lte=1"`
	MinConfidenceLevel      string  `mapstructure:"min_confidence_level" validate:"required,oneof=low medium high"`
	Workers                 int     `mapstructure:"workers" validate:"required,gt=0"`
}

// BacktestConfig represents backtesting configuration
type BacktestConfig struct {
	StartDate            string  `mapstructure:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate              string  `mapstructure:"end_date" validate:"required,datetime=2006-01-02"`
	Strategy             string  `mapstructure:"strategy" validate:"required"`
	InitialBankroll      float64 `mapstructure:"initial_bankroll" validate:"required,gt=0"`
	MonteCarloIterations int     `mapstructure:"monte_carlo_iterations" validate:"gte=0"`
	OutputPath           string  `mapstructure:"output_path" validate:"required"`
}

// AlertsConfig represents Telegram alert delivery configuration
type AlertsConfig struct {
	Enabled          bool    `mapstructure:"enabled"`
	TelegramToken    string  `mapstructure:"telegram_token"`
	TelegramChatID   int64   `mapstructure:"telegram_chat_id"`
	RatePerMinute    float64 `mapstructure:"rate_per_minute" validate:"gte=0"`
	MinEVForAlert    float64 `mapstructure:"min_ev_for_alert" validate:"gte=0"`
	TimeoutSeconds   int     `mapstructure:"timeout_seconds" validate:"gte=0"`
	RetryMaxAttempts int     `mapstructure:"retry_max_attempts" validate:"gte=0"`
}

// APIConfig represents the HTTP API configuration
type APIConfig struct {
	Port            int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Key             string `mapstructure:"key"`
	CacheTTLSeconds int    `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// SchedulerConfig represents periodic signal generation scheduling
type SchedulerConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	SignalSchedule string `mapstructure:"signal_schedule"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsStaging checks if the application is running in staging mode
func (c *Config) IsStaging() bool {
	return c.App.Environment == "staging"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// GetDatabaseDSN returns a PostgreSQL DSN string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}
