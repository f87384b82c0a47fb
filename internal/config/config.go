// Package config provides configuration management for the racedash service.
package config

import (
	"fmt"
	"time"

	"github.com/yourusername/racedash/internal/models"
)

// Config represents the complete application configuration
type Config struct {
	App        AppConfig        `mapstructure:"app" validate:"required"`
	Database   DatabaseConfig   `mapstructure:"database" validate:"required"`
	ResultsAPI ResultsAPIConfig `mapstructure:"results_api"`
	OddsFeed   OddsFeedConfig   `mapstructure:"odds_feed"`
	Dashboard  DashboardConfig  `mapstructure:"dashboard" validate:"required"`
	Models     []models.ModelSpec `mapstructure:"models" validate:"omitempty,dive"`
	Metrics    MetricsConfig    `mapstructure:"metrics" validate:"required"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
	Timezone    string `mapstructure:"timezone"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Host           string `mapstructure:"host" validate:"required"`
	Port           int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Name           string `mapstructure:"name" validate:"required"`
	User           string `mapstructure:"user" validate:"required"`
	Password       string `mapstructure:"password" validate:"required"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"required,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"required,gt=0"`
}

// ResultsAPIConfig represents the external results API configuration
type ResultsAPIConfig struct {
	Enabled        bool    `mapstructure:"enabled"`
	BaseURL        string  `mapstructure:"base_url" validate:"required_if=Enabled true,omitempty,url"`
	APIKey         string  `mapstructure:"api_key"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds" validate:"omitempty,gt=0"`
	RateLimit      float64 `mapstructure:"rate_limit" validate:"omitempty,gt=0"`
	MaxRetries     int     `mapstructure:"max_retries" validate:"omitempty,gte=0"`
}

// OddsFeedConfig represents the live odds stream configuration
type OddsFeedConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	StreamURL string `mapstructure:"stream_url" validate:"required_if=Enabled true"`
	APIKey    string `mapstructure:"api_key"`
}

// DashboardConfig represents refresh and caching configuration
type DashboardConfig struct {
	RefreshIntervalSeconds int    `mapstructure:"refresh_interval_seconds" validate:"required,gt=0"`
	DailyResetCron         string `mapstructure:"daily_reset_cron"`
	CacheTTLSeconds        int    `mapstructure:"cache_ttl_seconds" validate:"required,gt=0"`
	ResultBatchSize        int    `mapstructure:"result_batch_size" validate:"required,gt=0"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port" validate:"required,min=1,max=65535"`
	Path    string `mapstructure:"path" validate:"required"`
}

// IsDevelopment checks if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// ModelSet returns the configured model specs, falling back to the
// default set when the config names none. The number of models is
// never hard-assumed.
func (c *Config) ModelSet() []models.ModelSpec {
	if len(c.Models) > 0 {
		return c.Models
	}
	return models.DefaultModels()
}

// CacheTTL returns the snapshot cache TTL as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.Dashboard.CacheTTLSeconds) * time.Second
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
