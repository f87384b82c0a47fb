// Package main provides the entry point for the racedash service.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/racedash/internal/analytics"
	"github.com/yourusername/racedash/internal/cache"
	"github.com/yourusername/racedash/internal/config"
	"github.com/yourusername/racedash/internal/database"
	"github.com/yourusername/racedash/internal/health"
	"github.com/yourusername/racedash/internal/logger"
	"github.com/yourusername/racedash/internal/metrics"
	"github.com/yourusername/racedash/internal/oddsfeed"
	"github.com/yourusername/racedash/internal/raceclock"
	"github.com/yourusername/racedash/internal/repository"
	"github.com/yourusername/racedash/internal/resultsource"
	"github.com/yourusername/racedash/internal/scheduler"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
)

var configFile string

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
}

var rootCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Run the model performance dashboard service",
	Long:  `Continuously refreshes per-model race-day performance summaries and serves health and metrics endpoints.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return run()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func run() error {
	cfg, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog := logger.NewLogger(cfg.App.LogLevel)
	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"version":     Version,
		"commit":      GitCommit,
	}).Info("Racedash starting")

	location := time.UTC
	if cfg.App.Timezone != "" {
		location, err = time.LoadLocation(cfg.App.Timezone)
		if err != nil {
			return fmt.Errorf("invalid timezone %q: %w", cfg.App.Timezone, err)
		}
	}
	clock := raceclock.NewSystemClock(location)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	appLog.Info("Database connection established")

	specs := cfg.ModelSet()
	repos, err := repository.NewRepositories(db, specs)
	if err != nil {
		return fmt.Errorf("failed to initialize repositories: %w", err)
	}

	metrics.InitRegistry()

	sources := []resultsource.PositionSource{
		resultsource.NewRunnerResultSource(repos.RunnerResult),
		resultsource.NewEntryPositionSource(repos.Entry),
		resultsource.NewArchiveSource(repos.Archive, clock),
	}

	var httpClient *resultsource.RateLimitedHTTPClient
	if cfg.ResultsAPI.Enabled {
		httpCfg := resultsource.DefaultHTTPClientConfig()
		if cfg.ResultsAPI.TimeoutSeconds > 0 {
			httpCfg.Timeout = time.Duration(cfg.ResultsAPI.TimeoutSeconds) * time.Second
		}
		if cfg.ResultsAPI.RateLimit > 0 {
			httpCfg.RateLimit = cfg.ResultsAPI.RateLimit
		}
		if cfg.ResultsAPI.MaxRetries > 0 {
			httpCfg.MaxRetries = cfg.ResultsAPI.MaxRetries
		}

		httpClient = resultsource.NewRateLimitedHTTPClient(httpCfg, appLog)
		sources = append(sources, resultsource.NewRemoteResultsSource(
			httpClient, cfg.ResultsAPI.BaseURL, cfg.ResultsAPI.APIKey, appLog))
		appLog.WithField("base_url", cfg.ResultsAPI.BaseURL).Info("Remote results API enabled")
	}
	defer func() {
		if httpClient != nil {
			httpClient.Close()
		}
	}()

	resolver := resultsource.NewResolver(sources, cfg.Dashboard.ResultBatchSize, appLog)
	snapshots := cache.NewSnapshotCache(cfg.CacheTTL())

	engine, err := analytics.NewEngine(repos, resolver, snapshots, clock, specs, appLog)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	var feed *oddsfeed.StreamClient
	if cfg.OddsFeed.Enabled {
		feed = oddsfeed.NewStreamClient(cfg.OddsFeed.StreamURL, cfg.OddsFeed.APIKey, repos.Entry, appLog)

		races, err := repos.Race.GetByDate(ctx, clock.Today())
		if err != nil {
			appLog.WithError(err).Warn("Could not fetch today's races for odds subscription")
		}
		raceIDs := make([]string, 0, len(races))
		for _, race := range races {
			raceIDs = append(raceIDs, race.ID)
		}

		go func() {
			if err := feed.Run(ctx, raceIDs); err != nil && ctx.Err() == nil {
				appLog.WithError(err).Error("Odds feed stopped")
			}
		}()
	}

	healthCfg := health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Logger:      appLog,
		DB:          db,
	}
	if feed != nil {
		healthCfg.Feed = feed
	}
	healthServer := health.NewServer(healthCfg)
	if err := healthServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}

	var metricsServer *http.Server
	if cfg.Metrics.Enabled {
		mux := http.NewServeMux()
		mux.Handle(cfg.Metrics.Path, metrics.Handler())
		metricsServer = &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Metrics.Port),
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
		}
		go func() {
			appLog.WithField("port", cfg.Metrics.Port).Info("Metrics server starting")
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				appLog.WithError(err).Error("Metrics server error")
			}
		}()
	}

	// First refresh runs inline so the dashboard is populated before
	// readiness flips.
	if _, err := engine.RefreshToday(ctx); err != nil {
		appLog.WithError(err).Error("Initial performance refresh failed")
	}

	sched := scheduler.NewScheduler(engine, snapshots, location, appLog)
	if err := sched.ScheduleRefresh(cfg.Dashboard.RefreshIntervalSeconds); err != nil {
		return fmt.Errorf("failed to schedule refresh: %w", err)
	}
	if cfg.Dashboard.DailyResetCron != "" {
		if err := sched.ScheduleDailyReset(cfg.Dashboard.DailyResetCron); err != nil {
			return fmt.Errorf("failed to schedule daily reset: %w", err)
		}
	}
	if err := sched.Start(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}

	healthServer.SetReady(true)
	appLog.WithFields(logrus.Fields{
		"models":           len(specs),
		"refresh_interval": cfg.Dashboard.RefreshIntervalSeconds,
		"odds_feed":        cfg.OddsFeed.Enabled,
		"results_api":      cfg.ResultsAPI.Enabled,
	}).Info("Racedash running")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	appLog.WithField("signal", sig.String()).Info("Shutdown signal received")

	healthServer.SetReady(false)
	cancel()

	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Error("Error stopping scheduler")
	}
	if feed != nil {
		if err := feed.Close(); err != nil {
			appLog.WithError(err).Error("Error closing odds feed")
		}
	}
	if metricsServer != nil {
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		if err := metricsServer.Shutdown(shutdownCtx); err != nil {
			appLog.WithError(err).Error("Error stopping metrics server")
		}
	}

	appLog.Info("Racedash shut down successfully")
	return nil
}
