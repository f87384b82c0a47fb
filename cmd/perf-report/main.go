// Package main provides a one-shot CLI that prints per-model
// performance for a race day.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/racedash/internal/analytics"
	"github.com/yourusername/racedash/internal/config"
	"github.com/yourusername/racedash/internal/database"
	"github.com/yourusername/racedash/internal/models"
	"github.com/yourusername/racedash/internal/raceclock"
	"github.com/yourusername/racedash/internal/repository"
	"github.com/yourusername/racedash/internal/resultsource"
)

func main() {
	var (
		configPath = flag.String("config", "config/config.yaml", "Path to config file")
		date       = flag.String("date", "", "Race date (YYYY-MM-DD, default today)")
		modelName  = flag.String("model", "", "Only report this model")
		verbose    = flag.Bool("verbose", false, "Print the per-race result lines")
	)
	flag.Parse()

	logger := newLogger()
	ctx := context.Background()

	cfg := loadConfigWithSecrets(*configPath, logger)

	location := time.UTC
	if cfg.App.Timezone != "" {
		loc, err := time.LoadLocation(cfg.App.Timezone)
		if err != nil {
			logger.Fatalf("Invalid timezone: %v", err)
		}
		location = loc
	}
	clock := raceclock.NewSystemClock(location)

	reportDate := *date
	if reportDate == "" {
		reportDate = clock.Today()
	} else if reportDate != clock.Today() {
		// Pin the clock to the end of the requested day so the archive
		// source scopes to that date and no stale "next runner" shows.
		parsed, err := time.ParseInLocation("2006-01-02", reportDate, location)
		if err != nil {
			logger.Fatalf("Invalid date %q: %v", reportDate, err)
		}
		clock = raceclock.NewFixedClock(parsed.Add(23*time.Hour + 59*time.Minute))
	}

	db, err := database.NewDB(ctx, &cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	specs := cfg.ModelSet()
	if *modelName != "" {
		specs = filterModel(specs, *modelName)
		if len(specs) == 0 {
			logger.Fatalf("Unknown model: %s", *modelName)
		}
	}

	repos, err := repository.NewRepositories(db, specs)
	if err != nil {
		logger.Fatalf("Failed to initialize repositories: %v", err)
	}

	sources := []resultsource.PositionSource{
		resultsource.NewRunnerResultSource(repos.RunnerResult),
		resultsource.NewEntryPositionSource(repos.Entry),
		resultsource.NewArchiveSource(repos.Archive, clock),
	}
	resolver := resultsource.NewResolver(sources, cfg.Dashboard.ResultBatchSize, logger)

	engine, err := analytics.NewEngine(repos, resolver, nil, clock, specs, logger)
	if err != nil {
		logger.Fatalf("Failed to create engine: %v", err)
	}

	performances, err := engine.Refresh(ctx, reportDate)
	if err != nil {
		logger.Fatalf("Refresh failed: %v", err)
	}

	printReport(reportDate, performances, *verbose)
}

func filterModel(specs []models.ModelSpec, name string) []models.ModelSpec {
	for _, spec := range specs {
		if spec.Name == name {
			return []models.ModelSpec{spec}
		}
	}
	return nil
}

func newLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.WarnLevel)
	return logger
}

func loadConfigWithSecrets(path string, logger *logrus.Logger) *config.Config {
	cfg, err := config.LoadWithDefaults(path)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			logger.Fatalf("AWS_REGION and AWS_SECRET_NAME environment variables must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(cfg, region, secretName); err != nil {
			logger.Fatalf("Failed to load secrets: %v", err)
		}
	}
	if err := config.Validate(cfg); err != nil {
		logger.Fatalf("Invalid configuration: %v", err)
	}
	return cfg
}

func printReport(date string, performances []*models.ModelPerformance, verbose bool) {
	fmt.Printf("Model performance for %s\n\n", date)
	fmt.Printf("%-12s %8s %10s %6s %8s %8s %8s %8s %6s\n",
		"MODEL", "RACES", "COMPLETED", "WINS", "LOSSES", "TOP3", "WINRATE", "TREND", "DUE")

	for _, perf := range performances {
		winRate := "N/A"
		if perf.HasData() {
			winRate = fmt.Sprintf("%.1f%%", perf.WinRate)
		}
		due := ""
		if perf.DueWinner {
			due = "yes"
		}
		fmt.Printf("%-12s %8d %10d %6d %8d %8d %8s %8s %6s\n",
			perf.ModelName, perf.TotalRaces, perf.CompletedRaces,
			perf.Wins, perf.Losses, perf.Top3, winRate, perf.Trend, due)
	}

	for _, perf := range performances {
		if perf.NextRunner != nil {
			next := perf.NextRunner
			fmt.Printf("\n%s next pick: %s at %s %s (p=%.3f", perf.ModelName,
				next.HorseName, next.Course, next.OffTime, next.Probability)
			if next.CurrentOdds != "" {
				fmt.Printf(", odds %s", next.CurrentOdds)
			}
			fmt.Println(")")
		}
	}

	if verbose {
		for _, perf := range performances {
			if len(perf.RaceResults) == 0 {
				continue
			}
			fmt.Printf("\n%s results (source: %s):\n", perf.ModelName, perf.ResultsSource)
			for _, line := range perf.RaceResults {
				mark := " "
				if line.IsWinner {
					mark = "W"
				}
				fmt.Printf("  [%s] %s %s  %-24s p=%.3f  pos=%d\n",
					mark, line.OffTime, line.Course, line.HorseName,
					line.Probability, line.FinishingPosition)
			}
		}
	}
}
