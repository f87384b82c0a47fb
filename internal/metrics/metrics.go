// Package metrics provides the centralized Prometheus registry for the
// dashboard engine.
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
	RefreshesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "racedash",
		Name:      "refreshes_total",
		Help:      "Total number of performance refreshes",
	})
	RefreshFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "racedash",
		Name:      "refresh_failures_total",
		Help:      "Total number of failed performance refreshes",
	})
	SourceFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "racedash",
		Name:      "result_source_failures_total",
		Help:      "Total number of result source query failures",
	}, []string{"source"})
	SourceResolutionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "racedash",
		Name:      "result_source_resolutions_total",
		Help:      "Total number of resolutions satisfied per source",
	}, []string{"source"})
	OddsUpdatesTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "racedash",
		Name:      "odds_updates_total",
		Help:      "Total number of live odds updates applied",
	})
	UnmatchedPicksTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "racedash",
		Name:      "unmatched_picks_total",
		Help:      "Races with a result where no ranked pick could be matched, per model",
	}, []string{"model"})
	AmbiguousMatchesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "racedash",
		Name:      "ambiguous_matches_total",
		Help:      "Runner identity matches abandoned because fuzzy candidates disagreed, per model",
	}, []string{"model"})
)

// Gauge metrics
var (
	CompletedRaces = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "racedash",
		Name:      "completed_races",
		Help:      "Races with settled results per model on the current day",
	}, []string{"model"})
	ModelWinRate = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "racedash",
		Name:      "model_win_rate",
		Help:      "Win rate percentage per model on the current day",
	}, []string{"model"})
	SnapshotCacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "racedash",
		Name:      "snapshot_cache_hit_ratio",
		Help:      "Hit ratio of the performance snapshot cache",
	})
)

// Histogram metrics
var (
	RefreshDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "racedash",
		Name:      "refresh_duration_seconds",
		Help:      "Duration of performance refreshes in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(RefreshesTotal)
		registry.MustRegister(RefreshFailuresTotal)
		registry.MustRegister(SourceFailuresTotal)
		registry.MustRegister(SourceResolutionsTotal)
		registry.MustRegister(OddsUpdatesTotal)
		registry.MustRegister(UnmatchedPicksTotal)
		registry.MustRegister(AmbiguousMatchesTotal)

		registry.MustRegister(CompletedRaces)
		registry.MustRegister(ModelWinRate)
		registry.MustRegister(SnapshotCacheHitRatio)

		registry.MustRegister(RefreshDuration)
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

// RecordRefresh records a completed refresh and its duration.
func RecordRefresh(durationSeconds float64) {
	RefreshesTotal.Inc()
	RefreshDuration.Observe(durationSeconds)
}

// RecordRefreshFailure records a failed refresh.
func RecordRefreshFailure() {
	RefreshFailuresTotal.Inc()
}

// RecordSourceFailure records a result source query failure.
func RecordSourceFailure(source string) {
	SourceFailuresTotal.WithLabelValues(source).Inc()
}

// RecordSourceResolution records which source satisfied a resolution.
func RecordSourceResolution(source string) {
	SourceResolutionsTotal.WithLabelValues(source).Inc()
}

// RecordOddsUpdate records a live odds update.
func RecordOddsUpdate() {
	OddsUpdatesTotal.Inc()
}

// RecordUnmatchedPick records a settled race where no ranked pick
// could be placed for the model.
func RecordUnmatchedPick(model string) {
	UnmatchedPicksTotal.WithLabelValues(model).Inc()
}

// RecordAmbiguousMatch records an identity match abandoned as ambiguous.
func RecordAmbiguousMatch(model string) {
	AmbiguousMatchesTotal.WithLabelValues(model).Inc()
}

// UpdateModelGauges updates per-model day gauges.
func UpdateModelGauges(model string, completed int, winRate float64) {
	CompletedRaces.WithLabelValues(model).Set(float64(completed))
	ModelWinRate.WithLabelValues(model).Set(winRate)
}
