package obs

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "fuel_planner"

// Metrics holds the Prometheus collectors for trip planning.
type Metrics struct {
	TripsPlanned       *prometheus.CounterVec // labels: outcome={success,invalid_input,route_unavailable,provider_failure,busy}
	PlanningInProgress prometheus.Gauge
	PlannedStops       prometheus.Histogram

	RouteFetchDuration prometheus.Histogram

	// Station lookups.
	StationLookups *prometheus.CounterVec // labels: outcome={found,empty,error}
	ProviderCache  *prometheus.CounterVec // labels: cache={route,places}, result={hit,miss,error}
}

// NewMetrics creates and registers all metrics with the default Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		TripsPlanned: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "trips_planned_total",
			Help:      "Planning runs by outcome.",
		}, []string{"outcome"}),
		PlanningInProgress: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "planning_in_progress",
			Help:      "1 while a planning run is active, 0 otherwise.",
		}),
		PlannedStops: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "planned_stops",
			Help:      "Number of fuel stops per successful plan.",
			Buckets:   []float64{0, 1, 2, 3, 5, 8, 13, 21},
		}),
		RouteFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "route_fetch_duration_seconds",
			Help:      "Route provider request duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		StationLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "station_lookups_total",
			Help:      "Nearby station lookups by outcome.",
		}, []string{"outcome"}),
		ProviderCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_cache_total",
			Help:      "Provider response cache lookups by cache and result.",
		}, []string{"cache", "result"}),
	}

	prometheus.MustRegister(
		m.TripsPlanned,
		m.PlanningInProgress,
		m.PlannedStops,
		m.RouteFetchDuration,
		m.StationLookups,
		m.ProviderCache,
	)

	return m
}

// NewMetricsForTesting creates unregistered metrics so tests can build many instances.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		TripsPlanned:       prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "trips_planned_total"}, []string{"outcome"}),
		PlanningInProgress: prometheus.NewGauge(prometheus.GaugeOpts{Namespace: namespace, Name: "planning_in_progress"}),
		PlannedStops:       prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "planned_stops"}),
		RouteFetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{Namespace: namespace, Name: "route_fetch_duration_seconds"}),
		StationLookups:     prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "station_lookups_total"}, []string{"outcome"}),
		ProviderCache:      prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: namespace, Name: "provider_cache_total"}, []string{"cache", "result"}),
	}
}
