package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	VehicleAnalyses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "vehicle_analyses_total",
			Help: "Total number of vehicle analyses by outcome",
		},
		[]string{"price_action", "exit_path"},
	)

	VehicleAnalysisDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "vehicle_analysis_duration_seconds",
			Help:    "Duration of a single vehicle analysis in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .05, .1},
		},
	)

	ReanalysisRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reanalysis_runs_total",
			Help: "Total number of inventory reanalysis runs by result",
		},
		[]string{"result"},
	)

	ReanalysisVehicles = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "reanalysis_last_run_vehicles",
			Help: "Number of vehicles analyzed by the last reanalysis run",
		},
	)

	ReportCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "report_cache_lookups_total",
			Help: "Report cache lookups by result",
		},
		[]string{"result"},
	)
)
