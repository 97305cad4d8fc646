package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReportsEnqueued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lodgeroll_reports_enqueued_total",
		Help: "Total number of report jobs placed on the queue.",
	})

	ReportsDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lodgeroll_reports_dropped_total",
		Help: "Total number of report jobs rejected due to a full queue.",
	})

	ReportsBuilt = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lodgeroll_reports_built_total",
		Help: "Total number of reports built, labelled by profile and status.",
	}, []string{"profile", "status"})

	Decisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lodgeroll_decisions_total",
		Help: "Total number of (member, session) classifications, labelled by tag.",
	}, []string{"tag"})

	DataIssues = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "lodgeroll_data_issues_total",
		Help: "Total number of data-quality issues found in snapshots, labelled by kind.",
	}, []string{"kind"})

	ReportBuildDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "lodgeroll_report_build_duration_ms",
		Help:    "Report build latency in milliseconds, snapshot load included.",
		Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 10000},
	})

	QueueUtilization = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "lodgeroll_queue_utilization_ratio",
		Help: "Current report queue utilization (0–1).",
	})
)
