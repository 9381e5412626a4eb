package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
)

var (
	ErrorsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregator_errors_total",
			Help: "Total number of occurred errors.",
		},
		[]string{"type"},
	)
	RunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "aggregator_run_duration_seconds",
			Help:    "Duration of each aggregation run in seconds.",
			Buckets: []float64{5, 30, 60, 300, 900, 3600},
		},
	)
	SearchDuration = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Name:       "aggregator_search_duration_seconds",
			Help:       "Duration of each provider search in seconds.",
			Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
		},
		[]string{"site"},
	)
	TasksCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregator_search_tasks_total",
			Help: "Total number of executed search tasks by outcome.",
		},
		[]string{"status"},
	)
	RecordsCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aggregator_records_total",
			Help: "Total number of processed records by outcome.",
		},
		[]string{"outcome"},
	)
)

func StartMetricsServer(port int) {

	prometheus.MustRegister(ErrorsCounter)
	prometheus.MustRegister(RunDuration)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(TasksCounter)
	prometheus.MustRegister(RecordsCounter)

	http.Handle("/metrics", promhttp.Handler())
	go func() {
		log.Fatal(http.ListenAndServe(":"+strconv.Itoa(port), nil))
	}()
}
