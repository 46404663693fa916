package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	Metrics = prometheus.NewRegistry()

	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskflow_request_total",
			Help: "Number of API requests",
		},
		[]string{"method", "handler", "status"},
	)

	ResponseTime = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "taskflow_api_response_time",
			Help:    "The API response time in seconds",
			Buckets: prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "handler", "status"},
	)

	EventSubscribers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "taskflow_event_subscribers",
			Help: "Number of connected change-feed subscribers",
		},
	)

	BoardMoves = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "taskflow_board_moves_total",
			Help: "Board ticket moves by outcome",
		},
		[]string{"outcome"},
	)
)

func init() {
	Metrics.MustRegister(RequestTotal, ResponseTime, EventSubscribers, BoardMoves)
}

func RegisterRequest(start time.Time, method, handler string, status int) {
	code := strconv.Itoa(status)
	RequestTotal.WithLabelValues(method, handler, code).Inc()
	ResponseTime.WithLabelValues(method, handler, code).Observe(time.Since(start).Seconds())
}

func SetEventSubscribers(n int) {
	EventSubscribers.Set(float64(n))
}

func RecordMove(outcome string) {
	BoardMoves.WithLabelValues(outcome).Inc()
}

// Handler exposes the taskflow registry in the prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Metrics, promhttp.HandlerOpts{})
}
