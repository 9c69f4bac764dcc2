package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	MetricsNamespace = "parley"

	OutcomeOK          = "ok"
	OutcomeUserError   = "user_error"
	OutcomeError       = "error"
	OutcomeRateLimited = "rate_limited"
	OutcomeNotFound    = "not_found"
)

var (
	commandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "commands_total",
		Help:      "Count of executed slash commands",
	}, []string{
		"trigger",
		"outcome",
	})

	commandDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: MetricsNamespace,
		Name:      "command_duration_seconds",
		Help:      "Slash command execution time",
		Buckets:   prometheus.DefBuckets,
	}, []string{
		"trigger",
	})

	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "http_requests_total",
		Help:      "Count of HTTP requests by route and status code",
	}, []string{
		"route",
		"code",
	})

	rateLimitTakeErrors = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "rate_limit_take_errors_total",
		Help:      "Count of errors taken from the command rate limiter backend",
	})

	eventPublishErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "event_publish_errors_total",
		Help:      "Count of domain events that could not be published",
	}, []string{
		"type",
	})
)

// RecordCommand counts a command execution and observes its latency.
func RecordCommand(trigger, outcome string, took time.Duration) {
	commandsTotal.WithLabelValues(trigger, outcome).Inc()
	commandDuration.WithLabelValues(trigger).Observe(took.Seconds())
}

func RecordHTTPRequest(route string, code int) {
	httpRequestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

func RecordRateLimitTakeError() {
	rateLimitTakeErrors.Inc()
}

func RecordEventPublishError(eventType string) {
	eventPublishErrors.WithLabelValues(eventType).Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
