package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	HTTPRequestDuration *prometheus.HistogramVec
	TokenVerifications  *prometheus.CounterVec
	KeySetFetches       *prometheus.CounterVec
	ActivitiesCreated   prometheus.Counter
	MessagesCreated     prometheus.Counter
}

// New creates and registers all Prometheus metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cruddur_http_request_duration_seconds",
			Help:    "HTTP request latency by route and status",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		TokenVerifications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cruddur_token_verifications_total",
			Help: "Access token verification attempts by outcome",
		}, []string{"outcome"}),
		KeySetFetches: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cruddur_jwks_fetches_total",
			Help: "Signing key set loads by source and result",
		}, []string{"source", "result"}),
		ActivitiesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "cruddur_activities_created_total",
			Help: "Total number of activities and replies created",
		}),
		MessagesCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "cruddur_messages_created_total",
			Help: "Total number of direct messages created",
		}),
	}
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// RecordVerification counts a verification outcome ("verified" or an error kind).
func (m *Metrics) RecordVerification(outcome string) {
	if m == nil {
		return
	}
	m.TokenVerifications.WithLabelValues(outcome).Inc()
}

// RecordKeySetFetch counts a key set load from source ("http" or "redis").
func (m *Metrics) RecordKeySetFetch(source string, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.KeySetFetches.WithLabelValues(source, result).Inc()
}

func (m *Metrics) IncrementActivitiesCreated() {
	if m == nil {
		return
	}
	m.ActivitiesCreated.Inc()
}

func (m *Metrics) IncrementMessagesCreated() {
	if m == nil {
		return
	}
	m.MessagesCreated.Inc()
}
