package infrastructure

import (
	"context"
	"errors"
	"strconv"

	"intern_assistant/internal/entities"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exports resolution telemetry. The fallback path has its own
// response_type label so it can be told apart from real AI answers.
type Metrics struct {
	resolutions      *prometheus.CounterVec
	deliveryFailures *prometheus.CounterVec
	duration         *prometheus.HistogramVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "assistant_resolutions_total",
			Help: "Resolved inbound messages by status and response type.",
		}, []string{"status", "response_type"}),
		deliveryFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "assistant_delivery_failures_total",
			Help: "Replies the notifier failed to deliver, by provider and error code.",
		}, []string{"provider", "code"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "assistant_resolution_duration_seconds",
			Help:    "Time from receiving a message to finishing delivery.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20},
		}, []string{"response_type"}),
	}
}

// Observe implements interfaces.ResolutionObserver.
func (m *Metrics) Observe(_ context.Context, _ entities.InboundMessage, res entities.Resolution) {
	responseType := string(res.ResponseType())
	if responseType == "" {
		responseType = "none"
	}
	m.resolutions.WithLabelValues(string(res.Status()), responseType).Inc()
	m.duration.WithLabelValues(responseType).Observe(res.Duration.Seconds())

	if res.DeliveryErr != nil {
		provider, code := "unknown", "0"
		var derr *entities.DeliveryError
		if errors.As(res.DeliveryErr, &derr) {
			provider, code = derr.Provider, strconv.Itoa(derr.Code)
		}
		m.deliveryFailures.WithLabelValues(provider, code).Inc()
	}
}
