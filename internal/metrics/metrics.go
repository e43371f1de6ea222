package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const Namespace = "automod"

var (
	Violations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "violations_total",
		Help:      "Total number of violations fired by the detectors",
	}, []string{"kind"})

	DeletedMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "deleted_messages_total",
		Help:      "Total number of deleted messages",
	}, []string{"reason"})

	WarningsIssued = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "warnings_issued_total",
		Help:      "Total number of warnings appended to the ledger",
	}, []string{"source"})

	Escalations = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "escalations_total",
		Help:      "Total number of escalation decisions",
	}, []string{"action"})

	RaidAlerts = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: Namespace,
		Name:      "raid_alerts_total",
		Help:      "Total number of raid bursts detected",
	})

	EventProcessingDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: Namespace,
		Name:      "event_processing_duration_seconds",
		Help:      "Duration of moderation event processing",
		Buckets:   prometheus.DefBuckets,
	}, []string{"type", "status"})
)

func IncViolation(kind string) {
	Violations.WithLabelValues(kind).Inc()
}

func IncDeletedMessages(reason string) {
	DeletedMessages.WithLabelValues(reason).Inc()
}

func IncWarningsIssued(source string) {
	WarningsIssued.WithLabelValues(source).Inc()
}

func IncEscalation(action string) {
	Escalations.WithLabelValues(action).Inc()
}

func ObserveEventProcessing(eventType string, duration float64, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	EventProcessingDuration.WithLabelValues(eventType, status).Observe(duration)
}
