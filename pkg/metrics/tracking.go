package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// TrackingMetrics counts tracking-event ingestion outcomes.
type TrackingMetrics struct {
	eventsRecorded *prometheus.CounterVec
	webhookRejects *prometheus.CounterVec
	automation     *prometheus.CounterVec
	appendConflict prometheus.Counter
}

// NewTrackingMetrics registers the ingestion metrics on the provided
// registerer.
func NewTrackingMetrics(reg prometheus.Registerer) *TrackingMetrics {
	if reg == nil {
		return &TrackingMetrics{}
	}
	eventsRecorded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tracking_events_recorded_total",
		Help: "Tracking events appended to shipment ledgers.",
	}, []string{"carrier", "status", "source"})
	webhookRejects := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "tracking_webhook_rejected_total",
		Help: "Inbound carrier webhooks rejected before ingestion.",
	}, []string{"carrier", "reason"})
	automation := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "automation_events_enqueued_total",
		Help: "Automation trigger events enqueued for the workflow consumer.",
	}, []string{"type"})
	appendConflict := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "tracking_append_conflicts_total",
		Help: "Optimistic-lock conflicts retried while appending events.",
	})
	reg.MustRegister(eventsRecorded, webhookRejects, automation, appendConflict)
	return &TrackingMetrics{
		eventsRecorded: eventsRecorded,
		webhookRejects: webhookRejects,
		automation:     automation,
		appendConflict: appendConflict,
	}
}

// IncEventRecorded counts one appended tracking event.
func (m *TrackingMetrics) IncEventRecorded(carrier, status, source string) {
	if m == nil || m.eventsRecorded == nil {
		return
	}
	m.eventsRecorded.WithLabelValues(normalizeLabel(carrier), normalizeLabel(status), normalizeLabel(source)).Inc()
}

// IncWebhookRejected counts one rejected webhook.
func (m *TrackingMetrics) IncWebhookRejected(carrier, reason string) {
	if m == nil || m.webhookRejects == nil {
		return
	}
	m.webhookRejects.WithLabelValues(normalizeLabel(carrier), normalizeLabel(reason)).Inc()
}

// IncAutomationEnqueued counts one enqueued automation event.
func (m *TrackingMetrics) IncAutomationEnqueued(eventType string) {
	if m == nil || m.automation == nil {
		return
	}
	m.automation.WithLabelValues(normalizeLabel(eventType)).Inc()
}

// IncAppendConflict counts one optimistic-lock retry.
func (m *TrackingMetrics) IncAppendConflict() {
	if m == nil || m.appendConflict == nil {
		return
	}
	m.appendConflict.Inc()
}
