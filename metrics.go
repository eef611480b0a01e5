package guardango

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var eventHandleDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
	Name: "guardango_event_duration_sec",
	Help: "Duration of engine event handling",
}, []string{"kind"})

var eventHandleCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "guardango_event_handled",
	Help: "Number of events handled by the engine",
}, []string{"kind"})

var eventRejectCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "guardango_event_rejected",
	Help: "Number of events rejected by a guard or a failed target resolution",
}, []string{"kind", "reason"})

var actionEmitCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "guardango_action_emitted",
	Help: "Number of actions emitted",
}, []string{"type"})

var actionFailCount = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "guardango_action_failed",
	Help: "Number of actions the collaborator reported as failed",
}, []string{"type"})

var floodViolationCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "guardango_flood_violations",
	Help: "Number of flood violations detected",
})

var pendingExpireCount = promauto.NewCounter(prometheus.CounterOpts{
	Name: "guardango_pending_expired",
	Help: "Number of pending effects dropped without an acknowledgement",
})
