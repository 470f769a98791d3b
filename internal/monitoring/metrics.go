package monitoring

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ws_active_connections",
			Help: "Current number of live realtime connections",
		},
	)

	admissionEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "waiting_room_events_total",
			Help: "Admission protocol events by type and outcome",
		},
		[]string{"event", "status"},
	)

	broadcasts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ws_broadcasts_total",
			Help: "Room-scoped broadcasts by event type",
		},
		[]string{"event"},
	)
)

func ConnOpened() { activeConnections.Inc() }
func ConnClosed() { activeConnections.Dec() }

func AdmissionEvent(event, status string) {
	admissionEvents.WithLabelValues(event, status).Inc()
}

func Broadcast(event string) {
	broadcasts.WithLabelValues(event).Inc()
}
