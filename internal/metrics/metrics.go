package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	once sync.Once

	reservations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "little_lemon",
			Name:      "reservations_total",
			Help:      "Reservation submissions by outcome.",
		},
		[]string{"outcome"},
	)

	slotQueries = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "little_lemon",
			Name:      "slot_queries_total",
			Help:      "Availability lookups served.",
		},
	)

	rateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "little_lemon",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		},
	)
)

// Register registers Prometheus metrics. Safe to call multiple times.
func Register() {
	once.Do(func() {
		prometheus.MustRegister(reservations, slotQueries, rateLimited)
	})
}

func Handler() http.Handler {
	return promhttp.Handler()
}

// IncReservation counts a finished submission; outcome is a models.Status value.
func IncReservation(outcome string) {
	reservations.WithLabelValues(outcome).Inc()
}

func IncSlotQuery() {
	slotQueries.Inc()
}

func IncRateLimited() {
	rateLimited.Inc()
}
