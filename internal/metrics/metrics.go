package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// BookingsCreated counts confirmed bookings (counter)
	BookingsCreated = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "journey_compass",
			Name:      "bookings_created_total",
			Help:      "The total number of confirmed bookings",
		},
	)

	// BookingConflicts counts bookings rejected because a seat was already taken (counter)
	BookingConflicts = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "journey_compass",
			Name:      "booking_conflicts_total",
			Help:      "The total number of bookings rejected with a seat conflict",
		},
	)

	// BookingsCancelled counts cancellations (counter)
	BookingsCancelled = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "journey_compass",
			Name:      "bookings_cancelled_total",
			Help:      "The total number of cancelled bookings",
		},
	)

	// StoreFailures counts document reads and writes that failed (counter)
	StoreFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "journey_compass",
			Name:      "store_failures_total",
			Help:      "The total number of failed document reads and writes",
		},
		[]string{"op"},
	)

	// NotificationsFailed counts best-effort notifications that could not be delivered (counter)
	NotificationsFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "journey_compass",
			Name:      "notifications_failed_total",
			Help:      "The total number of booking notifications that failed",
		},
		[]string{"channel", "kind"},
	)
)
