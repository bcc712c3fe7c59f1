package scheduler

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var deliveryFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "herald_delivery_failures_total",
	Help: "Scheduled digest deliveries that failed.",
})
