package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// chatRequests counts chat turns by how they resolved: "tool" when the
// router dispatched one, "conversation" for the plain fallback,
// "confirmation" for pending-action yes/no turns.
var chatRequests = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "herald_chat_requests_total",
	Help: "Chat requests handled, by resolution path.",
}, []string{"path"})
