package agent

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var toolExecutions = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "herald_tool_executions_total",
	Help: "Tool executions, by tool name and outcome.",
}, []string{"tool", "outcome"})
