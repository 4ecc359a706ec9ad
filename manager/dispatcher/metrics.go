package dispatcher

import (
	metrics "github.com/docker/go-metrics"
)

var (
	sessionsGauge    metrics.Gauge
	publishedCounter metrics.Counter
	droppedCounter   metrics.Counter
	resyncCounter    metrics.Counter
)

func init() {
	ns := metrics.NewNamespace("fdb", "dispatcher", nil)
	sessionsGauge = ns.NewGauge("sessions", "The number of agent sessions open on the dispatcher", metrics.Total)
	publishedCounter = ns.NewCounter("changes_published", "The number of change sets published to agents")
	droppedCounter = ns.NewCounter("changes_dropped", "The number of change sets dropped for agents that could not keep up")
	resyncCounter = ns.NewCounter("resyncs", "The number of segment resyncs served")
	metrics.Register(ns)
}
