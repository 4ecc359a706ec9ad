package agent

import "github.com/prometheus/client_golang/prometheus"

var (
	installedRules = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fdb",
		Subsystem: "agent",
		Name:      "installed_rules",
		Help:      "The number of forwarding rules installed in the dataplane.",
	})
	programFailures = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fdb",
		Subsystem: "agent",
		Name:      "program_failures_total",
		Help:      "The number of dataplane operations that failed.",
	}, []string{"op"})
)

func init() {
	prometheus.MustRegister(installedRules, programFailures)
}
