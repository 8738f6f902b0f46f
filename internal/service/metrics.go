package service

import (
	"github.com/prometheus/client_golang/prometheus"
)

var FetchCount = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "marquee",
	Subsystem: "browse",
	Name:      "fetches",
}, []string{"kind"})

var StaleDropCount = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "marquee",
	Subsystem: "browse",
	Name:      "stale_drops",
})

var SupersedeResetCount = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "marquee",
	Subsystem: "browse",
	Name:      "supersede_resets",
})

var CompileFailureCount = prometheus.NewCounter(prometheus.CounterOpts{
	Namespace: "marquee",
	Subsystem: "browse",
	Name:      "compile_failures",
})

var EffectErrorCount = prometheus.NewCounterVec(prometheus.CounterOpts{
	Namespace: "marquee",
	Subsystem: "browse",
	Name:      "effect_errors",
}, []string{"effect"})

// RegisterMetrics registers the browse collectors with a registry.
func RegisterMetrics(r prometheus.Registerer) {
	r.MustRegister(
		FetchCount,
		StaleDropCount,
		SupersedeResetCount,
		CompileFailureCount,
		EffectErrorCount,
	)
}
