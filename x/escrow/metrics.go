package escrow

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// transitions counts delivered state changes by the operation that caused
// them: create, cancel or exchange.
var transitions = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "swap",
		Subsystem: "escrow",
		Name:      "transitions_total",
		Help:      "Escrow state transitions delivered, by operation.",
	},
	[]string{"operation"},
)
