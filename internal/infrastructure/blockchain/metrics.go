package blockchain

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var contractCalls = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "bridge",
		Subsystem: "contract",
		Name:      "calls_total",
		Help:      "Contract invocations by contract type, method, mode and outcome",
	},
	[]string{"contract_type", "method", "mode", "outcome"},
)

func observeCall(contractType, method, mode string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	contractCalls.WithLabelValues(contractType, method, mode, outcome).Inc()
}
