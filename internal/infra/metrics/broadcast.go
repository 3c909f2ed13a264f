package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(broadcastSendsTotal)
}

var broadcastSendsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "broadcast_sends_total",
		Help: "Broadcast message sends by outcome (sent/failed).",
	},
	[]string{"outcome"},
)

func IncBroadcastSend(ok bool) {
	outcome := "sent"
	if !ok {
		outcome = "failed"
	}
	broadcastSendsTotal.WithLabelValues(outcome).Inc()
}
