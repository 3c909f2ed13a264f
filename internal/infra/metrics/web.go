package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(webhookUpdatesTotal)
}

var webhookUpdatesTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "webhook_updates_total",
		Help: "Webhook POSTs received, labeled by decode outcome.",
	},
	[]string{"outcome"},
)

func IncWebhookUpdate(outcome string) {
	webhookUpdatesTotal.WithLabelValues(norm(outcome)).Inc()
}
