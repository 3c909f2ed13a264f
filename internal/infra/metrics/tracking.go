package metrics

import "github.com/prometheus/client_golang/prometheus"

func init() {
	register(
		usersTrackedTotal,
		linkClicksRecordedTotal,
		trackingFailuresTotal,
	)
}

var (
	usersTrackedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "users_tracked_total",
			Help: "Interactions recorded, labeled new vs returning user.",
		},
		[]string{"kind"},
	)

	linkClicksRecordedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "link_clicks_recorded_total",
			Help: "Deep-link click events appended to the log.",
		},
	)

	trackingFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tracking_failures_total",
			Help: "Best-effort tracking writes that were dropped after a store error.",
		},
		[]string{"op"},
	)
)

func IncUserTracked(newUser bool) {
	kind := "returning"
	if newUser {
		kind = "new"
	}
	usersTrackedTotal.WithLabelValues(kind).Inc()
}

func IncLinkClickRecorded() {
	linkClicksRecordedTotal.Inc()
}

func IncTrackingFailure(op string) {
	trackingFailuresTotal.WithLabelValues(norm(op)).Inc()
}
