package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// NotificationsCreated counts persisted notification rows by type.
	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "notifications_created_total",
		Help: "Number of notifications persisted, by type.",
	}, []string{"type"})

	// FanoutFailures counts per-follower insert failures skipped during
	// new-post fan-out.
	FanoutFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "notification_fanout_failures_total",
		Help: "Number of per-follower notification inserts that failed during new-post fan-out.",
	})

	// FeedRequests counts feed page reads.
	FeedRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "feed_requests_total",
		Help: "Number of feed pages served.",
	})
)

// Serve exposes /metrics on its own port. Runs until the listener fails.
func Serve(port string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return http.ListenAndServe(":"+port, mux)
}
