// Package metrics holds the Prometheus collectors updated by the client stores.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// LinkMutationsTotal counts link mutations by operation and result.
	LinkMutationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkfolio_link_mutations_total",
		Help: "Link create/update/delete attempts.",
	}, []string{"op", "result"})

	ClickTrackFailuresTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "linkfolio_click_track_failures_total",
		Help: "Click tracking calls that failed and were swallowed.",
	})

	ProfileFetchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkfolio_profile_fetches_total",
		Help: "Profile reads by result.",
	}, []string{"result"})

	SessionEventsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "linkfolio_session_events_total",
		Help: "Login, signup, and logout outcomes.",
	}, []string{"event", "result"})

	APIRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "linkfolio_api_request_duration_seconds",
		Help:    "Round-trip time of remote API calls.",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
	}, []string{"method", "status"})
)
