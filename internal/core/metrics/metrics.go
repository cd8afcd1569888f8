package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	PremiumChanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "premium_changes_total", Help: "Accepted premium tier changes by target tier"},
		[]string{"tier"},
	)
	PlaylistOps = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "playlist_ops_total", Help: "Playlist relation mutations by operation"},
		[]string{"op"},
	)
	Registrations = prometheus.NewCounter(
		prometheus.CounterOpts{Name: "account_registrations_total", Help: "Provisioned accounts"},
	)
)

func init() { prometheus.MustRegister(PremiumChanges, PlaylistOps, Registrations) }
