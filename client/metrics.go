package client

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trailhead_client",
			Name:      "requests_total",
			Help:      "Gateway requests issued, per backend operation.",
		},
		[]string{"operation"},
	)

	requestFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trailhead_client",
			Name:      "request_failures_total",
			Help:      "Gateway requests that ended in a transport or backend error.",
		},
		[]string{"operation"},
	)
)
