package services

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	filterSessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "wrenchmark",
		Subsystem: "filters",
		Name:      "sessions_active",
		Help:      "Filter sessions currently provisioned.",
	})
	filterSessionsExpiredTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wrenchmark",
		Subsystem: "filters",
		Name:      "sessions_expired_total",
		Help:      "Filter sessions evicted after going idle.",
	})
	filterUpdatesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: "wrenchmark",
		Subsystem: "filters",
		Name:      "updates_total",
		Help:      "Filter replacements relayed through a session scope.",
	})
	filterRefreshesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wrenchmark",
		Subsystem: "filters",
		Name:      "refreshes_total",
		Help:      "Debounced refreshes by outcome (published, failed, cancelled).",
	}, []string{"outcome"})
)
