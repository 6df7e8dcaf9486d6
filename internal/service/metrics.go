package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Значения метки result для счётчиков.
const (
	resultConfirmed  = "confirmed"
	resultRolledBack = "rolled_back"
	resultRejected   = "rejected"
	resultNoop       = "noop"
	resultOK         = "ok"
	resultError      = "error"
)

var (
	reassignTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orgchart",
		Subsystem: "chart",
		Name:      "reassign_total",
		Help:      "Total number of manager reassignments broken down by outcome.",
	}, []string{"result"})

	loadTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orgchart",
		Subsystem: "chart",
		Name:      "load_total",
		Help:      "Total number of full collection loads broken down by result.",
	}, []string{"result"})

	chartSize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "orgchart",
		Subsystem: "chart",
		Name:      "employees",
		Help:      "Number of employees in the current collection.",
	})
)
