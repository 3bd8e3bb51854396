package core

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	metricsOperations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "employees_store_operations_total",
		Help: "Employee data-access operations by operation and outcome",
	}, []string{"op", "outcome"})

	metricsOperationSeconds = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "employees_store_operation_duration_seconds",
		Help:    "Duration of employee data-access operations",
		Buckets: prometheus.DefBuckets,
	}, []string{"op"})
)
