// Package metrics exposes operator metrics on the controller-runtime
// Prometheus registry, next to the standard controller metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	ctrlmetrics "sigs.k8s.io/controller-runtime/pkg/metrics"
)

var (
	// ScalingOperations counts apply attempts by outcome (success, failure, dry_run).
	ScalingOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "easyscale_scaling_operations_total",
			Help: "Scaling operations attempted, partitioned by target kind and outcome.",
		},
		[]string{"kind", "namespace", "name", "outcome"},
	)

	// CooldownSkips counts decisions suppressed by an active cooldown.
	CooldownSkips = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "easyscale_cooldown_skips_total",
			Help: "Scaling decisions skipped because the target was in cooldown.",
		},
		[]string{"kind", "namespace", "name"},
	)

	// DesiredReplicas reports the last evaluated replica count per target.
	DesiredReplicas = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "easyscale_desired_replicas",
			Help: "Replica count produced by the last schedule evaluation.",
		},
		[]string{"kind", "namespace", "name"},
	)

	// EvaluationDuration observes how long one evaluate/decide/apply cycle takes.
	EvaluationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "easyscale_evaluation_duration_seconds",
			Help:    "Duration of a full evaluation cycle for one scaling rule.",
			Buckets: prometheus.DefBuckets,
		},
	)
)

func init() {
	ctrlmetrics.Registry.MustRegister(
		ScalingOperations,
		CooldownSkips,
		DesiredReplicas,
		EvaluationDuration,
	)
}
