// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package metrics holds the Prometheus instrumentation for the reconciler.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all haplane Prometheus metrics.
type Metrics struct {
	ReconcilePasses   prometheus.Counter
	ReconcileFailures *prometheus.CounterVec
	ReconcileDuration prometheus.Histogram
	LastSuccess       prometheus.Gauge

	TopologyEntries  prometheus.Gauge
	TopologyBackends prometheus.Gauge

	ResourcePrimitives prometheus.Gauge
	ResourceClones     prometheus.Gauge
}

// NewMetrics creates the metric set.
func NewMetrics() *Metrics {
	return &Metrics{
		ReconcilePasses: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "haplane_reconcile_passes_total",
			Help: "Total number of reconciliation passes started",
		}),
		ReconcileFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "haplane_reconcile_failures_total",
			Help: "Total number of failed reconciliation passes by error kind",
		}, []string{"kind"}),
		ReconcileDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "haplane_reconcile_duration_seconds",
			Help:    "Duration of reconciliation passes",
			Buckets: prometheus.DefBuckets,
		}),
		LastSuccess: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "haplane_reconcile_last_success_timestamp_seconds",
			Help: "Unix timestamp of the last successful reconciliation pass",
		}),
		TopologyEntries: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "haplane_topology_entries",
			Help: "Number of local addresses in the published topology",
		}),
		TopologyBackends: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "haplane_topology_backends",
			Help: "Total number of backend mappings in the published topology",
		}),
		ResourcePrimitives: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "haplane_resource_primitives",
			Help: "Number of primitives in the published resource set",
		}),
		ResourceClones: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "haplane_resource_clones",
			Help: "Number of clones in the published resource set",
		}),
	}
}

// Register registers every metric with the given registerer.
func (m *Metrics) Register(reg prometheus.Registerer) error {
	for _, c := range []prometheus.Collector{
		m.ReconcilePasses,
		m.ReconcileFailures,
		m.ReconcileDuration,
		m.LastSuccess,
		m.TopologyEntries,
		m.TopologyBackends,
		m.ResourcePrimitives,
		m.ResourceClones,
	} {
		if err := reg.Register(c); err != nil {
			return err
		}
	}
	return nil
}
