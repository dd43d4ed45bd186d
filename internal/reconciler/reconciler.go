// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package reconciler runs the single-pass reconciliation loop: relation
// data and configuration in, published topology and resource set out.
// Passes are serialized; a failing pass publishes nothing and leaves the
// previously published state authoritative.
package reconciler

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"grimm.is/haplane/internal/clock"
	"grimm.is/haplane/internal/config"
	"grimm.is/haplane/internal/errors"
	"grimm.is/haplane/internal/logging"
	"grimm.is/haplane/internal/metrics"
	"grimm.is/haplane/internal/netaddr"
	"grimm.is/haplane/internal/relations"
	"grimm.is/haplane/internal/resources"
	"grimm.is/haplane/internal/sink"
	"grimm.is/haplane/internal/state"
	"grimm.is/haplane/internal/topology"
)

// statSecretKey names the load-balancer statistics password in the state
// store. Generated once on first reconciliation, reused forever after.
const statSecretKey = "haproxy.stat.password"

// RelationSource lists the relations visible this pass.
type RelationSource interface {
	Relations() ([]relations.Relation, error)
}

// Status describes the reconciler's last observed pass.
type Status struct {
	NodeID      string    `json:"node_id"`
	ServiceName string    `json:"service_name"`
	Passes      uint64    `json:"passes"`
	LastRun     time.Time `json:"last_run,omitempty"`
	LastSuccess time.Time `json:"last_success,omitempty"`
	LastError   string    `json:"last_error,omitempty"`
}

// Options bundles the reconciler's collaborators.
type Options struct {
	Config     *config.Config
	Classifier *netaddr.Classifier
	Source     RelationSource
	Sink       sink.Sink
	Store      state.Store
	Metrics    *metrics.Metrics
	Logger     *logging.Logger

	// AdapterOverrides composes with the base relation adapter table.
	AdapterOverrides map[string]relations.Constructor
}

// Reconciler computes and publishes topology and resource sets.
type Reconciler struct {
	cfg        *config.Config
	classifier *netaddr.Classifier
	source     RelationSource
	sink       sink.Sink
	store      state.Store
	mets       *metrics.Metrics
	logger     *logging.Logger
	overrides  map[string]relations.Constructor

	// mu serializes passes: one reconciliation runs to completion before
	// the next begins.
	mu sync.Mutex

	// pubMu guards the published state read by the API.
	pubMu  sync.RWMutex
	topo   topology.Topology
	set    *resources.Set
	status Status
}

// New creates a reconciler.
func New(opts Options) *Reconciler {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Default()
	}
	mets := opts.Metrics
	if mets == nil {
		mets = metrics.NewMetrics()
	}

	return &Reconciler{
		cfg:        opts.Config,
		classifier: opts.Classifier,
		source:     opts.Source,
		sink:       opts.Sink,
		store:      opts.Store,
		mets:       mets,
		logger:     logger.WithComponent("reconciler"),
		overrides:  opts.AdapterOverrides,
		status: Status{
			NodeID:      opts.Config.NodeID,
			ServiceName: opts.Config.ServiceName,
		},
	}
}

// Reconcile runs one pass. Passes triggered while another is in flight
// queue up on the pass lock.
func (r *Reconciler) Reconcile() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	start := clock.Now()
	r.mets.ReconcilePasses.Inc()

	topo, set, err := r.pass()

	r.mets.ReconcileDuration.Observe(clock.Since(start).Seconds())

	r.pubMu.Lock()
	defer r.pubMu.Unlock()
	r.status.Passes++
	r.status.LastRun = start

	if err != nil {
		kind := errors.GetKind(err)
		r.mets.ReconcileFailures.WithLabelValues(kind.String()).Inc()
		r.status.LastError = err.Error()
		r.logger.Error("reconciliation pass failed", "kind", kind.String(), "error", err)
		return err
	}

	r.topo = topo
	r.set = set
	r.status.LastSuccess = start
	r.status.LastError = ""
	r.publishMetrics(topo, set)
	r.logger.Info("reconciliation pass complete",
		"topology_entries", len(topo),
		"primitives", len(set.Primitives))
	return nil
}

// pass computes a fresh topology and resource set and submits the set.
// Nothing is published unless every step succeeds.
func (r *Reconciler) pass() (topology.Topology, *resources.Set, error) {
	if err := r.ensureStatSecret(); err != nil {
		return nil, nil, err
	}

	rels, err := r.source.Relations()
	if err != nil {
		return nil, nil, err
	}
	reg := relations.NewRegistry(rels, relations.NewOptionsAdapter(r.cfg), r.overrides)

	var peers relations.PeerSource
	if cluster, ok := reg.Cluster(); ok {
		peers = cluster
	}

	topo, err := topology.NewBuilder(r.classifier, r.cfg, r.logger).Build(peers)
	if err != nil {
		return nil, nil, err
	}

	set, err := resources.NewBuilder(r.cfg, r.classifier, r.logger).Build(r.cfg.HAResources())
	if err != nil {
		return nil, nil, err
	}

	if len(r.cfg.HAResources()) > 0 {
		if err := r.sink.Bind(r.cfg.BindIface(), r.cfg.McastPort()); err != nil {
			return nil, nil, err
		}
		if err := r.sink.Apply(set); err != nil {
			return nil, nil, err
		}
	}

	return topo, set, nil
}

// ensureStatSecret generates the stat password once and persists it.
func (r *Reconciler) ensureStatSecret() error {
	_, ok, err := r.store.Get(statSecretKey)
	if err != nil {
		return err
	}
	if ok {
		return nil
	}

	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return errors.Wrap(err, errors.KindInternal, "generating stat secret")
	}
	if err := r.store.Set(statSecretKey, hex.EncodeToString(buf)); err != nil {
		return err
	}
	r.logger.Info("generated stat secret")
	return nil
}

func (r *Reconciler) publishMetrics(topo topology.Topology, set *resources.Set) {
	backends := 0
	for _, entry := range topo {
		backends += len(entry.Backends)
	}
	r.mets.TopologyEntries.Set(float64(len(topo)))
	r.mets.TopologyBackends.Set(float64(backends))
	r.mets.ResourcePrimitives.Set(float64(len(set.Primitives)))
	r.mets.ResourceClones.Set(float64(len(set.Clones)))
	r.mets.LastSuccess.Set(float64(clock.Now().Unix()))
}

// Topology returns the last successfully published topology.
func (r *Reconciler) Topology() topology.Topology {
	r.pubMu.RLock()
	defer r.pubMu.RUnlock()
	return r.topo
}

// ResourceSet returns the last successfully published resource set.
func (r *Reconciler) ResourceSet() *resources.Set {
	r.pubMu.RLock()
	defer r.pubMu.RUnlock()
	return r.set
}

// Status returns the reconciler's pass bookkeeping.
func (r *Reconciler) Status() Status {
	r.pubMu.RLock()
	defer r.pubMu.RUnlock()
	return r.status
}
