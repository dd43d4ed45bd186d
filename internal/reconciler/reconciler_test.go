// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package reconciler

import (
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/haplane/internal/config"
	"grimm.is/haplane/internal/errors"
	"grimm.is/haplane/internal/logging"
	"grimm.is/haplane/internal/netaddr"
	"grimm.is/haplane/internal/relations"
	"grimm.is/haplane/internal/resources"
)

type fakeIfaces struct {
	addrs []netaddr.IfaceAddr
}

func (f *fakeIfaces) Addrs() ([]netaddr.IfaceAddr, error) { return f.addrs, nil }

type fakeRelation struct {
	name   string
	data   map[string]string
	ipmaps map[string][]relations.UnitAddress
}

func (f *fakeRelation) Name() string { return f.name }

func (f *fakeRelation) Fields() []string {
	out := make([]string, 0, len(f.data))
	for k := range f.data {
		out = append(out, k)
	}
	return out
}

func (f *fakeRelation) Get(field string) (string, bool) {
	v, ok := f.data[field]
	return v, ok
}

func (f *fakeRelation) IPMap(key string) []relations.UnitAddress {
	if key == "" {
		key = relations.DefaultAddressKey
	}
	return f.ipmaps[key]
}

type fakeSource struct {
	rels []relations.Relation
	err  error
}

func (f *fakeSource) Relations() ([]relations.Relation, error) { return f.rels, f.err }

// recorderSink records Bind/Apply calls instead of touching a cluster.
type recorderSink struct {
	bindIface string
	bindPort  int
	applied   []*resources.Set
	bindErr   error
	applyErr  error
}

func (r *recorderSink) Bind(iface string, mcastPort int) error {
	r.bindIface = iface
	r.bindPort = mcastPort
	return r.bindErr
}

func (r *recorderSink) Apply(set *resources.Set) error {
	if r.applyErr != nil {
		return r.applyErr
	}
	r.applied = append(r.applied, set)
	return nil
}

type memStore struct {
	values map[string]string
}

func (m *memStore) Get(key string) (string, bool, error) {
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memStore) Set(key, value string) error {
	if m.values == nil {
		m.values = map[string]string{}
	}
	m.values[key] = value
	return nil
}

func testConfig() *config.Config {
	return &config.Config{
		ServiceName: "myapi",
		NodeID:      "myapi-0",
		NodeAddress: "10.0.0.1",
		Network:     &config.NetworkConfig{InternalNetwork: "10.20.0.0/24"},
		VIP:         &config.VIPConfig{Addresses: "10.0.0.50", Iface: "eth0"},
		HA:          &config.HAConfig{Resources: []string{"vips", "haproxy-init"}},
	}
}

func testClassifier() *netaddr.Classifier {
	return netaddr.NewClassifier(&fakeIfaces{addrs: []netaddr.IfaceAddr{
		{Iface: "eth0", IP: net.ParseIP("10.0.0.1"), PrefixLen: 24},
		{Iface: "eth1", IP: net.ParseIP("10.20.0.1"), PrefixLen: 24},
	}})
}

func newTestReconciler(t *testing.T, cfg *config.Config, src RelationSource, snk *recorderSink, store *memStore) *Reconciler {
	t.Helper()
	return New(Options{
		Config:     cfg,
		Classifier: testClassifier(),
		Source:     src,
		Sink:       snk,
		Store:      store,
		Logger:     logging.New(logging.Config{Level: "error"}),
	})
}

func TestReconcilePublishesTopologyAndResources(t *testing.T) {
	cluster := &fakeRelation{
		name: "cluster",
		data: map[string]string{},
		ipmaps: map[string][]relations.UnitAddress{
			relations.DefaultAddressKey: {{Unit: "myapi-1", Address: "10.0.0.2"}},
			"internal-address":          {{Unit: "myapi-1", Address: "10.20.0.2"}},
		},
	}
	snk := &recorderSink{}
	r := newTestReconciler(t, testConfig(), &fakeSource{rels: []relations.Relation{cluster}}, snk, &memStore{})

	require.NoError(t, r.Reconcile())

	topo := r.Topology()
	require.Contains(t, topo, "10.0.0.1")
	require.Contains(t, topo, "10.20.0.1")
	assert.Equal(t, "10.20.0.1/24", topo["10.20.0.1"].Network)
	assert.Equal(t, map[string]string{
		"myapi-0": "10.20.0.1",
		"myapi-1": "10.20.0.2",
	}, topo["10.20.0.1"].Backends)

	set := r.ResourceSet()
	require.NotNil(t, set)
	assert.Len(t, set.Primitives, 2, "vip plus haproxy init primitive")
	assert.Len(t, set.Clones, 1)

	assert.Equal(t, "eth0", snk.bindIface)
	assert.Equal(t, config.DefaultMcastPort, snk.bindPort)
	require.Len(t, snk.applied, 1)
	assert.Same(t, set, snk.applied[0])
}

func TestReconcileFailureKeepsPreviousState(t *testing.T) {
	snk := &recorderSink{}
	src := &fakeSource{}
	r := newTestReconciler(t, testConfig(), src, snk, &memStore{})

	require.NoError(t, r.Reconcile())
	topo := r.Topology()
	set := r.ResourceSet()

	src.err = errors.New(errors.KindInternal, "relation store unavailable")
	require.Error(t, r.Reconcile())

	// Published state is from the last good pass.
	assert.Equal(t, topo, r.Topology())
	assert.Same(t, set, r.ResourceSet())
	assert.Len(t, snk.applied, 1, "failed pass applies nothing")

	st := r.Status()
	assert.Equal(t, uint64(2), st.Passes)
	assert.Contains(t, st.LastError, "relation store unavailable")
	assert.True(t, st.LastSuccess.Before(st.LastRun))
}

func TestReconcileNoResourcesSkipsSink(t *testing.T) {
	cfg := testConfig()
	cfg.HA = nil
	snk := &recorderSink{}
	r := newTestReconciler(t, cfg, &fakeSource{}, snk, &memStore{})

	require.NoError(t, r.Reconcile())
	assert.Empty(t, snk.bindIface, "no bind without declared resources")
	assert.Empty(t, snk.applied)
	assert.NotNil(t, r.Topology(), "topology is still published")
}

func TestReconcileBindFailureAborts(t *testing.T) {
	snk := &recorderSink{bindErr: errors.New(errors.KindInternal, "bind failed")}
	r := newTestReconciler(t, testConfig(), &fakeSource{}, snk, &memStore{})

	require.Error(t, r.Reconcile())
	assert.Empty(t, snk.applied)
	assert.Nil(t, r.Topology())
}

func TestStatSecretGeneratedOnce(t *testing.T) {
	store := &memStore{}
	r := newTestReconciler(t, testConfig(), &fakeSource{}, &recorderSink{}, store)

	require.NoError(t, r.Reconcile())
	first, ok, err := store.Get(statSecretKey)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Len(t, first, 32)

	require.NoError(t, r.Reconcile())
	second, _, _ := store.Get(statSecretKey)
	assert.Equal(t, first, second, "secret survives later passes")
}

func TestStatSecretPreserved(t *testing.T) {
	store := &memStore{values: map[string]string{statSecretKey: "preexisting"}}
	r := newTestReconciler(t, testConfig(), &fakeSource{}, &recorderSink{}, store)

	require.NoError(t, r.Reconcile())
	v, _, _ := store.Get(statSecretKey)
	assert.Equal(t, "preexisting", v)
}

func TestReconcileUnknownResourceKind(t *testing.T) {
	cfg := testConfig()
	cfg.HA.Resources = []string{"frobnicate"}
	snk := &recorderSink{}
	r := newTestReconciler(t, cfg, &fakeSource{}, snk, &memStore{})

	err := r.Reconcile()
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindUnknownResource))
	assert.Empty(t, snk.applied)
}
