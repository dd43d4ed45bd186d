// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grimm.is/haplane/internal/logging"
	"grimm.is/haplane/internal/reconciler"
	"grimm.is/haplane/internal/resources"
	"grimm.is/haplane/internal/topology"
)

type fakeSource struct {
	status reconciler.Status
	topo   topology.Topology
	set    *resources.Set
}

func (f *fakeSource) Status() reconciler.Status   { return f.status }
func (f *fakeSource) Topology() topology.Topology { return f.topo }
func (f *fakeSource) ResourceSet() *resources.Set { return f.set }

func testServer(t *testing.T, source StateSource) *httptest.Server {
	t.Helper()
	s := NewServer("127.0.0.1:0", source, prometheus.NewRegistry(), logging.New(logging.Config{Level: "error"}))
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return srv
}

func get(t *testing.T, url string, out any) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp
}

func TestStatusEndpoint(t *testing.T) {
	srv := testServer(t, &fakeSource{status: reconciler.Status{
		NodeID:      "myapi-0",
		ServiceName: "myapi",
		Passes:      3,
	}})

	var got reconciler.Status
	resp := get(t, srv.URL+"/api/v1/status", &got)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
	assert.Equal(t, "myapi-0", got.NodeID)
	assert.Equal(t, uint64(3), got.Passes)
}

func TestTopologyEndpoint(t *testing.T) {
	srv := testServer(t, &fakeSource{topo: topology.Topology{
		"10.0.0.1": {
			Network:  "10.0.0.1/24",
			Backends: map[string]string{"myapi-0": "10.0.0.1"},
		},
	}})

	var got map[string]struct {
		Network  string            `json:"network"`
		Backends map[string]string `json:"backends"`
	}
	get(t, srv.URL+"/api/v1/topology", &got)
	require.Contains(t, got, "10.0.0.1")
	assert.Equal(t, "10.0.0.1/24", got["10.0.0.1"].Network)
}

func TestTopologyEndpointBeforeFirstPass(t *testing.T) {
	srv := testServer(t, &fakeSource{})

	var got map[string]any
	resp := get(t, srv.URL+"/api/v1/topology", &got)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, got, "empty object, not null")
}

func TestResourcesEndpoint(t *testing.T) {
	var set resources.Set
	require.NoError(t, resources.NewVirtualIP("myapi", "10.0.0.50", "eth0", "24").Configure(&set))

	srv := testServer(t, &fakeSource{set: &set})

	var got resources.Set
	get(t, srv.URL+"/api/v1/resources", &got)
	require.Len(t, got.Primitives, 1)
	assert.Equal(t, "res_myapi_eth0_vip", got.Primitives[0].Key)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := testServer(t, &fakeSource{})

	resp := get(t, srv.URL+"/metrics", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestMethodNotAllowed(t *testing.T) {
	srv := testServer(t, &fakeSource{})

	resp, err := http.Post(srv.URL+"/api/v1/status", "application/json", nil)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}
