// Copyright (C) 2026 Ben Grimm. Licensed under AGPL-3.0 (https://www.gnu.org/licenses/agpl-3.0.txt)

// Package api serves the read-only status API: the reconciler's pass
// bookkeeping, the last published topology and resource set, and the
// Prometheus metrics endpoint.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"grimm.is/haplane/internal/logging"
	"grimm.is/haplane/internal/reconciler"
	"grimm.is/haplane/internal/resources"
	"grimm.is/haplane/internal/topology"
)

// StateSource exposes the reconciler's published state to the API.
type StateSource interface {
	Status() reconciler.Status
	Topology() topology.Topology
	ResourceSet() *resources.Set
}

// Server is the status API server.
type Server struct {
	listen   string
	source   StateSource
	registry *prometheus.Registry
	logger   *logging.Logger

	srv *http.Server
}

// NewServer creates the API server. The registry may be nil when metrics
// are not exposed.
func NewServer(listen string, source StateSource, registry *prometheus.Registry, logger *logging.Logger) *Server {
	if logger == nil {
		logger = logging.Default()
	}
	s := &Server{
		listen:   listen,
		source:   source,
		registry: registry,
		logger:   logger.WithComponent("api"),
	}

	r := mux.NewRouter()
	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/status", s.handleStatus).Methods(http.MethodGet)
	v1.HandleFunc("/topology", s.handleTopology).Methods(http.MethodGet)
	v1.HandleFunc("/resources", s.handleResources).Methods(http.MethodGet)
	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	s.srv = &http.Server{
		Addr:              listen,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

// Handler returns the server's HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

// ListenAndServe blocks serving the API until Shutdown or a listener error.
func (s *Server) ListenAndServe() error {
	s.logger.Info("status API listening", "addr", s.listen)
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, s.source.Status())
}

func (s *Server) handleTopology(w http.ResponseWriter, _ *http.Request) {
	topo := s.source.Topology()
	if topo == nil {
		topo = topology.Topology{}
	}
	s.writeJSON(w, topo)
}

func (s *Server) handleResources(w http.ResponseWriter, _ *http.Request) {
	set := s.source.ResourceSet()
	if set == nil {
		set = &resources.Set{}
	}
	s.writeJSON(w, set)
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		s.logger.Error("encoding response", "error", err)
	}
}
