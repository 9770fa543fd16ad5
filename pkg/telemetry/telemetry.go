// Copyright (c) 2026 Dedalus Labs, Inc. and its contributors
// SPDX-License-Identifier: MIT

// Package telemetry provides Prometheus instrumentation for the MCP server.
package telemetry

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Provider holds the metrics registry and instruments for the server.
type Provider struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
}

// NewProvider creates a telemetry provider with its own registry.
func NewProvider(serverName string) *Provider {
	registry := prometheus.NewRegistry()

	constLabels := prometheus.Labels{"server": serverName}

	requestsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   "mcp",
		Name:        "http_requests_total",
		Help:        "Total number of HTTP requests handled.",
		ConstLabels: constLabels,
	}, []string{"path", "method", "status"})

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   "mcp",
		Name:        "http_request_duration_seconds",
		Help:        "HTTP request latency in seconds.",
		Buckets:     prometheus.DefBuckets,
		ConstLabels: constLabels,
	}, []string{"path", "method"})

	registry.MustRegister(requestsTotal, requestDuration)

	return &Provider{
		registry:        registry,
		requestsTotal:   requestsTotal,
		requestDuration: requestDuration,
	}
}

// Handler returns the /metrics handler for the provider's registry.
func (p *Provider) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Middleware instruments request counts and latency. The response writer is
// wrapped so that Flusher and Hijacker still pass through to streaming
// handlers.
func (p *Provider) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		p.requestsTotal.WithLabelValues(r.URL.Path, r.Method, strconv.Itoa(status)).Inc()
		p.requestDuration.WithLabelValues(r.URL.Path, r.Method).Observe(time.Since(start).Seconds())
	})
}
