// Copyright (c) 2026 Caro. All rights reserved.
// Author: dan.caovan.vn@gmail.com

/*
Package metrics provides Prometheus instrumentation for the Caro API.

It exposes counters for the auth gate's per-request decisions and the
identity provider round-trips, so operators can distinguish a wave of
expired sessions (expected) from a provider outage (actionable).
*/
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the collection interface consumed by the gate and the
// identity client. Keeping it an interface lets unit tests pass a no-op.
type Recorder interface {
	RecordGateDecision(decision string)
	RecordProviderCall(operation string, statusCode int)
	RecordProviderLatency(operation string, duration time.Duration)
	RecordProvisionAttempt(succeeded bool)
}

// Collector implements [Recorder] on top of Prometheus primitives.
type Collector struct {
	gateDecisions    *prometheus.CounterVec
	providerCalls    *prometheus.CounterVec
	providerLatency  *prometheus.HistogramVec
	provisionResults *prometheus.CounterVec
}

// NewCollector creates a new Collector and registers its metrics with the
// given registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		gateDecisions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "caro_gate_decisions_total",
			Help: "Auth gate decisions per request, labelled by outcome",
		}, []string{"decision"}),
		providerCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "caro_provider_calls_total",
			Help: "Identity provider round-trips by operation and HTTP status",
		}, []string{"operation", "status_code"}),
		providerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "caro_provider_latency_seconds",
			Help:    "Identity provider request latency in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		provisionResults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "caro_profile_provision_total",
			Help: "Profile provisioning attempts by final result",
		}, []string{"result"}),
	}

	reg.MustRegister(
		c.gateDecisions,
		c.providerCalls,
		c.providerLatency,
		c.provisionResults,
	)

	return c
}

// RecordGateDecision counts one gate outcome (allow, redirect_login, ...).
func (c *Collector) RecordGateDecision(decision string) {
	c.gateDecisions.WithLabelValues(decision).Inc()
}

// RecordProviderCall counts one provider round-trip. A statusCode of 0
// means the request never completed (connectivity fault).
func (c *Collector) RecordProviderCall(operation string, statusCode int) {
	c.providerCalls.WithLabelValues(operation, strconv.Itoa(statusCode)).Inc()
}

// RecordProviderLatency observes one provider round-trip duration.
func (c *Collector) RecordProviderLatency(operation string, duration time.Duration) {
	c.providerLatency.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordProvisionAttempt counts a finished provisioning run.
func (c *Collector) RecordProvisionAttempt(succeeded bool) {
	result := "failure"
	if succeeded {
		result = "success"
	}
	c.provisionResults.WithLabelValues(result).Inc()
}

// Handler returns the HTTP handler serving the /metrics endpoint for the
// given registry.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// # No-op Recorder

// Noop returns a [Recorder] that discards all observations. Used in tests
// and in wiring paths where metrics are optional.
func Noop() Recorder { return noopRecorder{} }

type noopRecorder struct{}

func (noopRecorder) RecordGateDecision(string)                   {}
func (noopRecorder) RecordProviderCall(string, int)              {}
func (noopRecorder) RecordProviderLatency(string, time.Duration) {}
func (noopRecorder) RecordProvisionAttempt(bool)                 {}
