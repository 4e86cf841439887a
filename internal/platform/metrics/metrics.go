// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

// Package metrics exposes Prometheus counters for the authentication pipeline.
//
// A nil *AuthMetrics is valid and records nothing, so components can take it as
// an optional dependency without nil checks at every call site.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Result labels
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Session removal causes
const (
	CauseLogout         = "logout"
	CauseRefresh        = "refresh"
	CausePasswordChange = "password_change"
	CauseStatusChange   = "status_change"
	CauseManual         = "manual"
)

// AuthMetrics holds the counters recorded by the auth gates and session flows.
type AuthMetrics struct {
	authentications *prometheus.CounterVec
	failures        *prometheus.CounterVec
	authorizations  *prometheus.CounterVec
	sessionsIssued  prometheus.Counter
	sessionsRemoved *prometheus.CounterVec
	cacheLookups    *prometheus.CounterVec
}

// NewAuthMetrics creates the counters and registers them against registerer.
//
// Registering twice against the same registerer panics, as with promauto.
func NewAuthMetrics(registerer prometheus.Registerer) *AuthMetrics {
	factory := promauto.With(registerer)

	return &AuthMetrics{
		authentications: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_authentications_total",
			Help: "Bearer token authentications by result",
		}, []string{"result"}),

		failures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_failures_total",
			Help: "Authentication and authorization failures by reason",
		}, []string{"reason"}),

		authorizations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_authorizations_total",
			Help: "Role checks by result",
		}, []string{"result"}),

		sessionsIssued: factory.NewCounter(prometheus.CounterOpts{
			Name: "auth_sessions_issued_total",
			Help: "Sessions created by login, signup and refresh",
		}),

		sessionsRemoved: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_sessions_removed_total",
			Help: "Sessions removed by cause",
		}, []string{"cause"}),

		cacheLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "auth_apikey_cache_lookups_total",
			Help: "API key cache lookups by result",
		}, []string{"result"}),
	}
}

// RecordAuthentication counts one AuthenticationGate outcome.
func (m *AuthMetrics) RecordAuthentication(ok bool) {
	if m == nil {
		return
	}
	m.authentications.WithLabelValues(result(ok)).Inc()
}

// RecordFailure counts a rejected request under reason.
func (m *AuthMetrics) RecordFailure(reason string) {
	if m == nil {
		return
	}
	m.failures.WithLabelValues(reason).Inc()
}

// RecordAuthorization counts one AuthorizationGate outcome.
func (m *AuthMetrics) RecordAuthorization(ok bool) {
	if m == nil {
		return
	}
	m.authorizations.WithLabelValues(result(ok)).Inc()
}

// RecordSessionIssued counts a persisted session.
func (m *AuthMetrics) RecordSessionIssued() {
	if m == nil {
		return
	}
	m.sessionsIssued.Inc()
}

// RecordSessionsRemoved counts removed sessions under cause.
func (m *AuthMetrics) RecordSessionsRemoved(cause string, count int64) {
	if m == nil || count <= 0 {
		return
	}
	m.sessionsRemoved.WithLabelValues(cause).Add(float64(count))
}

// RecordCacheLookup counts an API key cache hit or miss.
func (m *AuthMetrics) RecordCacheLookup(hit bool) {
	if m == nil {
		return
	}
	label := "miss"
	if hit {
		label = "hit"
	}
	m.cacheLookups.WithLabelValues(label).Inc()
}

func result(ok bool) string {
	if ok {
		return ResultSuccess
	}
	return ResultFailure
}
