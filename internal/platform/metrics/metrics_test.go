// Copyright (c) 2026 Web Enterprise 24. All rights reserved.

package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/web-enterprise-24/backend/internal/platform/metrics"
)

/*
TestAuthMetrics_Counters verifies each recorder increments its own series.
*/
func TestAuthMetrics_Counters(t *testing.T) {
	registry := prometheus.NewRegistry()
	m := metrics.NewAuthMetrics(registry)

	m.RecordAuthentication(true)
	m.RecordAuthentication(false)
	m.RecordAuthentication(false)
	m.RecordFailure("invalid_access_token")
	m.RecordAuthorization(true)
	m.RecordSessionIssued()
	m.RecordSessionsRemoved(metrics.CausePasswordChange, 3)
	m.RecordSessionsRemoved(metrics.CauseLogout, 0)
	m.RecordCacheLookup(true)

	count, err := testutil.GatherAndCount(registry, "auth_authentications_total")
	assert.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = testutil.GatherAndCount(registry, "auth_sessions_removed_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)

	count, err = testutil.GatherAndCount(registry, "auth_sessions_issued_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

/*
TestAuthMetrics_NilReceiver ensures a nil collector is a silent no-op.
*/
func TestAuthMetrics_NilReceiver(t *testing.T) {
	var m *metrics.AuthMetrics

	assert.NotPanics(t, func() {
		m.RecordAuthentication(true)
		m.RecordFailure("x")
		m.RecordAuthorization(false)
		m.RecordSessionIssued()
		m.RecordSessionsRemoved(metrics.CauseManual, 1)
		m.RecordCacheLookup(false)
	})
}
