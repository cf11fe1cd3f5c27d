// SPDX-License-Identifier: MIT

package metrics_test

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hcabrera/juegosd/internal/metrics"
)

// gather returns the metric family with the given name, or nil.
func gather(t *testing.T, name string) *dto.MetricFamily {
	t.Helper()
	families, err := prometheus.DefaultGatherer.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() == name {
			return mf
		}
	}
	return nil
}

func TestRecordEntityCount(t *testing.T) {
	metrics.RecordEntityCount("juegos", 7)

	mf := gather(t, "juegosd_catalog_entities")
	require.NotNil(t, mf)
	for _, m := range mf.GetMetric() {
		for _, l := range m.GetLabel() {
			if l.GetName() == "entity" && l.GetValue() == "juegos" {
				assert.EqualValues(t, 7, m.GetGauge().GetValue())
				return
			}
		}
	}
	t.Fatal("entity=juegos gauge not found")
}

func TestIncMutationOutcomes(t *testing.T) {
	metrics.IncMutation("juegos", "create", nil)
	metrics.IncMutation("juegos", "create", errors.New("boom"))

	mf := gather(t, "juegosd_catalog_mutations_total")
	require.NotNil(t, mf)

	outcomes := map[string]bool{}
	for _, m := range mf.GetMetric() {
		for _, l := range m.GetLabel() {
			if l.GetName() == "outcome" {
				outcomes[l.GetValue()] = true
			}
		}
	}
	assert.True(t, outcomes["success"])
	assert.True(t, outcomes["failure"])
}

func TestObserveHTTPRequest(t *testing.T) {
	metrics.ObserveHTTPRequest("/juegos/", "GET", "200", 0.05)

	mf := gather(t, "juegosd_http_request_duration_seconds")
	require.NotNil(t, mf)
	assert.NotEmpty(t, mf.GetMetric())
}
