// SPDX-License-Identifier: MIT

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticChecker struct {
	name   string
	result CheckResult
}

func (c staticChecker) Name() string                     { return c.name }
func (c staticChecker) Check(context.Context) CheckResult { return c.result }

func TestHealthAlwaysOK(t *testing.T) {
	m := NewManager("1.2.3")
	m.RegisterChecker(staticChecker{"broken", CheckResult{Status: StatusUnhealthy, Error: "down"}})

	rec := httptest.NewRecorder()
	m.ServeHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, StatusHealthy, resp.Status)
	assert.Equal(t, "1.2.3", resp.Version)
	assert.Empty(t, resp.Checks)
}

func TestHealthVerboseIncludesChecks(t *testing.T) {
	m := NewManager("dev")
	m.RegisterChecker(staticChecker{"database", CheckResult{Status: StatusUnhealthy, Error: "down"}})

	rec := httptest.NewRecorder()
	m.ServeHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz?verbose=true", nil))

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, StatusUnhealthy, resp.Status)
	assert.Contains(t, resp.Checks, "database")
}

func TestReadyFailsOnUnhealthyChecker(t *testing.T) {
	m := NewManager("dev")
	m.RegisterChecker(staticChecker{"database", CheckResult{Status: StatusUnhealthy, Error: "down"}})

	rec := httptest.NewRecorder()
	m.ServeReady(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	var resp ReadinessResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Ready)
}

func TestReadyDegradedStillReady(t *testing.T) {
	m := NewManager("dev")
	m.RegisterChecker(staticChecker{"cache", CheckResult{Status: StatusDegraded, Error: "redis unreachable"}})

	resp := m.Ready(context.Background())
	assert.True(t, resp.Ready)
	assert.Equal(t, StatusDegraded, resp.Status)
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

func TestPingCheckerDegradesOnFailure(t *testing.T) {
	ok := NewPingChecker("cache", fakePinger{})
	assert.Equal(t, StatusHealthy, ok.Check(context.Background()).Status)

	bad := NewPingChecker("cache", fakePinger{err: errors.New("conn refused")})
	assert.Equal(t, StatusDegraded, bad.Check(context.Background()).Status)
}

func TestDirChecker(t *testing.T) {
	assert.Equal(t, StatusHealthy, NewDirChecker("media", t.TempDir()).Check(context.Background()).Status)
	assert.Equal(t, StatusUnhealthy, NewDirChecker("media", "/no/such/dir").Check(context.Background()).Status)
	assert.Equal(t, StatusHealthy, NewDirChecker("media", "").Check(context.Background()).Status)
}
