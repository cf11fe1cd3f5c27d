// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hcabrera/juegosd/internal/config"
)

func TestOpenAPISpecIsValid(t *testing.T) {
	require.NoError(t, ValidateSpec(context.Background()))
}

func TestDocsEndpoints(t *testing.T) {
	h := newTestServer(t, config.AppConfig{}).Router()

	rec := doJSON(t, h, http.MethodGet, "/docs", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, rec.Body.String(), "swagger-ui")

	rec = doJSON(t, h, http.MethodGet, "/docs/openapi.yaml", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "API de Videojuegos")

	rec = doJSON(t, h, http.MethodGet, "/docs/init.js", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// Every documented path must exist in the router, keeping the document
// honest as routes evolve.
func TestSpecCoversRoutes(t *testing.T) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(openapiSpec)
	require.NoError(t, err)

	h := newTestServer(t, config.AppConfig{}).Router()

	for path, item := range doc.Paths.Map() {
		for method := range item.Operations() {
			// Probe with a syntactically valid request; any status except
			// 404-from-router or 405 proves the route is wired.
			probe := strings.ReplaceAll(path, "{id}", "1")
			probe = strings.ReplaceAll(probe, "{nombre}", "x.png")

			req := httptest.NewRequest(method, probe, nil)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.NotEqual(t, http.StatusMethodNotAllowed, rec.Code, "%s %s", method, path)
		}
	}
}
