// SPDX-License-Identifier: MIT

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hcabrera/juegosd/internal/cache"
	"github.com/hcabrera/juegosd/internal/catalog"
	"github.com/hcabrera/juegosd/internal/config"
	"github.com/hcabrera/juegosd/internal/media"
	"github.com/hcabrera/juegosd/internal/service"
	"github.com/hcabrera/juegosd/internal/store/sqlite"
)

var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func newTestServer(t *testing.T, cfg config.AppConfig) *Server {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "catalogo.db"), sqlite.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, sqlite.Migrate(context.Background(), db))

	store := sqlite.New(db)
	blobs, err := media.NewDirStore(t.TempDir(), 1<<20)
	require.NoError(t, err)

	if cfg.DataDir == "" {
		cfg.DataDir = t.TempDir()
	}

	return New(Deps{
		Config:  cfg,
		Version: "test",
		Games:   service.NewGameService(store, cache.NewMemory(0), blobs, time.Minute),
		Devs:    service.NewDeveloperService(store),
		Users:   service.NewUserService(store),
		Reviews: service.NewReviewService(store, 0),
		Store:   store,
	})
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func createDeveloper(t *testing.T, h http.Handler) int64 {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/desarrolladores/", map[string]any{
		"nombre": fmt.Sprintf("Estudio %d", time.Now().UnixNano()),
		"pais":   "ES",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var dev catalog.Developer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &dev))
	return dev.ID
}

func createGame(t *testing.T, h http.Handler, devID int64, title string) catalog.Game {
	t.Helper()
	rec := doJSON(t, h, http.MethodPost, "/juegos/", map[string]any{
		"titulo":           title,
		"desarrollador_id": devID,
		"ano_lanzamiento":  2020,
		"genero":           "accion",
		"plataformas":      []string{"PC"},
		"precio":           29.99,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var g catalog.Game
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &g))
	return g
}

func TestRootEndpoint(t *testing.T) {
	h := newTestServer(t, config.AppConfig{}).Router()

	rec := doJSON(t, h, http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "/docs")
}

func TestGameLifecycle(t *testing.T) {
	h := newTestServer(t, config.AppConfig{}).Router()
	devID := createDeveloper(t, h)
	g := createGame(t, h, devID, "Hollow Knight")

	rec := doJSON(t, h, http.MethodGet, fmt.Sprintf("/juegos/%d", g.ID), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPut, fmt.Sprintf("/juegos/%d", g.ID), map[string]any{
		"titulo":           "Hollow Knight",
		"desarrollador_id": devID,
		"ano_lanzamiento":  2017,
		"genero":           "metroidvania",
		"plataformas":      []string{"PC", "Switch"},
		"precio":           14.99,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodDelete, fmt.Sprintf("/juegos/%d", g.ID), nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, fmt.Sprintf("/juegos/%d", g.ID), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/juegos/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var games []catalog.Game
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &games))
	assert.Empty(t, games)
}

func TestGameDuplicateTitleConflicts(t *testing.T) {
	h := newTestServer(t, config.AppConfig{}).Router()
	devID := createDeveloper(t, h)
	createGame(t, h, devID, "Pokémon Rojo")

	rec := doJSON(t, h, http.MethodPost, "/juegos/", map[string]any{
		"titulo":           "pokemon rojo",
		"desarrollador_id": devID,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestGameListFilterByGenre(t *testing.T) {
	h := newTestServer(t, config.AppConfig{}).Router()
	devID := createDeveloper(t, h)
	createGame(t, h, devID, "Uno")
	rec := doJSON(t, h, http.MethodPost, "/juegos/", map[string]any{
		"titulo":           "Dos",
		"desarrollador_id": devID,
		"genero":           "deportes",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/juegos/?genero=deportes", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var games []catalog.Game
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &games))
	require.Len(t, games, 1)
	assert.Equal(t, "Dos", games[0].Title)
}

func TestGameListFilterByTitle(t *testing.T) {
	h := newTestServer(t, config.AppConfig{}).Router()
	devID := createDeveloper(t, h)
	createGame(t, h, devID, "Metroid Prime")
	createGame(t, h, devID, "Metroid Fusion")

	listTitles := func(query string) []catalog.Game {
		rec := doJSON(t, h, http.MethodGet, "/juegos/"+query, nil)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var games []catalog.Game
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &games))
		return games
	}

	assert.Len(t, listTitles("?titulo=metroid"), 2)
	assert.Empty(t, listTitles("?titulo=castlevania"))

	exact := listTitles("?titulo=metroid+prime&exacto=true")
	require.Len(t, exact, 1)
	assert.Equal(t, "Metroid Prime", exact[0].Title)
	assert.Empty(t, listTitles("?titulo=metroid&exacto=true"))
}

func TestGameSearch(t *testing.T) {
	h := newTestServer(t, config.AppConfig{}).Router()
	devID := createDeveloper(t, h)
	createGame(t, h, devID, "La Leyenda de Zeldá")

	rec := doJSON(t, h, http.MethodGet, "/juegos/buscar?titulo=zelda", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var games []catalog.Game
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &games))
	assert.Len(t, games, 1)

	rec = doJSON(t, h, http.MethodGet, "/juegos/buscar", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatsEndpoints(t *testing.T) {
	h := newTestServer(t, config.AppConfig{}).Router()
	devID := createDeveloper(t, h)
	createGame(t, h, devID, "Juego Uno")

	rec := doJSON(t, h, http.MethodGet, "/juegos/estadisticas/generos", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var counts map[string]int
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &counts))
	assert.Equal(t, 1, counts["Accion"])

	rec = doJSON(t, h, http.MethodGet, "/juegos/estadisticas/precio-promedio", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var stats service.PriceStats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.Total)
	assert.InDelta(t, 29.99, stats.Average, 0.001)
}

func TestImageUploadAndServe(t *testing.T) {
	h := newTestServer(t, config.AppConfig{}).Router()
	devID := createDeveloper(t, h)
	g := createGame(t, h, devID, "Cuphead")

	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/juegos/%d/imagen", g.ID), bytes.NewReader(pngBytes))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	url := resp["imagen_url"]
	require.True(t, strings.HasPrefix(url, "/imagenes/"), url)

	rec = doJSON(t, h, http.MethodGet, url, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))

	rec = doJSON(t, h, http.MethodGet, "/imagenes/no-existe.png", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReviewFlow(t *testing.T) {
	h := newTestServer(t, config.AppConfig{}).Router()
	devID := createDeveloper(t, h)
	g := createGame(t, h, devID, "Stardew Valley")

	rec := doJSON(t, h, http.MethodPost, "/usuarios/", map[string]any{
		"nombre": "Rita", "email": "rita@example.com",
	})
	require.Equal(t, http.StatusCreated, rec.Code)
	var u catalog.User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &u))

	rec = doJSON(t, h, http.MethodPost, "/resenas/", map[string]any{
		"id_videojuego": g.ID, "id_usuario": u.ID, "calificacion": 5, "comentario": "relajante",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = doJSON(t, h, http.MethodPost, "/resenas/", map[string]any{
		"id_videojuego": g.ID, "id_usuario": u.ID, "calificacion": 9,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodGet, fmt.Sprintf("/resenas/?id_videojuego=%d", g.ID), nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var reviews []catalog.Review
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &reviews))
	assert.Len(t, reviews, 1)
}

func TestDeveloperDeleteConflict(t *testing.T) {
	h := newTestServer(t, config.AppConfig{}).Router()
	devID := createDeveloper(t, h)
	createGame(t, h, devID, "Bloqueante")

	rec := doJSON(t, h, http.MethodDelete, fmt.Sprintf("/desarrolladores/%d", devID), nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestAuthProtectsMutations(t *testing.T) {
	h := newTestServer(t, config.AppConfig{APIToken: "secreto"}).Router()

	// Reads stay open.
	rec := doJSON(t, h, http.MethodGet, "/juegos/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Writes need the token.
	rec = doJSON(t, h, http.MethodPost, "/desarrolladores/", map[string]any{"nombre": "X"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodPost, "/desarrolladores/", strings.NewReader(`{"nombre":"Y"}`))
	req.Header.Set("Authorization", "Bearer equivocado")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req = httptest.NewRequest(http.MethodPost, "/desarrolladores/", strings.NewReader(`{"nombre":"Z"}`))
	req.Header.Set("Authorization", "Bearer secreto")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

// Token rotation must not need a restart: after a reload the middleware
// follows the holder's snapshot.
func TestAuthTokenFollowsReload(t *testing.T) {
	t.Setenv("JUEGOS_API_TOKEN", "antes")

	loader := config.NewLoader("", "test")
	cfg, err := loader.Load()
	require.NoError(t, err)
	cfg.DataDir = t.TempDir()

	srv := newTestServer(t, cfg)
	srv.holder = config.NewHolder(cfg, loader, "")
	h := srv.Router()

	post := func(token, name string) int {
		req := httptest.NewRequest(http.MethodPost, "/desarrolladores/", strings.NewReader(`{"nombre":"`+name+`"}`))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	require.Equal(t, http.StatusCreated, post("antes", "Estudio Uno"))

	t.Setenv("JUEGOS_API_TOKEN", "despues")
	require.NoError(t, srv.holder.Reload())

	assert.Equal(t, http.StatusUnauthorized, post("antes", "Estudio Dos"))
	assert.Equal(t, http.StatusCreated, post("despues", "Estudio Dos"))
}

func TestExportEndpoint(t *testing.T) {
	dir := t.TempDir()
	h := newTestServer(t, config.AppConfig{DataDir: dir}).Router()
	devID := createDeveloper(t, h)
	createGame(t, h, devID, "Exportame")

	rec := doJSON(t, h, http.MethodPost, "/exportar", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.FileExists(t, filepath.Join(dir, "juegos.csv"))
	assert.FileExists(t, filepath.Join(dir, "desarrolladores.csv"))
}

func TestUnknownIDIs404(t *testing.T) {
	h := newTestServer(t, config.AppConfig{}).Router()

	for _, path := range []string{"/juegos/999", "/desarrolladores/999", "/usuarios/999", "/resenas/999"} {
		rec := doJSON(t, h, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code, path)
	}

	rec := doJSON(t, h, http.MethodGet, "/juegos/abc", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
