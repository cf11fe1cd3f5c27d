// SPDX-License-Identifier: MIT

package csvstore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hcabrera/juegosd/internal/catalog"
	"github.com/hcabrera/juegosd/internal/store/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()

	db, err := sqlite.Open(filepath.Join(t.TempDir(), "catalogo.db"), sqlite.DefaultConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, sqlite.Migrate(context.Background(), db))
	return sqlite.New(db)
}

func TestExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := newStore(t)

	dev := &catalog.Developer{Name: "FromSoftware", Country: "Japon", FoundingYear: 1986}
	require.NoError(t, src.Developers.Insert(ctx, dev))

	g := &catalog.Game{
		Title:       "Elden Ring",
		DeveloperID: dev.ID,
		ReleaseYear: 2022,
		Genre:       "RPG",
		Platforms:   []string{"PC", "PS5"},
		Price:       59.99,
	}
	require.NoError(t, src.Games.Insert(ctx, g))

	gone := &catalog.Game{Title: "Borrado", DeveloperID: dev.ID, ReleaseYear: 2010}
	require.NoError(t, src.Games.Insert(ctx, gone))
	require.NoError(t, src.Games.SoftDelete(ctx, gone.ID))

	u := &catalog.User{Name: "Marta", Email: "marta@example.com", Country: "ES", RegisteredAt: "2024-05-05"}
	require.NoError(t, src.Users.Insert(ctx, u))

	r := &catalog.Review{GameID: g.ID, UserID: u.ID, Rating: 5, Comment: "obra maestra", Date: "2024-05-06 12:00:00"}
	require.NoError(t, src.Reviews.Insert(ctx, r))

	dir := t.TempDir()
	require.NoError(t, Export(ctx, src, dir))
	for _, name := range []string{GamesFile, DevelopersFile, UsersFile, ReviewsFile} {
		_, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, name)
	}

	dst := newStore(t)
	res, err := Import(ctx, dst, dir)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Games)
	assert.Equal(t, 1, res.Developers)
	assert.Equal(t, 1, res.Users)
	assert.Equal(t, 1, res.Reviews)
	assert.Zero(t, res.Skipped)

	live, err := dst.Games.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, live, 1)

	want := *g
	if diff := cmp.Diff(want, live[0], cmpopts.IgnoreFields(catalog.Game{}, "ID", "DeveloperID")); diff != "" {
		t.Errorf("imported game mismatch (-want +got):\n%s", diff)
	}

	all, err := dst.Games.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	reviews, err := dst.Reviews.List(ctx, live[0].ID, false)
	require.NoError(t, err)
	require.Len(t, reviews, 1)
	assert.Equal(t, "obra maestra", reviews[0].Comment)
}

func TestImportMissingFilesIsNoOp(t *testing.T) {
	dst := newStore(t)
	res, err := Import(context.Background(), dst, t.TempDir())
	require.NoError(t, err)
	assert.Zero(t, res.Games)
	assert.Zero(t, res.Developers)
}

func TestImportSkipsDanglingRows(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	// One game referencing a developer that never appears.
	games := "id,titulo,desarrollador_id,ano_lanzamiento,genero,plataformas,precio,imagen_url,eliminado\n" +
		"1,Fantasma,42,2001,Accion,PC,9.99,,false\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, GamesFile), []byte(games), 0o644))

	dst := newStore(t)
	res, err := Import(ctx, dst, dir)
	require.NoError(t, err)
	assert.Zero(t, res.Games)
	assert.Equal(t, 1, res.Skipped)
}

func TestSplitPlatforms(t *testing.T) {
	assert.Equal(t, []string{"PC", "PS5"}, splitPlatforms("PC, PS5"))
	assert.Empty(t, splitPlatforms(""))
	assert.Equal(t, []string{"Switch"}, splitPlatforms("Switch,"))
}
