// SPDX-License-Identifier: MIT

package csvstore

import (
	"context"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strconv"

	"github.com/google/renameio/v2"
	"golang.org/x/sync/errgroup"

	"github.com/hcabrera/juegosd/internal/catalog"
	"github.com/hcabrera/juegosd/internal/log"
	"github.com/hcabrera/juegosd/internal/store/sqlite"
)

// Export writes all four entity files into dir, one atomic replace per
// file, deleted rows included so a re-import reproduces the store.
func Export(ctx context.Context, st *sqlite.Store, dir string) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return exportGames(ctx, st, dir) })
	g.Go(func() error { return exportDevelopers(ctx, st, dir) })
	g.Go(func() error { return exportUsers(ctx, st, dir) })
	g.Go(func() error { return exportReviews(ctx, st, dir) })

	if err := g.Wait(); err != nil {
		return fmt.Errorf("csv export: %w", err)
	}
	logger := log.WithComponentFromContext(ctx, "csvstore")
	logger.Info().
		Str("event", "export.completed").
		Str("dir", dir).
		Msg("catalog exported to CSV")
	return nil
}

// writeRows writes header+rows to path with fsync-before-rename semantics,
// so readers never observe a partially written file.
func writeRows(path string, header []string, rows [][]string) error {
	pending, err := renameio.NewPendingFile(path)
	if err != nil {
		return fmt.Errorf("create pending file: %w", err)
	}
	defer func() {
		_ = pending.Cleanup()
	}()

	w := csv.NewWriter(pending)
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}

	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("atomically replace %s: %w", path, err)
	}
	return nil
}

func exportGames(ctx context.Context, st *sqlite.Store, dir string) error {
	games, err := st.Games.List(ctx, true)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(games))
	for _, g := range games {
		rows = append(rows, gameRow(g))
	}
	return writeRows(filepath.Join(dir, GamesFile), gameFields, rows)
}

func gameRow(g catalog.Game) []string {
	return []string{
		strconv.FormatInt(g.ID, 10),
		g.Title,
		strconv.FormatInt(g.DeveloperID, 10),
		strconv.Itoa(g.ReleaseYear),
		g.Genre,
		joinPlatforms(g.Platforms),
		strconv.FormatFloat(g.Price, 'f', 2, 64),
		g.ImageURL,
		formatBool(g.Deleted),
	}
}

func exportDevelopers(ctx context.Context, st *sqlite.Store, dir string) error {
	devs, err := st.Developers.List(ctx, true)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(devs))
	for _, d := range devs {
		rows = append(rows, []string{
			strconv.FormatInt(d.ID, 10),
			d.Name,
			d.Country,
			strconv.Itoa(d.FoundingYear),
			d.Website,
			d.Specialty,
			formatBool(d.Deleted),
		})
	}
	return writeRows(filepath.Join(dir, DevelopersFile), developerFields, rows)
}

func exportUsers(ctx context.Context, st *sqlite.Store, dir string) error {
	users, err := st.Users.List(ctx, true)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{
			strconv.FormatInt(u.ID, 10),
			u.Name,
			u.Email,
			u.Country,
			u.RegisteredAt,
			formatBool(u.Deleted),
		})
	}
	return writeRows(filepath.Join(dir, UsersFile), userFields, rows)
}

func exportReviews(ctx context.Context, st *sqlite.Store, dir string) error {
	reviews, err := st.Reviews.List(ctx, 0, true)
	if err != nil {
		return err
	}
	rows := make([][]string, 0, len(reviews))
	for _, r := range reviews {
		rows = append(rows, []string{
			strconv.FormatInt(r.ID, 10),
			strconv.FormatInt(r.GameID, 10),
			strconv.FormatInt(r.UserID, 10),
			strconv.Itoa(r.Rating),
			r.Comment,
			r.Date,
			formatBool(r.Deleted),
		})
	}
	return writeRows(filepath.Join(dir, ReviewsFile), reviewFields, rows)
}
