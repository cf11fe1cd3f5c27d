// SPDX-License-Identifier: MIT

package csvstore

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/hcabrera/juegosd/internal/catalog"
	"github.com/hcabrera/juegosd/internal/log"
	"github.com/hcabrera/juegosd/internal/store/sqlite"
)

// ImportResult summarises a seed run.
type ImportResult struct {
	Games      int
	Developers int
	Users      int
	Reviews    int
	Skipped    int
}

// Import seeds the store from the CSV files in dir. Missing files are
// skipped; malformed rows are logged and dropped, never fatal. The
// original loader behaved the same way. Rows keep their relative identity
// through an old-ID to new-ID mapping so cross-references survive.
func Import(ctx context.Context, st *sqlite.Store, dir string) (ImportResult, error) {
	logger := log.WithComponentFromContext(ctx, "csvstore")
	var res ImportResult

	devIDs := make(map[int64]int64)
	rows, err := readRows(filepath.Join(dir, DevelopersFile), len(developerFields))
	if err != nil {
		return res, err
	}
	for _, row := range rows {
		d := catalog.Developer{
			Name:         row[1],
			Country:      row[2],
			FoundingYear: parseInt(row[3]),
			Website:      row[4],
			Specialty:    row[5],
		}
		oldID := parseInt64(row[0])
		if err := st.Developers.Insert(ctx, &d); err != nil {
			logger.Warn().Err(err).Str("file", DevelopersFile).Str("nombre", d.Name).Msg("skipping row")
			res.Skipped++
			continue
		}
		if parseBool(row[6]) {
			if err := st.Developers.SoftDelete(ctx, d.ID); err != nil {
				return res, err
			}
		}
		devIDs[oldID] = d.ID
		res.Developers++
	}

	userIDs := make(map[int64]int64)
	rows, err = readRows(filepath.Join(dir, UsersFile), len(userFields))
	if err != nil {
		return res, err
	}
	for _, row := range rows {
		u := catalog.User{
			Name:         row[1],
			Email:        row[2],
			Country:      row[3],
			RegisteredAt: row[4],
		}
		if u.RegisteredAt == "" {
			u.RegisteredAt = catalog.Today()
		}
		oldID := parseInt64(row[0])
		if err := st.Users.Insert(ctx, &u); err != nil {
			logger.Warn().Err(err).Str("file", UsersFile).Str("email", u.Email).Msg("skipping row")
			res.Skipped++
			continue
		}
		if parseBool(row[5]) {
			if err := st.Users.SoftDelete(ctx, u.ID); err != nil {
				return res, err
			}
		}
		userIDs[oldID] = u.ID
		res.Users++
	}

	gameIDs := make(map[int64]int64)
	rows, err = readRows(filepath.Join(dir, GamesFile), len(gameFields))
	if err != nil {
		return res, err
	}
	for _, row := range rows {
		devID, ok := devIDs[parseInt64(row[2])]
		if !ok {
			logger.Warn().Str("file", GamesFile).Str("titulo", row[1]).Msg("skipping row: unknown developer")
			res.Skipped++
			continue
		}
		g := catalog.Game{
			Title:       row[1],
			DeveloperID: devID,
			ReleaseYear: parseInt(row[3]),
			Genre:       row[4],
			Platforms:   splitPlatforms(row[5]),
			Price:       parseFloat(row[6]),
			ImageURL:    row[7],
		}
		oldID := parseInt64(row[0])
		if err := st.Games.Insert(ctx, &g); err != nil {
			logger.Warn().Err(err).Str("file", GamesFile).Str("titulo", g.Title).Msg("skipping row")
			res.Skipped++
			continue
		}
		if parseBool(row[8]) {
			if err := st.Games.SoftDelete(ctx, g.ID); err != nil {
				return res, err
			}
		}
		gameIDs[oldID] = g.ID
		res.Games++
	}

	rows, err = readRows(filepath.Join(dir, ReviewsFile), len(reviewFields))
	if err != nil {
		return res, err
	}
	for _, row := range rows {
		gameID, okGame := gameIDs[parseInt64(row[1])]
		userID, okUser := userIDs[parseInt64(row[2])]
		if !okGame || !okUser {
			logger.Warn().Str("file", ReviewsFile).Str("id", row[0]).Msg("skipping row: dangling reference")
			res.Skipped++
			continue
		}
		r := catalog.Review{
			GameID:  gameID,
			UserID:  userID,
			Rating:  parseInt(row[3]),
			Comment: row[4],
			Date:    row[5],
		}
		if r.Date == "" {
			r.Date = catalog.Now()
		}
		if err := st.Reviews.Insert(ctx, &r); err != nil {
			logger.Warn().Err(err).Str("file", ReviewsFile).Str("id", row[0]).Msg("skipping row")
			res.Skipped++
			continue
		}
		if parseBool(row[6]) {
			if err := st.Reviews.SoftDelete(ctx, r.ID); err != nil {
				return res, err
			}
		}
		res.Reviews++
	}

	logger.Info().
		Str("event", "import.completed").
		Int("juegos", res.Games).
		Int("desarrolladores", res.Developers).
		Int("usuarios", res.Users).
		Int("resenas", res.Reviews).
		Int("skipped", res.Skipped).
		Msg("catalog seeded from CSV")
	return res, nil
}

// readRows loads a CSV file, skipping the header. A missing file yields no
// rows. Rows with the wrong column count are dropped.
func readRows(path string, wantFields int) ([][]string, error) {
	f, err := os.Open(path) // #nosec G304 -- path is confined to the data directory
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	var rows [][]string
	first := true
	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		if first {
			first = false
			continue
		}
		if len(row) != wantFields {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
