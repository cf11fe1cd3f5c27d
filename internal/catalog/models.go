// SPDX-License-Identifier: MIT

// Package catalog defines the domain model of the videogame catalog:
// games, developers, users and reviews. Wire field names stay Spanish for
// compatibility with the CSV files and clients of the original service.
package catalog

import "time"

// DateFormat is the wire format for registration dates.
const DateFormat = "2006-01-02"

// TimestampFormat is the wire format for review timestamps.
const TimestampFormat = "2006-01-02 15:04:05"

// Game is a catalog entry. Deleted entries stay in the store but are
// invisible to all read paths.
type Game struct {
	ID          int64    `json:"id"`
	Title       string   `json:"titulo"`
	DeveloperID int64    `json:"desarrollador_id"`
	ReleaseYear int      `json:"ano_lanzamiento"`
	Genre       string   `json:"genero"`
	Platforms   []string `json:"plataformas"`
	Price       float64  `json:"precio"`
	ImageURL    string   `json:"imagen_url,omitempty"`
	Deleted     bool     `json:"eliminado"`
}

// Developer is a game studio.
type Developer struct {
	ID           int64  `json:"id"`
	Name         string `json:"nombre"`
	Country      string `json:"pais"`
	FoundingYear int    `json:"ano_fundacion,omitempty"`
	Website      string `json:"sitio_web,omitempty"`
	Specialty    string `json:"especialidad,omitempty"`
	Deleted      bool   `json:"eliminado"`
}

// User is a registered catalog user.
type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"nombre"`
	Email        string `json:"email"`
	Country      string `json:"pais"`
	RegisteredAt string `json:"fecha_registro"`
	Deleted      bool   `json:"eliminado"`
}

// Review is a user rating of a game. Rating is constrained to 1..5.
type Review struct {
	ID      int64  `json:"id"`
	GameID  int64  `json:"id_videojuego"`
	UserID  int64  `json:"id_usuario"`
	Rating  int    `json:"calificacion"`
	Comment string `json:"comentario"`
	Date    string `json:"fecha"`
	Deleted bool   `json:"eliminado"`
}

// GameFilter narrows game listings. Zero values mean "no constraint".
type GameFilter struct {
	Genre    string
	Platform string
	MinPrice *float64
	MaxPrice *float64
	Title    string // substring match, diacritic-insensitive
	Exact    bool   // exact title match instead of substring
}

// Empty reports whether the filter constrains nothing.
func (f GameFilter) Empty() bool {
	return f.Genre == "" && f.Platform == "" && f.MinPrice == nil &&
		f.MaxPrice == nil && f.Title == ""
}

// Today returns the registration date for users created now.
func Today() string {
	return time.Now().Format(DateFormat)
}

// Now returns the review timestamp for reviews created now.
func Now() string {
	return time.Now().Format(TimestampFormat)
}
