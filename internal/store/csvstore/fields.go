// SPDX-License-Identifier: MIT

// Package csvstore reads and writes the CSV files of the original catalog
// service. The files seed an empty database and back the export endpoint.
package csvstore

import (
	"strconv"
	"strings"
)

// File names inside the data directory, unchanged from the original.
const (
	GamesFile      = "juegos.csv"
	DevelopersFile = "desarrolladores.csv"
	UsersFile      = "usuarios.csv"
	ReviewsFile    = "resenas.csv"
)

var (
	gameFields      = []string{"id", "titulo", "desarrollador_id", "ano_lanzamiento", "genero", "plataformas", "precio", "imagen_url", "eliminado"}
	developerFields = []string{"id", "nombre", "pais", "ano_fundacion", "sitio_web", "especialidad", "eliminado"}
	userFields      = []string{"id", "nombre", "email", "pais", "fecha_registro", "eliminado"}
	reviewFields    = []string{"id", "id_videojuego", "id_usuario", "calificacion", "comentario", "fecha", "eliminado"}
)

// Platforms are a comma-joined list inside a single CSV column, as the
// original files encoded them.
func joinPlatforms(platforms []string) string {
	return strings.Join(platforms, ",")
}

func splitPlatforms(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// parseBool accepts the encodings found in the historical files.
func parseBool(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "1", "t", "y", "yes":
		return true
	}
	return false
}

func formatBool(b bool) string {
	return strconv.FormatBool(b)
}

func parseInt(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

func parseInt64(s string) int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return n
}

func parseFloat(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}
