// SPDX-License-Identifier: MIT

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// Table names keep the Spanish resource names of the original CSV files.
const schema = `
CREATE TABLE IF NOT EXISTS desarrolladores (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	nombre        TEXT    NOT NULL,
	nombre_norm   TEXT    NOT NULL,
	pais          TEXT    NOT NULL DEFAULT '',
	ano_fundacion INTEGER NOT NULL DEFAULT 0,
	sitio_web     TEXT    NOT NULL DEFAULT '',
	especialidad  TEXT    NOT NULL DEFAULT '',
	eliminado     INTEGER NOT NULL DEFAULT 0
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_desarrolladores_nombre_norm
	ON desarrolladores(nombre_norm);

CREATE TABLE IF NOT EXISTS juegos (
	id               INTEGER PRIMARY KEY AUTOINCREMENT,
	titulo           TEXT    NOT NULL,
	titulo_norm      TEXT    NOT NULL,
	desarrollador_id INTEGER NOT NULL REFERENCES desarrolladores(id),
	ano_lanzamiento  INTEGER NOT NULL DEFAULT 0,
	genero           TEXT    NOT NULL DEFAULT 'Desconocido',
	plataformas      TEXT    NOT NULL DEFAULT '',
	precio           REAL    NOT NULL DEFAULT 0,
	imagen_url       TEXT    NOT NULL DEFAULT '',
	eliminado        INTEGER NOT NULL DEFAULT 0
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_juegos_titulo_norm ON juegos(titulo_norm);
CREATE INDEX IF NOT EXISTS idx_juegos_genero ON juegos(genero) WHERE eliminado = 0;

CREATE TABLE IF NOT EXISTS usuarios (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	nombre         TEXT    NOT NULL,
	email          TEXT    NOT NULL,
	email_norm     TEXT    NOT NULL,
	pais           TEXT    NOT NULL DEFAULT '',
	fecha_registro TEXT    NOT NULL,
	eliminado      INTEGER NOT NULL DEFAULT 0
);
CREATE UNIQUE INDEX IF NOT EXISTS idx_usuarios_email_norm ON usuarios(email_norm);

CREATE TABLE IF NOT EXISTS resenas (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	id_videojuego INTEGER NOT NULL REFERENCES juegos(id),
	id_usuario    INTEGER NOT NULL REFERENCES usuarios(id),
	calificacion  INTEGER NOT NULL CHECK (calificacion BETWEEN 1 AND 5),
	comentario    TEXT    NOT NULL DEFAULT '',
	fecha         TEXT    NOT NULL,
	eliminado     INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_resenas_juego ON resenas(id_videojuego) WHERE eliminado = 0;
`

// Migrate creates the schema if it does not exist. Idempotent.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("sqlite: migrate failed: %w", err)
	}
	return nil
}
