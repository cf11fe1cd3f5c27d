// SPDX-License-Identifier: MIT

package catalog

import "errors"

// Domain error taxonomy. Services wrap these with %w and the API layer maps
// them to HTTP status codes in exactly one place.
var (
	// ErrNotFound reports a lookup of an absent or soft-deleted entity.
	ErrNotFound = errors.New("elemento no encontrado")

	// ErrDuplicate reports a uniqueness violation (title, name, email).
	ErrDuplicate = errors.New("elemento duplicado")

	// ErrInvalid reports rejected input data.
	ErrInvalid = errors.New("datos invalidos")

	// ErrNotPermitted reports an operation on an entity in the wrong state,
	// such as deleting an already deleted game.
	ErrNotPermitted = errors.New("operacion no permitida")
)
