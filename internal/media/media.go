// SPDX-License-Identifier: MIT

// Package media stores uploaded cover images. Two backends exist: plain
// files under a directory, and a Badger key-value store for deployments
// without a writable media tree.
package media

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrTooLarge means the upload exceeded the configured size cap.
	ErrTooLarge = errors.New("la imagen supera el tamano maximo permitido")
	// ErrUnsupportedType means the payload is not JPEG, PNG or WebP.
	ErrUnsupportedType = errors.New("formato de imagen no soportado")
	// ErrNotFound means no blob exists under the requested name.
	ErrNotFound = errors.New("imagen no encontrada")
)

// Blob is a stored image.
type Blob struct {
	Name        string
	ContentType string
	Data        []byte
}

// Store persists image blobs under generated names.
type Store interface {
	// Save sniffs and validates the payload, then stores it under a fresh
	// name which it returns.
	Save(r io.Reader) (string, error)
	// Get returns the blob stored under name.
	Get(name string) (*Blob, error)
	// Delete removes the blob. Deleting a missing blob is not an error.
	Delete(name string) error
}

// extensions maps the accepted sniffed types to on-disk extensions.
var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// readValidated drains r up to maxBytes and sniffs the content type.
// Declared Content-Type headers are ignored: only the bytes decide.
func readValidated(r io.Reader, maxBytes int64) ([]byte, string, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, "", fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > maxBytes {
		return nil, "", ErrTooLarge
	}
	if len(data) == 0 {
		return nil, "", ErrUnsupportedType
	}

	ctype := http.DetectContentType(data)
	if _, ok := extensions[ctype]; !ok {
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedType, ctype)
	}
	return data, ctype, nil
}

func newName(ctype string) string {
	return uuid.NewString() + extensions[ctype]
}

// contentTypeFor recovers the MIME type from a stored name's extension.
func contentTypeFor(name string) string {
	for ctype, ext := range extensions {
		if strings.HasSuffix(name, ext) {
			return ctype
		}
	}
	return "application/octet-stream"
}

// validName rejects names that could traverse outside the store.
func validName(name string) bool {
	if name == "" || strings.ContainsAny(name, "/\\") || strings.Contains(name, "..") {
		return false
	}
	return true
}
