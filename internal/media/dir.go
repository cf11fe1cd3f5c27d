// SPDX-License-Identifier: MIT

package media

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/renameio/v2"
)

// DirStore keeps blobs as files under a single directory. Writes go
// through a temp file plus rename, so a crashed upload never leaves a
// half-written image behind.
type DirStore struct {
	dir      string
	maxBytes int64
}

// NewDirStore creates the directory if needed.
func NewDirStore(dir string, maxBytes int64) (*DirStore, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create media dir: %w", err)
	}
	return &DirStore{dir: dir, maxBytes: maxBytes}, nil
}

func (s *DirStore) Save(r io.Reader) (string, error) {
	data, ctype, err := readValidated(r, s.maxBytes)
	if err != nil {
		return "", err
	}

	name := newName(ctype)
	if err := renameio.WriteFile(filepath.Join(s.dir, name), data, 0o640); err != nil {
		return "", fmt.Errorf("write image %s: %w", name, err)
	}
	return name, nil
}

func (s *DirStore) Get(name string) (*Blob, error) {
	if !validName(name) {
		return nil, ErrNotFound
	}
	data, err := os.ReadFile(filepath.Join(s.dir, name)) // #nosec G304 -- name is validated above
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("read image %s: %w", name, err)
	}
	return &Blob{Name: name, ContentType: contentTypeFor(name), Data: data}, nil
}

func (s *DirStore) Delete(name string) error {
	if !validName(name) {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete image %s: %w", name, err)
	}
	return nil
}
