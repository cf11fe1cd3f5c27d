// SPDX-License-Identifier: MIT

package media

import (
	"errors"
	"fmt"
	"io"

	"github.com/dgraph-io/badger/v4"
)

// BadgerStore keeps blobs inside a Badger database, key "img:<name>".
// Useful on hosts where only the data directory is writable.
type BadgerStore struct {
	db       *badger.DB
	maxBytes int64
}

// OpenBadgerStore opens (or creates) the database at path.
func OpenBadgerStore(path string, maxBytes int64) (*BadgerStore, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open media store: %w", err)
	}
	return &BadgerStore{db: db, maxBytes: maxBytes}, nil
}

func blobKey(name string) []byte {
	return []byte("img:" + name)
}

func (s *BadgerStore) Save(r io.Reader) (string, error) {
	data, ctype, err := readValidated(r, s.maxBytes)
	if err != nil {
		return "", err
	}

	name := newName(ctype)
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(blobKey(name), data)
	})
	if err != nil {
		return "", fmt.Errorf("store image %s: %w", name, err)
	}
	return name, nil
}

func (s *BadgerStore) Get(name string) (*Blob, error) {
	if !validName(name) {
		return nil, ErrNotFound
	}
	var data []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(blobKey(name))
		if err != nil {
			return err
		}
		data, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load image %s: %w", name, err)
	}
	return &Blob{Name: name, ContentType: contentTypeFor(name), Data: data}, nil
}

func (s *BadgerStore) Delete(name string) error {
	if !validName(name) {
		return nil
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(blobKey(name))
	})
	if err != nil {
		return fmt.Errorf("delete image %s: %w", name, err)
	}
	return nil
}

// Close flushes and closes the underlying database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
