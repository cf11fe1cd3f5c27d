// SPDX-License-Identifier: MIT

package media

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Minimal byte prefixes that content sniffing recognises.
var (
	pngBytes  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpegBytes = []byte("\xff\xd8\xff\xe0\x00\x10JFIF")
	webpBytes = []byte("RIFF\x24\x00\x00\x00WEBPVP8 ")
)

func newDirStore(t *testing.T) *DirStore {
	t.Helper()
	s, err := NewDirStore(t.TempDir(), 1<<20)
	require.NoError(t, err)
	return s
}

func newBadgerStore(t *testing.T) *BadgerStore {
	t.Helper()
	s, err := OpenBadgerStore(t.TempDir(), 1<<20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func testStores(t *testing.T) map[string]Store {
	return map[string]Store{
		"dir":    newDirStore(t),
		"badger": newBadgerStore(t),
	}
}

func TestSaveAndGet(t *testing.T) {
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			stored, err := s.Save(bytes.NewReader(pngBytes))
			require.NoError(t, err)
			assert.True(t, strings.HasSuffix(stored, ".png"), stored)

			blob, err := s.Get(stored)
			require.NoError(t, err)
			assert.Equal(t, "image/png", blob.ContentType)
			assert.Equal(t, pngBytes, blob.Data)
		})
	}
}

func TestSniffedTypes(t *testing.T) {
	s := newDirStore(t)

	cases := []struct {
		data []byte
		ext  string
	}{
		{jpegBytes, ".jpg"},
		{pngBytes, ".png"},
		{webpBytes, ".webp"},
	}
	for _, tc := range cases {
		name, err := s.Save(bytes.NewReader(tc.data))
		require.NoError(t, err)
		assert.True(t, strings.HasSuffix(name, tc.ext), name)
	}
}

func TestRejectsUnsupportedType(t *testing.T) {
	s := newDirStore(t)

	_, err := s.Save(strings.NewReader("definitivamente no es una imagen"))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = s.Save(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestRejectsOversizedUpload(t *testing.T) {
	s, err := NewDirStore(t.TempDir(), 16)
	require.NoError(t, err)

	payload := append(append([]byte{}, pngBytes...), bytes.Repeat([]byte{0}, 64)...)
	_, err = s.Save(bytes.NewReader(payload))
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestGetUnknownName(t *testing.T) {
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get("no-existe.png")
			assert.ErrorIs(t, err, ErrNotFound)

			// Traversal attempts read as missing, never as file access.
			_, err = s.Get("../../etc/passwd")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestDelete(t *testing.T) {
	for name, s := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			stored, err := s.Save(bytes.NewReader(jpegBytes))
			require.NoError(t, err)

			require.NoError(t, s.Delete(stored))
			_, err = s.Get(stored)
			assert.ErrorIs(t, err, ErrNotFound)

			// Idempotent.
			assert.NoError(t, s.Delete(stored))
		})
	}
}
