// Package storage abstracts the byte store that holds attachment contents.
// The index (AttachmentVersion rows) is the source of truth; this layer only
// persists and removes raw bytes under a path the index hands it.
package storage

import "io"

type BlobStore interface {
	Save(path string, r io.Reader) error
	Remove(path string) error
	Open(path string) (io.ReadCloser, error)
}
