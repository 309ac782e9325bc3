package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// BlobStore persists document bytes outside the database. The relational row
// keeps the returned storage path; the store never interprets it beyond its
// own layout.
type BlobStore interface {
	// Save writes the blob and returns its storage path.
	Save(eventID, documentID, fileName string, r io.Reader) (string, int64, error)

	// Open opens a previously saved blob for reading.
	Open(storagePath string) (io.ReadCloser, error)

	// Delete removes a blob. Missing blobs are not an error.
	Delete(storagePath string) error
}

// DiskStore stores blobs on the local filesystem under root/eventID/documentID_name.
type DiskStore struct {
	root string
}

// NewDiskStore creates a disk-backed blob store rooted at dir.
func NewDiskStore(dir string) (*DiskStore, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create storage directory: %w", err)
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve storage directory: %w", err)
	}
	return &DiskStore{root: abs}, nil
}

// Save writes the blob to disk and returns its path relative to the store
// root together with the byte count written.
func (s *DiskStore) Save(eventID, documentID, fileName string, r io.Reader) (string, int64, error) {
	dir := filepath.Join(s.root, sanitizeSegment(eventID))
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", 0, fmt.Errorf("create event directory: %w", err)
	}

	rel := filepath.Join(sanitizeSegment(eventID),
		fmt.Sprintf("%s_%s", sanitizeSegment(documentID), sanitizeSegment(fileName)))
	full := filepath.Join(s.root, rel)

	f, err := os.Create(full)
	if err != nil {
		return "", 0, fmt.Errorf("create blob file: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(f, r)
	if err != nil {
		os.Remove(full)
		return "", 0, fmt.Errorf("write blob: %w", err)
	}

	return rel, n, nil
}

// Open opens a stored blob.
func (s *DiskStore) Open(storagePath string) (io.ReadCloser, error) {
	full, err := s.resolve(storagePath)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		return nil, fmt.Errorf("open blob: %w", err)
	}
	return f, nil
}

// Delete removes a stored blob; a missing file is treated as already deleted.
func (s *DiskStore) Delete(storagePath string) error {
	full, err := s.resolve(storagePath)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete blob: %w", err)
	}
	return nil
}

// resolve joins a stored relative path with the root and rejects any path
// that escapes it.
func (s *DiskStore) resolve(storagePath string) (string, error) {
	full := filepath.Join(s.root, filepath.Clean("/"+storagePath))
	if !strings.HasPrefix(full, s.root+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid storage path %q", storagePath)
	}
	return full, nil
}

// sanitizeSegment strips path separators from a single path segment.
func sanitizeSegment(s string) string {
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	s = strings.ReplaceAll(s, "..", "_")
	if s == "" {
		return "_"
	}
	return s
}
