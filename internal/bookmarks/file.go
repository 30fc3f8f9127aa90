package bookmarks

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/tphakala/weatherdash/internal/errors"
)

// StorageKey is the document key the bookmark list is stored under
const StorageKey = "weatherBookmarks"

// document is the on-disk JSON shape
type document struct {
	Bookmarks []string `json:"weatherBookmarks"`
}

// FileBackend stores bookmarks as a JSON document on disk
type FileBackend struct {
	path string
}

// NewFileBackend creates a backend for path. The file is created on the
// first save.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Path returns the backing file path
func (f *FileBackend) Path() string {
	return f.path
}

// Load implements Backend. A missing file is an empty list; unreadable or
// malformed content is an error.
func (f *FileBackend) Load(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, f.fileError(err, errors.CategoryFileIO, "read")
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, f.fileError(err, errors.CategoryFileParsing, "decode")
	}
	return doc.Bookmarks, nil
}

// Save implements Backend. The document is written to a temporary file in
// the same directory and renamed over the target.
func (f *FileBackend) Save(ctx context.Context, cities []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if cities == nil {
		cities = []string{}
	}

	data, err := json.MarshalIndent(document{Bookmarks: cities}, "", "  ")
	if err != nil {
		return f.fileError(err, errors.CategoryFileParsing, "encode")
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return f.fileError(err, errors.CategoryFileIO, "mkdir")
	}

	tempFile, err := os.CreateTemp(dir, ".bookmarks-*.json")
	if err != nil {
		return f.fileError(err, errors.CategoryFileIO, "create temp")
	}
	tempName := tempFile.Name()
	// Removing after a successful rename is a no-op
	defer func() { _ = os.Remove(tempName) }()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return f.fileError(err, errors.CategoryFileIO, "write")
	}
	if err := tempFile.Sync(); err != nil {
		_ = tempFile.Close()
		return f.fileError(err, errors.CategoryFileIO, "sync")
	}
	if err := tempFile.Close(); err != nil {
		return f.fileError(err, errors.CategoryFileIO, "close")
	}
	if err := os.Rename(tempName, f.path); err != nil {
		return f.fileError(err, errors.CategoryFileIO, "rename")
	}
	return nil
}

func (f *FileBackend) fileError(err error, category errors.ErrorCategory, op string) error {
	return errors.New(err).
		Component("bookmarks").
		Category(category).
		Context("path", f.path).
		Context("operation", op).
		Build()
}
