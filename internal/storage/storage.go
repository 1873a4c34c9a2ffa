package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"photogallery/internal/config"
)

var (
	// ErrExists is returned when a write or rename would replace an existing file.
	ErrExists = errors.New("file already exists")
	// ErrInvalidName is returned for names that are not a single path element.
	ErrInvalidName = errors.New("invalid file name")
	// ErrNotFound is returned by Open when nothing is stored under the name.
	ErrNotFound = errors.New("file not found")
)

// ObjectInfo contains basic information about a stored file.
type ObjectInfo struct {
	Name         string
	Size         int64
	ContentType  string
	LastModified time.Time
}

// Storage is a flat namespace of uploaded originals keyed by leaf name.
// No subdirectories, no deduplication, no size limits.
type Storage interface {
	// Path returns the location recorded for name (the row's filepath).
	Path(name string) string
	// Exists reports whether a file called name is stored.
	Exists(ctx context.Context, name string) (bool, error)
	// Create writes r under name and fails with ErrExists if name is taken.
	Create(ctx context.Context, name string, r io.Reader) (path string, size int64, err error)
	// Remove deletes name. A missing file is not an error.
	Remove(ctx context.Context, name string) error
	// Rename moves oldName to newName and fails with ErrExists if newName is taken.
	Rename(ctx context.Context, oldName, newName string) (path string, err error)
	// Size returns the current size of name, or 0 if it does not exist.
	Size(ctx context.Context, name string) (int64, error)
	// Open streams the content of name, or fails with ErrNotFound.
	Open(ctx context.Context, name string) (io.ReadCloser, ObjectInfo, error)
}

// ValidateName accepts only a single, non-special path element.
func ValidateName(name string) error {
	if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) || strings.ContainsRune(name, 0) {
		return ErrInvalidName
	}
	return nil
}

// New returns the backend selected by cfg.Backend.
func New(cfg config.StorageConfig, minioCfg config.MinIOConfig) (Storage, error) {
	switch cfg.Backend {
	case "", "local":
		return NewLocal(cfg.UploadDir)
	case "minio":
		return NewMinIO(minioCfg)
	default:
		return nil, fmt.Errorf("unknown file store %q", cfg.Backend)
	}
}
