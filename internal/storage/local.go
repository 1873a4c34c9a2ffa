package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"os"
	"path/filepath"
)

// Local keeps uploads in a single directory on disk.
type Local struct {
	root string
}

var _ Storage = (*Local)(nil)

// NewLocal returns a store rooted at dir, creating dir if it is missing.
func NewLocal(dir string) (*Local, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Local{root: dir}, nil
}

// Root is the directory served under /uploads/.
func (l *Local) Root() string {
	return l.root
}

func (l *Local) Path(name string) string {
	return filepath.Join(l.root, name)
}

func (l *Local) Exists(_ context.Context, name string) (bool, error) {
	if err := ValidateName(name); err != nil {
		return false, err
	}
	_, err := os.Stat(l.Path(name))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Create opens the target with O_EXCL so a concurrent writer of the same
// name loses with ErrExists instead of overwriting.
func (l *Local) Create(_ context.Context, name string, r io.Reader) (string, int64, error) {
	if err := ValidateName(name); err != nil {
		return "", 0, err
	}
	path := l.Path(name)
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", 0, ErrExists
		}
		return "", 0, err
	}

	n, err := io.Copy(f, r)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", 0, fmt.Errorf("write %s: %w", name, err)
	}
	return path, n, nil
}

func (l *Local) Remove(_ context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	err := os.Remove(l.Path(name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Rename links the new name first so an existing target is never replaced,
// then drops the old name.
func (l *Local) Rename(_ context.Context, oldName, newName string) (string, error) {
	if err := ValidateName(oldName); err != nil {
		return "", err
	}
	if err := ValidateName(newName); err != nil {
		return "", err
	}
	src, dst := l.Path(oldName), l.Path(newName)

	if err := os.Link(src, dst); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return "", ErrExists
		}
		if errors.Is(err, fs.ErrNotExist) {
			return "", err
		}
		// no hard link support on this filesystem
		if _, statErr := os.Stat(dst); statErr == nil {
			return "", ErrExists
		}
		if err := os.Rename(src, dst); err != nil {
			return "", err
		}
		return dst, nil
	}
	if err := os.Remove(src); err != nil {
		return "", err
	}
	return dst, nil
}

func (l *Local) Size(_ context.Context, name string) (int64, error) {
	st, err := os.Stat(l.Path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	return st.Size(), nil
}

func (l *Local) Open(_ context.Context, name string) (io.ReadCloser, ObjectInfo, error) {
	if err := ValidateName(name); err != nil {
		return nil, ObjectInfo{}, err
	}
	f, err := os.Open(l.Path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ObjectInfo{}, ErrNotFound
		}
		return nil, ObjectInfo{}, err
	}
	st, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, ObjectInfo{}, err
	}
	return f, ObjectInfo{
		Name:         name,
		Size:         st.Size(),
		ContentType:  mime.TypeByExtension(filepath.Ext(name)),
		LastModified: st.ModTime(),
	}, nil
}
