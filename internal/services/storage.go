package services

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"aeroportal/internal/models"
)

// Storage persists uploaded artifacts addressed by relative slash-separated
// paths (e.g. "files/1700000000_report.pdf").
type Storage interface {
	Save(ctx context.Context, path string, contents io.Reader) error
	Open(ctx context.Context, path string) (io.ReadCloser, error)
	Exists(ctx context.Context, path string) (bool, error)
	Delete(ctx context.Context, path string) error
	List(ctx context.Context, prefix string) ([]string, error)
}

// Ensure LocalStorage implements ArtifactURLResolver
var _ models.ArtifactURLResolver = (*LocalStorage)(nil)

// LocalStorage stores artifacts as plain files under a base directory which
// the server mounts read-only at /storage.
type LocalStorage struct {
	basePath  string
	publicURL string
}

func NewLocalStorage(basePath, publicURL string) (*LocalStorage, error) {
	if basePath == "" {
		return nil, fmt.Errorf("storage base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &LocalStorage{
		basePath:  basePath,
		publicURL: strings.TrimSuffix(publicURL, "/"),
	}, nil
}

func (l *LocalStorage) fullPath(p string) string {
	return filepath.Join(l.basePath, filepath.FromSlash(path.Clean("/"+p)))
}

func (l *LocalStorage) Save(ctx context.Context, p string, contents io.Reader) error {
	full := l.fullPath(p)
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	dst, err := os.Create(full)
	if err != nil {
		return err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, contents); err != nil {
		return err
	}
	return dst.Sync()
}

func (l *LocalStorage) Open(ctx context.Context, p string) (io.ReadCloser, error) {
	return os.Open(l.fullPath(p))
}

func (l *LocalStorage) Exists(ctx context.Context, p string) (bool, error) {
	_, err := os.Stat(l.fullPath(p))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Delete removes an artifact. Absence is not an error.
func (l *LocalStorage) Delete(ctx context.Context, p string) error {
	err := os.Remove(l.fullPath(p))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (l *LocalStorage) List(ctx context.Context, prefix string) ([]string, error) {
	root := l.fullPath(prefix)
	var paths []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(l.basePath, p)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	return paths, nil
}

// BasePath exposes the storage root for the static file mount.
func (l *LocalStorage) BasePath() string {
	return l.basePath
}

// ResolveURL implements ArtifactURLResolver via the static /storage mount.
func (l *LocalStorage) ResolveURL(ctx context.Context, p string) (string, error) {
	return fmt.Sprintf("%s/storage/%s", l.publicURL, strings.TrimPrefix(p, "/")), nil
}
