package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/whizkidefos/employee-management-api/internal/application/ports"
)

var _ ports.FileStore = (*LocalStore)(nil)

// LocalStore guarda en disco bajo root; la API sirve root en /uploads.
type LocalStore struct {
	root    string
	baseURL string
}

// NewLocalStore baseURL es la URL pública de la API (sin barra final).
func NewLocalStore(root, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("crear directorio de subidas: %w", err)
	}
	return &LocalStore{root: root, baseURL: strings.TrimRight(baseURL, "/")}, nil
}

// Root directorio servido como estático.
func (s *LocalStore) Root() string { return s.root }

func (s *LocalStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) (*ports.StoredObject, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", key, err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", key, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(path)
		return nil, fmt.Errorf("write %s: %w", key, err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close %s: %w", key, err)
	}
	return &ports.StoredObject{Key: key, URL: s.publicURL(key)}, nil
}

// Delete borrar una clave inexistente no es error.
func (s *LocalStore) Delete(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", key, err)
	}
	return nil
}

func (s *LocalStore) URL(_ context.Context, key string) (string, error) {
	if _, err := s.path(key); err != nil {
		return "", err
	}
	return s.publicURL(key), nil
}

func (s *LocalStore) publicURL(key string) string {
	return s.baseURL + "/uploads/" + key
}

// path rechaza claves que escapen de root.
func (s *LocalStore) path(key string) (string, error) {
	clean := filepath.Clean("/" + key)
	if clean == "/" || strings.Contains(key, "..") {
		return "", fmt.Errorf("clave de almacenamiento inválida: %q", key)
	}
	return filepath.Join(s.root, filepath.FromSlash(clean)), nil
}
