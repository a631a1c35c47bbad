package ports

import (
	"context"
	"io"
)

// StoredObject resultado de guardar un archivo.
type StoredObject struct {
	Key string
	URL string
}

// FileStore almacenamiento de archivos (MinIO/S3 o disco local).
type FileStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (*StoredObject, error)
	Delete(ctx context.Context, key string) error
	// URL devuelve una URL de descarga (firmada y temporal cuando el backend lo permite).
	URL(ctx context.Context, key string) (string, error)
}
