package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"makerhub/pkg/config"
)

// MaxFileSize is the hard cap enforced by the local adapter. The remote
// adapters delegate size limits to the backing service.
const MaxFileSize = 50 << 20 // 50MB

// SignedURLTTL is how long presigned download links stay valid.
const SignedURLTTL = 3600 // seconds

var (
	ErrFileTooLarge = errors.New("storage: file exceeds maximum size")
	ErrNotFound     = errors.New("storage: object not found")
)

// Object describes a stored file.
type Object struct {
	Key  string
	URL  string // Empty for the local backend, which is served through the API
	Hash string // SHA-256 of the content, computed at save time
	Size int64
}

// Storage is the capability shared by the local, S3 and MinIO backends.
// Exactly one backend is selected per deployment, they are never composed.
type Storage interface {
	// Save stores the content under a generated collision-resistant key
	// derived from the original file name's extension.
	Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (*Object, error)
	// Read returns the object bytes, or ErrNotFound.
	Read(ctx context.Context, key string) ([]byte, error)
	// URL returns a time-limited signed download link. The local backend
	// returns "" and callers stream the bytes through Read instead.
	URL(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error
}

// New selects the backend configured for this deployment.
func New(ctx context.Context, cfg *config.Config) (Storage, error) {
	switch cfg.StorageBackend {
	case "local":
		return NewLocalStorage(cfg.LocalStorageDir)
	case "s3":
		return NewS3Storage(cfg)
	case "minio":
		return NewMinioStorage(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}
}
