package storage

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"
)

// LocalStorage keeps files on the local filesystem under a single directory.
type LocalStorage struct {
	dir string
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &LocalStorage{dir: dir}, nil
}

// Save enforces the 50MB cap and writes through a temp file so a failed or
// oversized upload never leaves a partial object behind. The key is
// timestamp + 16 random bytes + the original extension.
func (s *LocalStorage) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (*Object, error) {
	if size > MaxFileSize {
		return nil, ErrFileTooLarge
	}

	key, err := generateKey(name)
	if err != nil {
		return nil, err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	hasher := sha256.New()
	// Copy one byte past the cap so a lying Content-Length still gets caught.
	written, err := io.Copy(io.MultiWriter(tmp, hasher), io.LimitReader(r, MaxFileSize+1))
	if cerr := tmp.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmpName)
		return nil, fmt.Errorf("failed to write file: %w", err)
	}
	if written > MaxFileSize {
		os.Remove(tmpName)
		return nil, ErrFileTooLarge
	}

	dest := filepath.Join(s.dir, key)
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return nil, fmt.Errorf("failed to move file into place: %w", err)
	}

	return &Object{
		Key:  key,
		Hash: hex.EncodeToString(hasher.Sum(nil)),
		Size: written,
	}, nil
}

func (s *LocalStorage) Read(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, filepath.Base(key)))
	if os.IsNotExist(err) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return data, nil
}

// URL returns "", local objects are streamed through the download handler.
func (s *LocalStorage) URL(ctx context.Context, key string) (string, error) {
	return "", nil
}

func (s *LocalStorage) Delete(ctx context.Context, key string) error {
	err := os.Remove(filepath.Join(s.dir, filepath.Base(key)))
	if os.IsNotExist(err) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

func generateKey(name string) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	return fmt.Sprintf("%d%s%s", time.Now().UnixNano(), hex.EncodeToString(buf), filepath.Ext(name)), nil
}
