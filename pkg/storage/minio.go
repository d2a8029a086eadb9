package storage

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"makerhub/pkg/config"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStorage is the self-hosted alternative to S3. It follows the same
// signed-URL policy, there are no permanent public links.
type MinioStorage struct {
	client *minio.Client
	bucket string
}

func NewMinioStorage(ctx context.Context, cfg *config.Config) (*MinioStorage, error) {
	client, err := minio.New(cfg.MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinioAccessKey, cfg.MinioSecretKey, ""),
		Secure: cfg.MinioUseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	// Ensure bucket exists
	exists, err := client.BucketExists(ctx, cfg.MinioBucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check minio bucket: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.MinioBucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create minio bucket: %w", err)
		}
	}

	return &MinioStorage{client: client, bucket: cfg.MinioBucket}, nil
}

func (s *MinioStorage) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (*Object, error) {
	key, err := generateKey(name)
	if err != nil {
		return nil, err
	}

	buf := bytes.NewBuffer(nil)
	hasher := sha256.New()
	written, err := io.Copy(io.MultiWriter(buf, hasher), r)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(buf.Bytes()), written, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file to minio: %w", err)
	}

	url, err := s.URL(ctx, key)
	if err != nil {
		return nil, err
	}

	return &Object{
		Key:  key,
		URL:  url,
		Hash: hex.EncodeToString(hasher.Sum(nil)),
		Size: written,
	}, nil
}

func (s *MinioStorage) Read(ctx context.Context, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object from minio: %w", err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		if resp := minio.ToErrorResponse(err); resp.Code == "NoSuchKey" {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read object from minio: %w", err)
	}
	return data, nil
}

func (s *MinioStorage) URL(ctx context.Context, key string) (string, error) {
	url, err := s.client.PresignedGetObject(ctx, s.bucket, key, SignedURLTTL*time.Second, nil)
	if err != nil {
		return "", fmt.Errorf("failed to presign URL: %w", err)
	}
	return url.String(), nil
}

func (s *MinioStorage) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object from minio: %w", err)
	}
	return nil
}
