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

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/awserr"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// S3Storage stores objects in an S3 bucket and hands out presigned,
// expiring download links.
type S3Storage struct {
	s3Client *s3.S3
	bucket   string
}

func NewS3Storage(cfg *config.Config) (*S3Storage, error) {
	awsConfig := &aws.Config{
		Region: aws.String(cfg.AWSRegion),
		Credentials: credentials.NewStaticCredentials(
			cfg.AWSAccessKeyID,
			cfg.AWSSecretAccessKey,
			"",
		),
	}

	// Support S3-compatible endpoints for local development
	if cfg.AWSEndpoint != "" {
		awsConfig.Endpoint = aws.String(cfg.AWSEndpoint)
		awsConfig.S3ForcePathStyle = aws.Bool(true)
	}

	sess, err := session.NewSession(awsConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS session: %w", err)
	}

	return &S3Storage{
		s3Client: s3.New(sess),
		bucket:   cfg.S3BucketName,
	}, nil
}

func (s *S3Storage) Save(ctx context.Context, name string, r io.Reader, size int64, contentType string) (*Object, error) {
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

	_, err = s.s3Client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(buf.Bytes()),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file to S3: %w", err)
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

func (s *S3Storage) Read(ctx context.Context, key string) ([]byte, error) {
	out, err := s.s3Client.GetObjectWithContext(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if aerr, ok := err.(awserr.Error); ok && aerr.Code() == s3.ErrCodeNoSuchKey {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get object from S3: %w", err)
	}
	defer out.Body.Close()

	return io.ReadAll(out.Body)
}

// URL returns a presigned GET link valid for one hour.
func (s *S3Storage) URL(ctx context.Context, key string) (string, error) {
	req, _ := s.s3Client.GetObjectRequest(&s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})

	url, err := req.Presign(SignedURLTTL * time.Second)
	if err != nil {
		return "", fmt.Errorf("failed to presign URL: %w", err)
	}
	return url, nil
}

func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.s3Client.DeleteObjectWithContext(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete object from S3: %w", err)
	}
	return nil
}
