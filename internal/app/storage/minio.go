package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"reelscribe/internal/config"
)

// MinioStorage implements ObjectStorage over a MinIO (or any S3-compatible)
// endpoint.
type MinioStorage struct {
	client   *minio.Client
	endpoint string
	useSSL   bool
}

// NewMinioStorage connects to the configured endpoint and ensures the given
// buckets exist.
func NewMinioStorage(cfg config.StorageConfig, buckets ...string) (*MinioStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	s := &MinioStorage{
		client:   client,
		endpoint: cfg.Endpoint,
		useSSL:   cfg.UseSSL,
	}

	ctx := context.Background()
	for _, bucket := range buckets {
		exists, err := client.BucketExists(ctx, bucket)
		if err != nil {
			return nil, fmt.Errorf("failed to check bucket %s: %w", bucket, err)
		}
		if !exists {
			if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
				return nil, fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}
	}

	return s, nil
}

func (s *MinioStorage) Upload(ctx context.Context, bucket, objectPath string, data []byte, contentType string, public bool) (string, error) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, bucket, objectPath, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload object %s/%s: %w", bucket, objectPath, err)
	}

	if public {
		return s.publicURL(bucket, objectPath), nil
	}
	return FormatRef(bucket, objectPath), nil
}

func (s *MinioStorage) Download(ctx context.Context, bucket, objectPath string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, bucket, objectPath, minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("failed to get object %s/%s: %w", bucket, objectPath, err)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("failed to read object %s/%s: %w", bucket, objectPath, err)
	}
	return data, nil
}

func (s *MinioStorage) Delete(ctx context.Context, bucket, objectPath string) error {
	if err := s.client.RemoveObject(ctx, bucket, objectPath, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to delete object %s/%s: %w", bucket, objectPath, err)
	}
	return nil
}

func (s *MinioStorage) publicURL(bucket, objectPath string) string {
	protocol := "http"
	if s.useSSL {
		protocol = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", protocol, s.endpoint, bucket, objectPath)
}
