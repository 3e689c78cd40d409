package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"fender-store/internal/service"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

type MinioStore struct {
	client *minio.Client
	bucket string
	log    *zap.Logger
}

// NewMinioStore подключается к MinIO и создаёт bucket при его отсутствии.
func NewMinioStore(endpoint, accessKey, secretKey, bucket string, useSSL bool, log *zap.Logger) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", bucket, err)
		}
		log.Info("MinIO bucket created", zap.String("bucket", bucket))
	}

	log.Info("MinIO connected successfully", zap.String("endpoint", endpoint), zap.String("bucket", bucket))
	return &MinioStore{client: client, bucket: bucket, log: log}, nil
}

// Upload returns "<bucket>/<object>", the reference stored in image fields.
func (s *MinioStore) Upload(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error) {
	info, err := s.client.PutObject(ctx, s.bucket, objectName, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", err
	}
	return s.bucket + "/" + info.Key, nil
}

var _ service.MediaStore = (*MinioStore)(nil)
