package s3

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/nexusdev/nexushomes-backend/internal/platform/logger"
)

// Storage uploads listing images to a MinIO bucket and returns their
// public URLs.
type Storage struct {
	client *minio.Client
	bucket string
	logger logger.Logger
}

// NewStorage creates the MinIO client and makes sure the bucket exists.
func NewStorage(endpoint, accessKey, secretKey, bucketName string, useSSL bool, log logger.Logger) (*Storage, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for endpoint %s: %w", endpoint, err)
	}

	if err := client.MakeBucket(context.Background(), bucketName, minio.MakeBucketOptions{}); err != nil {
		exists, errBucketExists := client.BucketExists(context.Background(), bucketName)
		if errBucketExists != nil || !exists {
			return nil, fmt.Errorf("failed to make/verify bucket %s: (make: %v / exists_check: %v)", bucketName, err, errBucketExists)
		}
		log.Infof("S3 storage: bucket %s already exists", bucketName)
	}

	return &Storage{client: client, bucket: bucketName, logger: log}, nil
}

// Upload stores the bytes under a unique key derived from the original
// file's extension and returns the object's public URL.
func (s *Storage) Upload(ctx context.Context, fileName string, data []byte) (string, error) {
	ext := filepath.Ext(fileName)
	objectKey := fmt.Sprintf("houses/%s%s", uuid.New().String(), ext)

	info, err := s.client.PutObject(ctx, s.bucket, objectKey, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{})
	if err != nil {
		s.logger.Errorf("S3 storage: failed to upload %s: %v", objectKey, err)
		return "", fmt.Errorf("failed to upload object %s to bucket %s: %w", objectKey, s.bucket, err)
	}

	fileURL := fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, info.Key)
	s.logger.Debugf("S3 storage: uploaded %s (%d bytes)", fileURL, info.Size)
	return fileURL, nil
}
