package storage

import (
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/zatekoja/strokescreening/internal/domain/entities"
	"github.com/zatekoja/strokescreening/pkg/errors"
)

// MinioStore stages media in an S3-compatible object store
type MinioStore struct {
	client *minio.Client
	bucket string
}

// MinioConfig configures the object store connection
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// NewMinioStore creates an object-store-backed media store, creating the
// bucket when it does not exist yet.
func NewMinioStore(ctx context.Context, cfg MinioConfig) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.NewInternalError("failed to create object store client", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, errors.NewInternalError("failed to check media bucket", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.NewInternalError("failed to create media bucket", err)
		}
	}

	return &MinioStore{client: client, bucket: cfg.Bucket}, nil
}

// Save uploads the media file
func (s *MinioStore) Save(ctx context.Context, key string, kind entities.MediaKind, contentType string, r io.Reader, size int64) (*entities.MediaRef, error) {
	info, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
		UserMetadata: map[string]string{
			"media-kind": string(kind),
		},
	})
	if err != nil {
		return nil, errors.NewInternalError("failed to upload media", err)
	}

	return &entities.MediaRef{
		Key:         key,
		Kind:        kind,
		ContentType: contentType,
		Size:        info.Size,
	}, nil
}

// Open returns a reader over a staged object
func (s *MinioStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.NewInternalError("failed to open media object", err)
	}
	// GetObject is lazy; surface missing objects here.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, errors.NewNotFoundError("staged media not found: " + key)
		}
		return nil, errors.NewInternalError("failed to stat media object", err)
	}
	return obj, nil
}

// Stat returns the reference for a staged object
func (s *MinioStore) Stat(ctx context.Context, key string) (*entities.MediaRef, error) {
	info, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil, errors.NewNotFoundError("staged media not found: " + key)
		}
		return nil, errors.NewInternalError("failed to stat media object", err)
	}

	kind := entities.MediaKind(info.UserMetadata["Media-Kind"])
	if kind == "" {
		kind = kindFromKey(key)
	}
	return &entities.MediaRef{
		Key:         key,
		Kind:        kind,
		ContentType: info.ContentType,
		Size:        info.Size,
		StagedAt:    info.LastModified,
	}, nil
}

// Delete removes a staged object
func (s *MinioStore) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return errors.NewInternalError("failed to delete media object", err)
	}
	return nil
}
