package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioStore implements Store using a MinIO (or any S3-compatible) backend.
// Switching providers only requires changing STORAGE_ENDPOINT and credentials.
type MinioStore struct {
	client    *minio.Client
	container string
}

// NewMinioStore creates a MinIO client, ensures the container exists
// (idempotent create-if-absent), and returns a ready-to-use MinioStore.
func NewMinioStore(endpoint, accessKey, secretKey, container string, useSSL bool) (*MinioStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx := context.Background()

	exists, err := client.BucketExists(ctx, container)
	if err != nil {
		return nil, fmt.Errorf("check container existence: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, container, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create container %q: %w", container, err)
		}
		log.Printf("storage: created container %q", container)
	}

	return &MinioStore{client: client, container: container}, nil
}

// Put streams reader to the container under key. The existence check and the
// write are two round trips: concurrent puts to the same key race at the
// backend's own consistency boundary, which is the contract here.
func (s *MinioStore) Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string, meta Metadata) error {
	_, err := s.client.StatObject(ctx, s.container, key, minio.StatObjectOptions{})
	if err == nil {
		return ErrAlreadyExists
	}
	if !isNoSuchKey(err) {
		return fmt.Errorf("stat object %q: %w", key, err)
	}

	_, err = s.client.PutObject(ctx, s.container, key, reader, size, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: meta,
	})
	if err != nil {
		return fmt.Errorf("put object %q: %w", key, err)
	}
	return nil
}

// Get returns the object content stream plus its info. Existence is verified
// up front because GetObject defers backend errors until the first read.
func (s *MinioStore) Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error) {
	info, err := s.Stat(ctx, key)
	if err != nil {
		return nil, ObjectInfo{}, err
	}

	obj, err := s.client.GetObject(ctx, s.container, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, ObjectInfo{}, fmt.Errorf("get object %q: %w", key, err)
	}
	return obj, info, nil
}

// Stat returns object info, mapping a missing key to ErrNotFound.
func (s *MinioStore) Stat(ctx context.Context, key string) (ObjectInfo, error) {
	stat, err := s.client.StatObject(ctx, s.container, key, minio.StatObjectOptions{})
	if isNoSuchKey(err) {
		return ObjectInfo{}, ErrNotFound
	}
	if err != nil {
		return ObjectInfo{}, fmt.Errorf("stat object %q: %w", key, err)
	}
	return objectInfo(stat), nil
}

// List enumerates every object in the container.
func (s *MinioStore) List(ctx context.Context) ([]ObjectInfo, error) {
	var infos []ObjectInfo
	for obj := range s.client.ListObjects(ctx, s.container, minio.ListObjectsOptions{}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("list objects: %w", obj.Err)
		}
		infos = append(infos, objectInfo(obj))
	}
	return infos, nil
}

// Delete removes the object at key. The backend treats deleting a missing key
// as a no-op, so existence is checked first to surface ErrNotFound.
func (s *MinioStore) Delete(ctx context.Context, key string) error {
	if _, err := s.Stat(ctx, key); err != nil {
		return err
	}
	if err := s.client.RemoveObject(ctx, s.container, key, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("remove object %q: %w", key, err)
	}
	return nil
}

// PresignedURL mints a read-only signed URL valid for expiry.
func (s *MinioStore) PresignedURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.container, key, expiry, nil)
	if err != nil {
		return "", fmt.Errorf("presign object %q: %w", key, err)
	}
	return u.String(), nil
}

// ContainerURL returns the addressable base URL of the container,
// e.g. "http://localhost:9000/files".
func (s *MinioStore) ContainerURL() string {
	return strings.TrimRight(s.client.EndpointURL().String(), "/") + "/" + s.container
}

func objectInfo(obj minio.ObjectInfo) ObjectInfo {
	return ObjectInfo{
		Key:         obj.Key,
		ContentType: obj.ContentType,
		Size:        obj.Size,
		Metadata:    Metadata(obj.UserMetadata),
	}
}

// isNoSuchKey reports whether err is the backend's "object missing" condition.
func isNoSuchKey(err error) bool {
	var resp minio.ErrorResponse
	if !errors.As(err, &resp) {
		return false
	}
	return resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound
}
