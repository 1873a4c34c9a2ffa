package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"photogallery/internal/config"
)

// minioStorage keeps uploads as objects in one S3-compatible bucket.
// Existence checks and writes are separate calls, so Create and Rename are
// check-then-act here, unlike Local.
type minioStorage struct {
	client *minio.Client
	bucket string
}

// NewMinIO creates a new S3-compatible storage client backed by MinIO.
// It validates connectivity and ensures the bucket exists (creates it if missing).
func NewMinIO(cfg config.MinIOConfig) (Storage, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}

	cli, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &minioStorage{client: cli, bucket: cfg.Bucket}, nil
}

func (m *minioStorage) Path(name string) string {
	return m.bucket + "/" + name
}

func (m *minioStorage) Exists(ctx context.Context, name string) (bool, error) {
	if err := ValidateName(name); err != nil {
		return false, err
	}
	_, err := m.client.StatObject(ctx, m.bucket, name, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if isNoSuchKey(err) {
		return false, nil
	}
	return false, err
}

func (m *minioStorage) Create(ctx context.Context, name string, r io.Reader) (string, int64, error) {
	exists, err := m.Exists(ctx, name)
	if err != nil {
		return "", 0, err
	}
	if exists {
		return "", 0, ErrExists
	}
	info, err := m.client.PutObject(ctx, m.bucket, name, r, -1, minio.PutObjectOptions{})
	if err != nil {
		return "", 0, fmt.Errorf("put object: %w", err)
	}
	return m.Path(name), info.Size, nil
}

func (m *minioStorage) Remove(ctx context.Context, name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	return m.client.RemoveObject(ctx, m.bucket, name, minio.RemoveObjectOptions{})
}

// Rename is a server-side copy followed by removal of the source.
func (m *minioStorage) Rename(ctx context.Context, oldName, newName string) (string, error) {
	if err := ValidateName(oldName); err != nil {
		return "", err
	}
	exists, err := m.Exists(ctx, newName)
	if err != nil {
		return "", err
	}
	if exists {
		return "", ErrExists
	}
	_, err = m.client.CopyObject(ctx,
		minio.CopyDestOptions{Bucket: m.bucket, Object: newName},
		minio.CopySrcOptions{Bucket: m.bucket, Object: oldName},
	)
	if err != nil {
		return "", fmt.Errorf("copy object: %w", err)
	}
	if err := m.client.RemoveObject(ctx, m.bucket, oldName, minio.RemoveObjectOptions{}); err != nil {
		return "", fmt.Errorf("remove old object: %w", err)
	}
	return m.Path(newName), nil
}

func (m *minioStorage) Size(ctx context.Context, name string) (int64, error) {
	st, err := m.client.StatObject(ctx, m.bucket, name, minio.StatObjectOptions{})
	if err != nil {
		if isNoSuchKey(err) {
			return 0, nil
		}
		return 0, err
	}
	return st.Size, nil
}

func (m *minioStorage) Open(ctx context.Context, name string) (io.ReadCloser, ObjectInfo, error) {
	if err := ValidateName(name); err != nil {
		return nil, ObjectInfo{}, err
	}
	obj, err := m.client.GetObject(ctx, m.bucket, name, minio.GetObjectOptions{})
	if err != nil {
		return nil, ObjectInfo{}, err
	}
	st, err := obj.Stat()
	if err != nil {
		obj.Close()
		if isNoSuchKey(err) {
			return nil, ObjectInfo{}, ErrNotFound
		}
		return nil, ObjectInfo{}, err
	}
	return obj, ObjectInfo{
		Name:         name,
		Size:         st.Size,
		ContentType:  st.ContentType,
		LastModified: st.LastModified,
	}, nil
}

func isNoSuchKey(err error) bool {
	return minio.ToErrorResponse(err).Code == "NoSuchKey"
}
