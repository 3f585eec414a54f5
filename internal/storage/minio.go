package storage

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// BlobStore is the durable object-store boundary the pipeline depends on.
// Delete is used only as a compensating action after a failed submit.
type BlobStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) error
	SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type Storage struct {
	client *minio.Client
	bucket string
	log    *slog.Logger
}

// NewStorage connects to the object store and ensures the bucket exists.
func NewStorage(ctx context.Context, cfg *Config, log *slog.Logger) (*Storage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	s := &Storage{client: client, bucket: cfg.Bucket, log: log}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, err
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, err
		}
		log.Info("created blob bucket", "bucket", cfg.Bucket)
	}

	return s, nil
}

func (s *Storage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		s.log.Error("blob put failed", "key", key, "err", err)
		return err
	}
	s.log.Info("blob stored", "key", key, "bytes", len(data))
	return nil
}

func (s *Storage) SignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	u, err := s.client.PresignedGetObject(ctx, s.bucket, key, ttl, url.Values{})
	if err != nil {
		s.log.Error("blob presign failed", "key", key, "err", err)
		return "", err
	}
	return u.String(), nil
}

func (s *Storage) Delete(ctx context.Context, key string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		s.log.Error("blob delete failed", "key", key, "err", err)
		return err
	}
	s.log.Info("blob deleted", "key", key)
	return nil
}

// ObjectKey builds the owner-and-timestamp scoped key for an upload.
func ObjectKey(ownerID uuid.UUID, filename string, now time.Time) string {
	return fmt.Sprintf("receipts/%s/%d_%s", ownerID, now.UnixNano(), sanitizeFilename(filename))
}

func sanitizeFilename(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "upload"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
}
