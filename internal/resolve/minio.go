package resolve

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// MinioConfig locates track objects in an S3-compatible bucket.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Region    string
	Bucket    string
	// Prefix and Ext surround the track ID to form the object key.
	Prefix string
	Ext    string
	// Expiry is the lifetime of presigned URLs.
	Expiry time.Duration
}

// Minio presigns GET URLs for track objects.
type Minio struct {
	client *minio.Client
	cfg    MinioConfig
}

// NewMinio creates a presigning resolver. No request is made until Resolve.
func NewMinio(cfg MinioConfig) (*Minio, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	if cfg.Ext == "" {
		cfg.Ext = ".mp3"
	}
	if cfg.Expiry <= 0 {
		cfg.Expiry = time.Hour
	}
	return &Minio{client: client, cfg: cfg}, nil
}

// Key returns the object key for a track ID.
func (m *Minio) Key(id string) string {
	return m.cfg.Prefix + id + m.cfg.Ext
}

func (m *Minio) Resolve(ctx context.Context, id string) (string, error) {
	key := m.Key(id)
	if _, err := m.client.StatObject(ctx, m.cfg.Bucket, key, minio.StatObjectOptions{}); err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.StatusCode == http.StatusNotFound {
			return "", ErrNoStream
		}
		return "", fmt.Errorf("stat %s: %w", key, err)
	}
	u, err := m.client.PresignedGetObject(ctx, m.cfg.Bucket, key, m.cfg.Expiry, nil)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return u.String(), nil
}
