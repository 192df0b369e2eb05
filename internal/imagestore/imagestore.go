package imagestore

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"path"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store is the image collaborator contract: upload bytes under a folder and
// get back a public URL, or delete a previously uploaded URL.
type Store interface {
	Upload(ctx context.Context, folder string, data []byte) (string, error)
	Delete(ctx context.Context, folder string, imageURL string) error
}

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

type minioStore struct {
	client *minio.Client
	cfg    Config
}

func New(cfg Config) (Store, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, err
	}

	return &minioStore{
		client: client,
		cfg:    cfg,
	}, nil
}

func (s *minioStore) Upload(ctx context.Context, folder string, data []byte) (string, error) {
	objectName := folder + "/" + uuid.NewString() + ".webp"
	_, err := s.client.PutObject(ctx, s.cfg.Bucket, objectName, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "image/webp",
	})
	if err != nil {
		return "", err
	}

	scheme := "http"
	if s.cfg.UseSSL {
		scheme = "https"
	}

	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.cfg.Endpoint, s.cfg.Bucket, objectName), nil
}

func (s *minioStore) Delete(ctx context.Context, folder string, imageURL string) error {
	parsed, err := url.Parse(imageURL)
	if err != nil {
		return err
	}

	objectName := folder + "/" + path.Base(parsed.Path)
	return s.client.RemoveObject(ctx, s.cfg.Bucket, objectName, minio.RemoveObjectOptions{})
}
