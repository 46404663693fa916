package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/google/uuid"
	minioSDK "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"
)

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// AvatarStore keeps user profile images in an S3 compatible bucket.
type AvatarStore struct {
	client *minioSDK.Client
	bucket string
}

// NewAvatarStore connects and creates the bucket when it is missing.
func NewAvatarStore(ctx context.Context, cfg Config, log *zap.SugaredLogger) (*AvatarStore, error) {
	client, err := minioSDK.New(cfg.Endpoint, &minioSDK.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to object storage: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minioSDK.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket %s: %w", cfg.Bucket, err)
		}
		log.Infow("bucket created", "bucket", cfg.Bucket)
	}

	return &AvatarStore{client: client, bucket: cfg.Bucket}, nil
}

func (s *AvatarStore) PutAvatar(ctx context.Context, userID uint, filename string, r io.Reader, size int64, contentType string) (string, error) {
	name := objectName(userID, filename)
	_, err := s.client.PutObject(ctx, s.bucket, name, r, size, minioSDK.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", err
	}
	return objectURL(s.client.EndpointURL(), s.bucket, name), nil
}

func objectName(userID uint, filename string) string {
	ext := strings.ToLower(path.Ext(path.Base(filename)))
	return fmt.Sprintf("avatars/%d/%s%s", userID, uuid.NewString(), ext)
}

func objectURL(endpoint *url.URL, bucket, name string) string {
	u := *endpoint
	u.Path = path.Join("/", bucket, name)
	return u.String()
}
