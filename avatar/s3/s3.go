package s3

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aquanorma/credentials/avatar"
	"github.com/aquanorma/credentials/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

var _ avatar.Store = (*Store)(nil)

// PutObjectAPI is the part of *s3.Client the store uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Store uploads avatars to an S3 compatible bucket.
type Store struct {
	client PutObjectAPI
	cfg    config.S3
}

// New builds an S3 client from cfg. Static credentials are used when an
// access key is configured, otherwise the default AWS credential chain.
func New(ctx context.Context, cfg config.S3) (*Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3: bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("s3: failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	return NewWithClient(client, cfg), nil
}

func NewWithClient(client PutObjectAPI, cfg config.S3) *Store {
	return &Store{client: client, cfg: cfg}
}

func (s *Store) Upload(ctx context.Context, path string, contentType string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("s3: failed to open upload: %w", err)
	}
	defer f.Close()

	key := s.objectKey(contentType)
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
		Body:   f,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("s3: failed to put object %s: %w", key, err)
	}
	return s.objectURL(key), nil
}

var extensions = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
	"image/avif": ".avif",
}

func (s *Store) objectKey(contentType string) string {
	name := uuid.NewString() + extensions[contentType]
	folder := strings.Trim(s.cfg.Folder, "/")
	if folder == "" {
		return name
	}
	return folder + "/" + name
}

// objectURL returns the public URL of key. PublicBaseURL wins, then a path
// style URL on the custom endpoint, then the virtual hosted AWS URL.
func (s *Store) objectURL(key string) string {
	switch {
	case s.cfg.PublicBaseURL != "":
		return strings.TrimRight(s.cfg.PublicBaseURL, "/") + "/" + key
	case s.cfg.BaseEndpoint != "":
		return strings.TrimRight(s.cfg.BaseEndpoint, "/") + "/" + s.cfg.Bucket + "/" + key
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.cfg.Bucket, s.cfg.Region, key)
	}
}
