package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Uploader stores a blob under a key and returns a retrievable URL
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// Config holds the S3-compatible endpoint settings (AWS S3, Cloudflare R2,
// MinIO). PublicBaseURL is the host serving uploaded objects to clients.
type Config struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	Region        string
	PublicBaseURL string
}

// ObjectStore uploads bill documents to S3-compatible object storage
type ObjectStore struct {
	client *s3.Client
	bucket string
	public string
}

// NewObjectStore builds the S3 client against a custom endpoint
func NewObjectStore(ctx context.Context, cfg Config) (*ObjectStore, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)),
		awsconfig.WithRegion(cfg.Region),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to configure object storage client: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
	})

	public := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if public == "" {
		public = strings.TrimSuffix(cfg.Endpoint, "/") + "/" + cfg.Bucket
	}

	return &ObjectStore{client: client, bucket: cfg.Bucket, public: public}, nil
}

func (o *ObjectStore) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := o.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(o.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return o.public + "/" + key, nil
}
