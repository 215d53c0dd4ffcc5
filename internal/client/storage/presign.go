package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

const (
	s3Path = "/storage/v1/s3"

	DefaultPresignExpiry = 15 * time.Minute
)

var loadAWSConfig = config.LoadDefaultConfig

type PresignerOptions struct {
	// BaseURL is the backend URL; the S3 endpoint lives under it.
	BaseURL   string
	Region    string
	AccessKey string
	SecretKey string
	// Expires bounds URL validity. Zero means DefaultPresignExpiry.
	Expires time.Duration
}

// Presigner signs object URLs against the S3-compatible storage endpoint
// using path-style addressing.
type Presigner struct {
	client  *s3.PresignClient
	expires time.Duration
}

func NewPresigner(ctx context.Context, opts PresignerOptions) (*Presigner, error) {
	if opts.AccessKey == "" || opts.SecretKey == "" {
		return nil, fmt.Errorf("storage: presigner needs an access key and a secret key")
	}
	if opts.Expires <= 0 {
		opts.Expires = DefaultPresignExpiry
	}

	cfg, err := loadAWSConfig(ctx,
		config.WithRegion(opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("storage: load s3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(S3Endpoint(opts.BaseURL))
		o.UsePathStyle = true
	})
	return &Presigner{client: s3.NewPresignClient(client), expires: opts.Expires}, nil
}

// S3Endpoint derives the S3-compatible endpoint from the backend URL.
func S3Endpoint(baseURL string) string {
	return strings.TrimRight(baseURL, "/") + s3Path
}

// PresignPut returns a URL that accepts one PUT of the object.
func (p *Presigner) PresignPut(ctx context.Context, bucket, key string) (string, error) {
	req, err := p.client.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(p.expires))
	if err != nil {
		return "", fmt.Errorf("storage: presign put %s/%s: %w", bucket, key, err)
	}
	return req.URL, nil
}

// PresignGet returns a URL that serves the object without other credentials.
func (p *Presigner) PresignGet(ctx context.Context, bucket, key string) (string, error) {
	req, err := p.client.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(p.expires))
	if err != nil {
		return "", fmt.Errorf("storage: presign get %s/%s: %w", bucket, key, err)
	}
	return req.URL, nil
}
