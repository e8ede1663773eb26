package vault

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/FelixBrandt/PressPass/internal/pkg/env"
)

// S3Backend serves articles from an S3-compatible bucket.
type S3Backend struct {
	client *s3.Client
	bucket string
}

// NewS3BackendFromEnv creates an S3 backend from environment configuration.
// Path-style addressing is forced when a custom endpoint is set, which keeps
// B2/MinIO-style deployments working.
func NewS3BackendFromEnv() (*S3Backend, error) {
	bucket := env.GetEnv("S3_BUCKET_NAME", "")
	if bucket == "" {
		return nil, fmt.Errorf("S3_BUCKET_NAME not configured")
	}

	awsConfig, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion(env.GetEnv("S3_REGION", "eu-central-1")),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			env.GetEnv("S3_ACCESS_KEY_ID", ""),
			env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	endpoint := env.GetEnv("S3_ENDPOINT_URL", "")
	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
			o.UseAccelerate = false
		}
	})

	return &S3Backend{client: client, bucket: bucket}, nil
}

func (b *S3Backend) Open(ctx context.Context, loc Locator) (io.ReadCloser, int64, error) {
	result, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(loc.Path),
	})
	if err != nil {
		return nil, 0, err
	}

	size := int64(0)
	if result.ContentLength != nil {
		size = *result.ContentLength
	}
	return result.Body, size, nil
}
