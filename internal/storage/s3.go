// server/internal/storage/s3.go
package storage

import (
	"context"
	"fmt"
	"io"

	"devcamper-api-server/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store uploads photos to an S3 bucket, optionally fronted by CloudFront.
type S3Store struct {
	client           *s3.Client
	bucket           string
	region           string
	cloudFrontDomain string
}

func NewS3Store(cfg config.S3Config) (*S3Store, error) {
	sdkConfig, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &S3Store{
		client:           s3.NewFromConfig(sdkConfig),
		bucket:           cfg.Bucket,
		region:           cfg.Region,
		cloudFrontDomain: cfg.CloudFrontDomain,
	}, nil
}

func (s *S3Store) Save(ctx context.Context, filename string, content io.Reader, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(filename),
		Body:        content,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file to S3: %w", err)
	}

	if s.cloudFrontDomain != "" {
		return fmt.Sprintf("https://%s/%s", s.cloudFrontDomain, filename), nil
	}

	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, filename), nil
}
