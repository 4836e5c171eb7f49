package media

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ObjectStore stores bytes under a key and returns their public URL.
type ObjectStore interface {
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
}

// PutObjectAPI is the subset of the S3 client the store uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Store uploads objects to a publicly readable bucket.
type S3Store struct {
	client PutObjectAPI
	bucket string
	region string
}

// NewS3Store builds an S3 client from static credentials.
func NewS3Store(ctx context.Context, bucket, region, accessKeyID, secretAccessKey string) (*S3Store, error) {
	if bucket == "" || accessKeyID == "" || secretAccessKey == "" {
		return nil, fmt.Errorf("%w: S3 bucket credentials are incomplete", ErrNotConfigured)
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKeyID, secretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return NewS3StoreWithClient(s3.NewFromConfig(cfg), bucket, region), nil
}

// NewS3StoreWithClient wraps an existing client.
func NewS3StoreWithClient(client PutObjectAPI, bucket, region string) *S3Store {
	return &S3Store{client: client, bucket: bucket, region: region}
}

func (s *S3Store) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s to s3: %w", key, err)
	}
	return PublicURL(s.bucket, s.region, key), nil
}

// PublicURL is the virtual-hosted-style URL of key. The bucket must allow public reads.
func PublicURL(bucket, region, key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, region, key)
}
