package config

import (
	"context"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds the S3 client and bucket used for recipe images. Supabase
// Storage exposes an S3 compatible endpoint, so the same client serves both.
type S3Config struct {
	Client     *s3.Client
	BucketName string
	URLTTL     time.Duration
}

// NewS3Config initializes the S3 client. It returns nil when no bucket is configured.
func NewS3Config(ctx context.Context, cfg *Config) (*S3Config, error) {
	if cfg.StorageBucket == "" {
		return nil, nil
	}

	// Credentials come from the standard AWS environment or shared config
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.StorageRegion),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.StorageEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.StorageEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Config{
		Client:     client,
		BucketName: cfg.StorageBucket,
		URLTTL:     cfg.StorageURLTTL,
	}, nil
}

// PresignURL generates a presigned GET URL for the given object key
func (s *S3Config) PresignURL(ctx context.Context, objectKey string) (string, error) {
	presignClient := s3.NewPresignClient(s.Client)
	presigned, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.BucketName),
		Key:    aws.String(objectKey),
	}, s3.WithPresignExpires(s.URLTTL))
	if err != nil {
		return "", err
	}
	return presigned.URL, nil
}
