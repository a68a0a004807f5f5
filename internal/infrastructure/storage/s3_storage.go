// Package storage puts customer photos, logos and print proofs in an
// S3-compatible bucket.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/taponce/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// ErrEmptyKey is returned for every operation given an empty object key
var ErrEmptyKey = errors.New("storage key is required")

// S3ObjectStorage talks to AWS S3 or any compatible service (MinIO, R2)
type S3ObjectStorage struct {
	client            *s3.Client
	presignClient     *s3.PresignClient
	bucket            string
	publicBase        string
	presignExpiration time.Duration
	logger            *zap.Logger
}

// S3ObjectStorageOption is a functional option for configuring S3ObjectStorage
type S3ObjectStorageOption func(*S3ObjectStorage)

// WithLogger sets a custom logger for S3ObjectStorage
func WithLogger(logger *zap.Logger) S3ObjectStorageOption {
	return func(s *S3ObjectStorage) {
		s.logger = logger
	}
}

// WithPresignExpiration overrides the configured presign expiry
func WithPresignExpiration(d time.Duration) S3ObjectStorageOption {
	return func(s *S3ObjectStorage) {
		s.presignExpiration = d
	}
}

// NewS3ObjectStorage builds the client from configuration with static credentials
func NewS3ObjectStorage(ctx context.Context, cfg *config.StorageConfig, opts ...S3ObjectStorageOption) (*S3ObjectStorage, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKeyID == "" || cfg.SecretAccessKey == "" {
		return nil, errors.New("storage credentials are required")
	}

	endpoint := cfg.Endpoint
	if endpoint != "" && !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		endpoint = "https://" + endpoint
	}
	if endpoint != "" {
		if _, err := url.Parse(endpoint); err != nil {
			return nil, fmt.Errorf("invalid storage endpoint: %w", err)
		}
	}

	region := cfg.Region
	if region == "" {
		region = "ap-south-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, "",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	publicBase := fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.Bucket, region)
	if endpoint != "" {
		publicBase = strings.TrimRight(endpoint, "/") + "/" + cfg.Bucket
	}

	s := &S3ObjectStorage{
		client:            client,
		presignClient:     s3.NewPresignClient(client),
		bucket:            cfg.Bucket,
		publicBase:        publicBase,
		presignExpiration: cfg.PresignExpiry,
		logger:            zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.presignExpiration <= 0 {
		s.presignExpiration = 15 * time.Minute
	}
	return s, nil
}

// EnsureBucket creates the bucket when it does not exist yet
func (s *S3ObjectStorage) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating storage bucket", zap.String("bucket", s.bucket))
	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// PresignUpload returns a PUT URL the browser uploads to directly
func (s *S3ObjectStorage) PresignUpload(ctx context.Context, key, contentType string) (PresignedURL, error) {
	if key == "" {
		return PresignedURL{}, ErrEmptyKey
	}
	req, err := s.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.presignExpiration))
	if err != nil {
		return PresignedURL{}, fmt.Errorf("failed to presign upload: %w", err)
	}
	return PresignedURL{
		URL:       req.URL,
		Method:    req.Method,
		Key:       key,
		PublicURL: s.PublicURL(key),
		ExpiresAt: time.Now().Add(s.presignExpiration),
	}, nil
}

// PresignDownload returns a time-limited GET URL
func (s *S3ObjectStorage) PresignDownload(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	req, err := s.presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.presignExpiration))
	if err != nil {
		return "", fmt.Errorf("failed to presign download: %w", err)
	}
	return req.URL, nil
}

// Put uploads bytes from the server side (print proofs)
func (s *S3ObjectStorage) Put(ctx context.Context, key string, data []byte, contentType string) error {
	if key == "" {
		return ErrEmptyKey
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload object: %w", err)
	}
	s.logger.Debug("object uploaded", zap.String("key", key), zap.Int("bytes", len(data)))
	return nil
}

// Delete removes an object
func (s *S3ObjectStorage) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

// Exists reports whether key is present
func (s *S3ObjectStorage) Exists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	_, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *types.NotFound
		var noSuchKey *types.NoSuchKey
		if errors.As(err, &notFound) || errors.As(err, &noSuchKey) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object existence: %w", err)
	}
	return true, nil
}

// PublicURL is the unsigned object URL stored on customer profiles
func (s *S3ObjectStorage) PublicURL(key string) string {
	return s.publicBase + "/" + key
}

// Bucket returns the bucket name
func (s *S3ObjectStorage) Bucket() string {
	return s.bucket
}

var _ ObjectStorage = (*S3ObjectStorage)(nil)
