package blob

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/config"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// S3Store uploads complaint photos to a public-read S3 bucket.
type S3Store struct {
	client *s3.S3
	bucket string
	region string
	logger *zap.Logger
}

// NewS3Store builds the store from AWS configuration.
func NewS3Store(cfg config.AWSConfig, logger *zap.Logger) *S3Store {
	sess := session.Must(session.NewSession(&aws.Config{
		Region: aws.String(cfg.Region),
		Credentials: credentials.NewStaticCredentials(
			cfg.AccessKeyID, cfg.SecretAccessKey, "",
		),
	}))
	return &S3Store{
		client: s3.New(sess),
		bucket: cfg.S3Bucket,
		region: cfg.Region,
		logger: logger,
	}
}

// Upload stores the object under key and returns its public URL.
func (s *S3Store) Upload(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.client.PutObjectWithContext(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		s.logger.Error("s3 upload failed", zap.String("key", key), zap.Error(err))
		return "", apperrors.NewStorageUnavailable(err)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key), nil
}
