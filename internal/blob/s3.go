package blob

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/premdoors/qc-tracker/internal/common"
)

// S3Store implements Store for AWS S3 and S3-compatible storage (MinIO,
// Supabase storage, DigitalOcean Spaces). S3-compatible endpoints typically
// need ForcePathStyle.
type S3Store struct {
	client   *s3.Client
	bucket   string
	endpoint string
	region   string
}

// NewS3Store creates an S3-backed blob store. Credentials fall back to the
// AWS SDK default chain when not set explicitly.
func NewS3Store(ctx context.Context, cfg common.StorageConfig) (*S3Store, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 config: bucket name is required")
	}
	if (cfg.AccessKeyID != "") != (cfg.SecretAccessKey != "") {
		return nil, fmt.Errorf("s3 config: both access key ID and secret access key must be provided together")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if cfg.Region != "" {
		opts = append(opts, awsconfig.WithRegion(cfg.Region))
	}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	s3Opts := []func(*s3.Options){
		func(o *s3.Options) {
			if cfg.ForcePathStyle {
				o.UsePathStyle = true
			}
		},
	}
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	return &S3Store{
		client:   s3.NewFromConfig(awsCfg, s3Opts...),
		bucket:   cfg.Bucket,
		endpoint: strings.TrimRight(cfg.Endpoint, "/"),
		region:   cfg.Region,
	}, nil
}

func (s *S3Store) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	input := &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(path),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return common.WrapError(err, "put object "+path)
	}
	return nil
}

func (s *S3Store) Delete(ctx context.Context, path string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path),
	})
	if err != nil {
		return common.WrapError(err, "delete object "+path)
	}
	return nil
}

func (s *S3Store) PublicURL(path string) string {
	if s.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", s.endpoint, s.bucket, path)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, path)
}

// ParsePath extracts the storage path from a public URL by splitting on the
// bucket segment, mirroring how the URL was derived.
func (s *S3Store) ParsePath(url string) (string, error) {
	marker := "/" + s.bucket + "/"
	idx := strings.Index(url, marker)
	if idx < 0 {
		return "", fmt.Errorf("%w: url %q is not in bucket %q", common.ErrAttachmentStore, url, s.bucket)
	}
	path := url[idx+len(marker):]
	if path == "" {
		return "", fmt.Errorf("%w: url %q has empty path", common.ErrAttachmentStore, url)
	}
	return path, nil
}
