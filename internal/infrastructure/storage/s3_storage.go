// Package storage archives reconciliation audit records in object storage.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	appreconciliation "github.com/erp/reconciliation/internal/application/reconciliation"
	infraconfig "github.com/erp/reconciliation/internal/infrastructure/config"
	"go.uber.org/zap"
)

var _ appreconciliation.AuditSink = (*S3AuditArchive)(nil)

// S3AuditArchive writes one JSON object per audit record into an
// S3-compatible bucket (AWS S3, MinIO, RustFS). Object keys embed the event
// id, so redelivered events overwrite the same object.
type S3AuditArchive struct {
	client *s3.Client
	bucket string
	prefix string
	logger *zap.Logger
}

// S3AuditArchiveOption is a functional option for configuring S3AuditArchive
type S3AuditArchiveOption func(*S3AuditArchive)

// WithLogger sets a custom logger for S3AuditArchive
func WithLogger(logger *zap.Logger) S3AuditArchiveOption {
	return func(s *S3AuditArchive) {
		s.logger = logger
	}
}

// NewS3AuditArchive creates a new S3AuditArchive from configuration
func NewS3AuditArchive(cfg *infraconfig.StorageConfig, opts ...S3AuditArchiveOption) (*S3AuditArchive, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" {
		return nil, errors.New("storage access key is required")
	}
	if cfg.SecretKey == "" {
		return nil, errors.New("storage secret key is required")
	}

	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "http://localhost:9000"
	}
	if !strings.HasPrefix(endpoint, "http://") && !strings.HasPrefix(endpoint, "https://") {
		if cfg.UseSSL {
			endpoint = "https://" + endpoint
		} else {
			endpoint = "http://" + endpoint
		}
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("invalid storage endpoint: %w", err)
	}

	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(),
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		o.BaseEndpoint = aws.String(endpoint)
	})

	archive := &S3AuditArchive{
		client: client,
		bucket: cfg.Bucket,
		prefix: normalizePrefix(cfg.Prefix),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(archive)
	}
	return archive, nil
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		return ""
	}
	return prefix + "/"
}

// Name identifies the sink in logs and errors
func (s *S3AuditArchive) Name() string {
	return "s3"
}

// Bucket returns the bucket name
func (s *S3AuditArchive) Bucket() string {
	return s.bucket
}

// ObjectKey returns the key a record is archived under
func (s *S3AuditArchive) ObjectKey(record appreconciliation.AuditRecord) string {
	return s.prefix + record.Key()
}

// EnsureBucket creates the bucket if it doesn't exist.
// Call this during application startup.
func (s *S3AuditArchive) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	if err == nil {
		return nil
	}

	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	s.logger.Info("Creating audit bucket", zap.String("bucket", s.bucket))
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

// Write archives the record as a JSON object
func (s *S3AuditArchive) Write(ctx context.Context, record appreconciliation.AuditRecord) error {
	body, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}

	key := s.ObjectKey(record)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
		Metadata: map[string]string{
			"event-type":    record.EventType,
			"document-type": record.DocumentType,
			"document-id":   record.DocumentID.String(),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to archive %s: %w", key, err)
	}

	s.logger.Debug("Audit record archived",
		zap.String("bucket", s.bucket),
		zap.String("key", key))
	return nil
}

// Read returns a previously archived record
func (s *S3AuditArchive) Read(ctx context.Context, key string) (*appreconciliation.AuditRecord, error) {
	if key == "" {
		return nil, errors.New("object key is required")
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	var record appreconciliation.AuditRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", key, err)
	}
	return &record, nil
}

// Exists checks if an object exists in the bucket
func (s *S3AuditArchive) Exists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, errors.New("object key is required")
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
		// Some S3-compatible services report missing keys differently
		if strings.Contains(err.Error(), "NotFound") || strings.Contains(err.Error(), "NoSuchKey") {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object existence: %w", err)
	}
	return true, nil
}
