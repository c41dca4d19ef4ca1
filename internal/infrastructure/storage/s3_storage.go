// Package storage archives sale order requests to S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	tradeapp "github.com/erp/ecocare/internal/application/trade"
	"github.com/erp/ecocare/internal/domain/trade"
	infraconfig "github.com/erp/ecocare/internal/infrastructure/config"
	"go.uber.org/zap"
)

var _ tradeapp.RequestArchiver = (*S3RequestArchiver)(nil)

// s3API is the part of *s3.Client the archiver uses.
type s3API interface {
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, opts ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
	CreateBucket(ctx context.Context, in *s3.CreateBucketInput, opts ...func(*s3.Options)) (*s3.CreateBucketOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, opts ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Snapshot is the archived form of a sale order request.
type Snapshot struct {
	ArchivedAt time.Time                         `json:"archived_at"`
	Request    tradeapp.SaleOrderRequestResponse `json:"request"`
}

// S3RequestArchiver writes JSON snapshots of sale order requests to a bucket.
// It works with AWS S3 and S3-compatible servers such as MinIO.
type S3RequestArchiver struct {
	client s3API
	bucket string
	now    func() time.Time
	logger *zap.Logger
}

// S3RequestArchiverOption configures an S3RequestArchiver.
type S3RequestArchiverOption func(*S3RequestArchiver)

func WithLogger(logger *zap.Logger) S3RequestArchiverOption {
	return func(a *S3RequestArchiver) {
		a.logger = logger
	}
}

// NewS3RequestArchiver builds an archiver from the storage configuration.
func NewS3RequestArchiver(ctx context.Context, cfg *infraconfig.StorageConfig, opts ...S3RequestArchiverOption) (*S3RequestArchiver, error) {
	if cfg == nil {
		return nil, errors.New("storage configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, errors.New("storage access key and secret key are required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}
	endpoint := normalizeEndpoint(cfg.Endpoint, cfg.UseSSL)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return newS3RequestArchiver(client, cfg.Bucket, opts...), nil
}

func newS3RequestArchiver(client s3API, bucket string, opts ...S3RequestArchiverOption) *S3RequestArchiver {
	a := &S3RequestArchiver{
		client: client,
		bucket: bucket,
		now:    time.Now,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// normalizeEndpoint adds the scheme to a bare host:port.
func normalizeEndpoint(endpoint string, useSSL bool) string {
	if endpoint == "" || strings.HasPrefix(endpoint, "http://") || strings.HasPrefix(endpoint, "https://") {
		return endpoint
	}
	if useSSL {
		return "https://" + endpoint
	}
	return "http://" + endpoint
}

// ObjectKey returns the key under which a request snapshot is stored.
func ObjectKey(r *trade.SaleOrderRequest) string {
	return fmt.Sprintf("sale-order-requests/%s/%s.json", r.TenantID, r.ID)
}

// EnsureBucket creates the bucket if it doesn't exist.
func (a *S3RequestArchiver) EnsureBucket(ctx context.Context) error {
	_, err := a.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(a.bucket)})
	if err == nil {
		return nil
	}
	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("failed to check bucket existence: %w", err)
	}

	a.logger.Info("Creating storage bucket", zap.String("bucket", a.bucket))
	_, err = a.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(a.bucket)})
	if err != nil {
		var alreadyOwned *types.BucketAlreadyOwnedByYou
		if errors.As(err, &alreadyOwned) {
			return nil
		}
		return fmt.Errorf("failed to create bucket: %w", err)
	}
	return nil
}

// Archive uploads a JSON snapshot of r.
func (a *S3RequestArchiver) Archive(ctx context.Context, r *trade.SaleOrderRequest) error {
	body, err := json.Marshal(Snapshot{
		ArchivedAt: a.now().UTC(),
		Request:    tradeapp.ToSaleOrderRequestResponse(r, nil),
	})
	if err != nil {
		return fmt.Errorf("failed to encode request snapshot: %w", err)
	}
	key := ObjectKey(r)
	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to upload request snapshot: %w", err)
	}
	a.logger.Debug("sale order request archived",
		zap.String("bucket", a.bucket),
		zap.String("key", key),
	)
	return nil
}

// Bucket returns the bucket name.
func (a *S3RequestArchiver) Bucket() string {
	return a.bucket
}
