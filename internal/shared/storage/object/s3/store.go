package s3

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"orgdocs-backend/internal/shared/storage/object"
)

// PutObjectAPI is the subset of the S3 client used by Store.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Store implements ObjectStore using Amazon S3.
type Store struct {
	client        PutObjectAPI
	bucket        string
	region        string
	prefix        string
	publicBaseURL string
}

// Options configures an S3 store. An empty Bucket uses the bucket passed to Put.
type Options struct {
	Region        string
	Bucket        string
	Prefix        string
	PublicBaseURL string
}

// New creates a new S3-backed object store from the default AWS credential chain.
func New(ctx context.Context, opts Options) (*Store, error) {
	loadOpts := []func(*awsconfig.LoadOptions) error{}
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	if opts.Region == "" {
		opts.Region = cfg.Region
	}
	return NewWithClient(s3.NewFromConfig(cfg), opts), nil
}

// NewWithClient builds a Store around an existing client.
func NewWithClient(client PutObjectAPI, opts Options) *Store {
	return &Store{
		client:        client,
		bucket:        strings.TrimSpace(opts.Bucket),
		region:        strings.TrimSpace(opts.Region),
		prefix:        normalizePrefix(opts.Prefix),
		publicBaseURL: strings.TrimRight(strings.TrimSpace(opts.PublicBaseURL), "/"),
	}
}

// Name implements ObjectStore.
func (s *Store) Name() string { return "s3" }

// Put uploads data with server-side encryption and returns its public URL.
func (s *Store) Put(ctx context.Context, bucket, path string, data []byte, contentType string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	targetBucket := s.bucket
	if targetBucket == "" {
		targetBucket = bucket
	}
	if targetBucket == "" || strings.TrimSpace(path) == "" {
		return "", object.ErrInvalidPath
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := applyPrefix(s.prefix, path)
	input := &s3.PutObjectInput{
		Bucket:               aws.String(targetBucket),
		Key:                  aws.String(key),
		Body:                 bytes.NewReader(data),
		ContentLength:        aws.Int64(int64(len(data))),
		ContentType:          aws.String(contentType),
		ServerSideEncryption: s3types.ServerSideEncryptionAes256,
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return "", fmt.Errorf("s3 put object bucket=%s key=%s: %w", targetBucket, key, err)
	}
	return s.publicURL(targetBucket, key), nil
}

func (s *Store) publicURL(bucket, key string) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key
	}
	if s.region == "" {
		return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", bucket, s.region, key)
}

func normalizePrefix(prefix string) string {
	return strings.Trim(strings.TrimSpace(prefix), "/")
}

func applyPrefix(prefix, key string) string {
	cleanPrefix := strings.Trim(prefix, "/")
	cleanKey := strings.TrimLeft(key, "/")
	if cleanPrefix == "" {
		return cleanKey
	}
	if cleanKey == "" {
		return cleanPrefix
	}
	return cleanPrefix + "/" + cleanKey
}

var _ object.ObjectStore = (*Store)(nil)
