package csvio

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config holds optional overrides for the S3 client. Empty fields fall
// back to the default AWS configuration chain.
type S3Config struct {
	Region    string
	Endpoint  string // S3-compatible endpoint; enables path-style addressing
	AccessKey string
	SecretKey string
}

// S3API is the subset of *s3.Client used to read objects.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Opener opens s3://bucket/key locations.
type S3Opener struct {
	Client S3API
}

// Open fetches the object body. The caller closes it.
func (o S3Opener) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	bucket, key, err := ParseS3URL(location)
	if err != nil {
		return nil, err
	}

	resp, err := o.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3 object %s: %w", location, err)
	}
	return resp.Body, nil
}

// ParseS3URL splits s3://bucket/key into bucket and key.
func ParseS3URL(location string) (bucket, key string, err error) {
	if !strings.HasPrefix(location, S3Scheme) {
		return "", "", fmt.Errorf("invalid S3 URL: %s", location)
	}
	path := strings.TrimPrefix(location, S3Scheme)
	parts := strings.SplitN(path, "/", 2)
	if len(parts) < 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid S3 URL: %s", location)
	}
	return parts[0], parts[1], nil
}

// NewS3Client builds an S3 client from the default AWS configuration plus
// the overrides in cfg.
func NewS3Client(ctx context.Context, cfg S3Config) (*s3.Client, error) {
	var opts []func(*config.LoadOptions) error

	if cfg.Region != "" {
		opts = append(opts, config.WithRegion(cfg.Region))
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		creds := credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		opts = append(opts, config.WithCredentialsProvider(creds))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	return s3.NewFromConfig(awsCfg, clientOpts...), nil
}

// lazyS3Opener defers building the S3 client until an s3:// table is
// actually opened, so local-only queries never touch AWS configuration.
type lazyS3Opener struct {
	cfg    S3Config
	opener *S3Opener
}

func (l *lazyS3Opener) Open(ctx context.Context, location string) (io.ReadCloser, error) {
	if l.opener == nil {
		client, err := NewS3Client(ctx, l.cfg)
		if err != nil {
			return nil, err
		}
		l.opener = &S3Opener{Client: client}
	}
	return l.opener.Open(ctx, location)
}

// NewLazyS3Opener returns an opener that creates its client on first use.
func NewLazyS3Opener(cfg S3Config) Opener {
	return &lazyS3Opener{cfg: cfg}
}
