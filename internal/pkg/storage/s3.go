package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/sekolah-web/core/internal/config"
)

// S3 stores files in an S3 compatible bucket.
type S3 struct {
	client  *s3.Client
	bucket  string
	prefix  string
	baseURL string
}

// NewS3 builds an S3 disk from its configuration. A custom endpoint selects
// an S3 compatible service such as MinIO or R2.
func NewS3(_ context.Context, dc config.DiskConfig) (*S3, error) {
	if dc.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}
	region := dc.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := s3.Options{
		Region:       region,
		UsePathStyle: dc.PathStyle,
	}
	if dc.AccessKeyID != "" {
		opts.Credentials = aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(dc.AccessKeyID, dc.SecretAccessKey, ""),
		)
	}
	if dc.Endpoint != "" {
		opts.BaseEndpoint = aws.String(strings.TrimRight(dc.Endpoint, "/"))
	}

	baseURL := dc.BaseURL
	if baseURL == "" {
		baseURL = defaultS3BaseURL(dc, region)
	}

	return &S3{
		client:  s3.New(opts),
		bucket:  dc.Bucket,
		prefix:  dc.Prefix,
		baseURL: baseURL,
	}, nil
}

func defaultS3BaseURL(dc config.DiskConfig, region string) string {
	if dc.Endpoint != "" {
		return strings.TrimRight(dc.Endpoint, "/") + "/" + dc.Bucket
	}
	if dc.PathStyle {
		return fmt.Sprintf("https://s3.%s.amazonaws.com/%s", region, dc.Bucket)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com", dc.Bucket, region)
}

func (d *S3) key(p string) (string, error) {
	cleaned, err := CleanPath(p)
	if err != nil {
		return "", err
	}
	if d.prefix == "" {
		return cleaned, nil
	}
	return d.prefix + "/" + cleaned, nil
}

func (d *S3) Put(ctx context.Context, p string, data []byte, contentType string) error {
	key, err := d.key(p)
	if err != nil {
		return err
	}
	input := &s3.PutObjectInput{
		Bucket:        aws.String(d.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}
	if _, err := d.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("storage: s3 put %q: %w", key, err)
	}
	return nil
}

func (d *S3) Get(ctx context.Context, p string) ([]byte, error) {
	key, err := d.key(p)
	if err != nil {
		return nil, err
	}
	out, err := d.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%w: %s", ErrNotExist, p)
		}
		return nil, fmt.Errorf("storage: s3 get %q: %w", key, err)
	}
	defer out.Body.Close()
	return io.ReadAll(out.Body)
}

func (d *S3) Delete(ctx context.Context, p string) error {
	key, err := d.key(p)
	if err != nil {
		return err
	}
	if _, err := d.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(d.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("storage: s3 delete %q: %w", key, err)
	}
	return nil
}

func (d *S3) URL(p string) string {
	key, err := d.key(p)
	if err != nil {
		return ""
	}
	return joinURL(d.baseURL, key)
}
