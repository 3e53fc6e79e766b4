// Copyright (c) 2026 Priotama. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package storage hosts profile pictures on S3-compatible object storage
(AWS S3, Cloudflare R2, MinIO).

Architecture:

  - Handle: Every upload yields an [Asset]: the public URL stored on the
    member record and the object key used to delete it later.
  - Keys: "<prefix>/profile_<unix>_<uuid>.<ext>", unique per upload, so a
    retried commit never overwrites another member's picture.
  - Testability: [S3Store] depends on the narrow [ObjectAPI] interface rather
    than the concrete SDK client.
*/
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/taibuivan/priotama/internal/platform/config"
	"github.com/taibuivan/priotama/pkg/uuid"
)

// Asset references a stored object.
type Asset struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// ObjectAPI is the subset of the S3 client used by [S3Store].
type ObjectAPI interface {
	PutObject(context context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(context context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// # Client Construction

// NewS3Client builds an SDK client from configuration. Static credentials are
// used when an access key is configured; otherwise the default AWS chain applies.
func NewS3Client(context context.Context, cfg config.S3Config) (*s3.Client, error) {
	options := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		options = append(options, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsConfig, err := awsconfig.LoadDefaultConfig(context, options...)
	if err != nil {
		return nil, fmt.Errorf("storage: failed to load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return client, nil
}

// # Store

// S3Store uploads and deletes profile pictures.
type S3Store struct {
	api       ObjectAPI
	bucket    string
	publicURL string
	prefix    string
	now       func() time.Time
}

// NewS3Store creates a store writing to cfg.Bucket.
func NewS3Store(api ObjectAPI, cfg config.S3Config) *S3Store {
	return &S3Store{
		api:       api,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		prefix:    strings.Trim(cfg.KeyPrefix, "/"),
		now:       time.Now,
	}
}

/*
Upload stores an image and returns its handle.

Parameters:
  - context: context.Context
  - data: []byte (raw image bytes)
  - contentType: string (image/jpeg or image/png)

Returns:
  - Asset: Public URL and deletion key
  - error: Unsupported content type or upstream failures
*/
func (store *S3Store) Upload(context context.Context, data []byte, contentType string) (Asset, error) {
	extension, ok := Extension(contentType)
	if !ok {
		return Asset{}, fmt.Errorf("storage: unsupported content type %q", contentType)
	}

	key := fmt.Sprintf("profile_%d_%s.%s", store.now().Unix(), uuid.New(), extension)
	if store.prefix != "" {
		key = store.prefix + "/" + key
	}

	_, err := store.api.PutObject(context, &s3.PutObjectInput{
		Bucket:        aws.String(store.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(data))),
		CacheControl:  aws.String("public, max-age=31536000, immutable"),
	})
	if err != nil {
		return Asset{}, fmt.Errorf("storage_s3_put_failed: %w", err)
	}

	return Asset{URL: store.publicURL + "/" + key, Key: key}, nil
}

// Delete removes the object stored under key. S3 treats a missing key as success.
func (store *S3Store) Delete(context context.Context, key string) error {
	if key == "" {
		return nil
	}

	_, err := store.api.DeleteObject(context, &s3.DeleteObjectInput{
		Bucket: aws.String(store.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("storage_s3_delete_failed: %w", err)
	}
	return nil
}

// Extension maps an accepted image content type to a file extension.
func Extension(contentType string) (string, bool) {
	switch strings.ToLower(strings.TrimSpace(contentType)) {
	case "image/jpeg", "image/jpg":
		return "jpg", true
	case "image/png":
		return "png", true
	default:
		return "", false
	}
}
