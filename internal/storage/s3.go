// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage archives exported card images. The S3 client targets
// S3-compatible object storage with path-style access (CEPH/Hetzner/MinIO);
// the disk archiver writes to a local directory for single-host setups.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"idcards/internal/slug"
)

// Archiver stores a finished export and returns where it can be found.
type Archiver interface {
	Archive(ctx context.Context, key, contentType string, data []byte) (string, error)
}

// ArchiveKey builds the object key of an exported card: one folder per
// month and a slug of the resident name, suffixed with the export time.
func ArchiveKey(residentName string, at time.Time) string {
	name := slug.Generate(residentName)
	if name == "" {
		name = "residente"
	}
	at = at.UTC()
	return fmt.Sprintf("cards/%s/%s-%d.jpg", at.Format("2006/01"), name, at.UnixMilli())
}

// Client wraps an S3 client writing into one bucket.
type Client struct {
	s3        *s3.Client
	bucket    string
	endpoint  string
	publicURL string // optional CDN/direct URL for archived files
}

// New creates an S3 storage client with path-style addressing. Returns
// (nil, nil) if endpoint, credentials or bucket are empty, allowing the
// app to start without object storage.
func New(endpoint, region, accessKey, secretKey, bucket, publicURL string) (*Client, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" || bucket == "" {
		return nil, nil
	}
	if region == "" {
		region = "us-east-1"
	}

	// Strip trailing slash from endpoint for consistent URL building.
	endpoint = strings.TrimRight(endpoint, "/")

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &Client{
		s3:        s3Client,
		bucket:    bucket,
		endpoint:  endpoint,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// Archive uploads data under key and returns its URL.
func (c *Client) Archive(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("s3 upload %s/%s: %w", c.bucket, key, err)
	}
	return c.FileURL(key), nil
}

// FileURL returns the URL of an archived file. Uses the configured public
// URL if set, otherwise builds a path-style URL.
func (c *Client) FileURL(key string) string {
	if c.publicURL != "" {
		return c.publicURL + "/" + key
	}
	return c.endpoint + "/" + c.bucket + "/" + key
}

// Bucket returns the name of the archive bucket.
func (c *Client) Bucket() string {
	return c.bucket
}
