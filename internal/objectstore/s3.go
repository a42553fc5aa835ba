package objectstore

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Store implements Store on top of an S3 bucket with public-read objects.
type S3Store struct {
	client    *s3.Client
	bucket    string
	publicURL string
}

// NewS3 constructs an S3-backed object store. publicURL overrides the derived
// virtual-hosted URL prefix when the bucket sits behind a CDN; pass empty to
// use the default S3 endpoint form.
func NewS3(client *s3.Client, bucket, region, publicURL string) *S3Store {
	if publicURL == "" {
		publicURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return &S3Store{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimRight(publicURL, "/"),
	}
}

func (s *S3Store) Upload(ctx context.Context, key, contentType string, body io.Reader) error {
	if key == "" {
		return fmt.Errorf("object key is required")
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("put object %s: %w", key, err)
	}
	return nil
}

func (s *S3Store) PublicURL(key string) string {
	return s.publicURL + "/" + strings.TrimLeft(key, "/")
}
