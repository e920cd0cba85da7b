package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/roach88/hwdiag/internal/ir"
)

const (
	// S3KeyPrefix is prepended to every object key.
	S3KeyPrefix = "logs/diagnostico_"

	// S3KeyTimeLayout formats the record timestamp in object keys.
	S3KeyTimeLayout = "20060102T150405Z"

	// S3ContentType is set on every uploaded object.
	S3ContentType = "application/json; charset=utf-8"
)

// putObjectAPI is the subset of *s3.Client used by S3Sink.
type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads each record as an indented JSON object.
type S3Sink struct {
	client putObjectAPI
	bucket string
}

// NewS3Sink loads the default AWS configuration for region and returns a
// sink writing to bucket. Credentials come from the standard AWS chain.
func NewS3Sink(ctx context.Context, bucket, region string) (*S3Sink, error) {
	if bucket == "" {
		return nil, fmt.Errorf("s3 sink: bucket is required")
	}
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("s3 sink: load aws config: %w", err)
	}
	return newS3Sink(s3.NewFromConfig(cfg), bucket), nil
}

func newS3Sink(client putObjectAPI, bucket string) *S3Sink {
	return &S3Sink{client: client, bucket: bucket}
}

// Name returns "s3://<bucket>".
func (s *S3Sink) Name() string {
	return "s3://" + s.bucket
}

// Persist uploads rec under ObjectKey(rec).
func (s *S3Sink) Persist(ctx context.Context, rec ir.LogRecord) error {
	body, err := encodeIndented(rec)
	if err != nil {
		return fmt.Errorf("s3 sink: %w", err)
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(ObjectKey(rec)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(S3ContentType),
	})
	if err != nil {
		return fmt.Errorf("s3 sink: put object: %w", err)
	}
	return nil
}

// ObjectKey returns the object key for rec, derived from its UTC timestamp.
func ObjectKey(rec ir.LogRecord) string {
	return S3KeyPrefix + rec.Timestamp.UTC().Format(S3KeyTimeLayout) + ".json"
}

// encodeIndented renders rec as two-space indented UTF-8 JSON without HTML
// escaping, so Portuguese text stays readable in the bucket.
func encodeIndented(rec ir.LogRecord) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return buf.Bytes(), nil
}
