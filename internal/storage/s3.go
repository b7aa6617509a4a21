// Package storage talks to the S3-compatible bucket that holds task media.
// Browsers upload directly with a presigned PUT; the multipart create flow
// uploads server-side with Put.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Swapped in tests so no network or credentials are needed.
var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) error {
		_, err := c.PutObject(ctx, in)
		return err
	}

	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput) error {
		_, err := c.DeleteObject(ctx, in)
		return err
	}
)

type Options struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	// BaseEndpoint points at an S3-compatible server such as MinIO.
	BaseEndpoint string
	// PublicBaseURL overrides the URL prefix recorded for uploaded files.
	PublicBaseURL string
	PresignTTL    time.Duration
}

// PresignedUpload is returned to the browser, which PUTs the file to
// SignedURL and later registers FileURL through /fileupload.
type PresignedUpload struct {
	SignedURL    string `json:"signedUrl"`
	FileURL      string `json:"fileUrl"`
	OriginalName string `json:"originalName"`
}

type S3 struct {
	opts    Options
	client  *s3.Client
	presign *s3.PresignClient
	now     func() time.Time
	newID   func() string
}

func NewS3(ctx context.Context, opts Options) (*S3, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		))
	}

	cfg, err := loadDefaultAWSConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	if opts.PresignTTL <= 0 {
		opts.PresignTTL = time.Hour
	}

	return &S3{
		opts:    opts,
		client:  client,
		presign: newS3PresignClient(client),
		now:     time.Now,
		newID:   uuid.NewString,
	}, nil
}

// ObjectKey is "<DD><MM><YYYY>/<id>". The file name is never part of the
// key.
func ObjectKey(now time.Time, id string) string {
	return now.Format("02012006") + "/" + id
}

// PublicURL is the address recorded for an object after upload.
func (s *S3) PublicURL(key string) string {
	switch {
	case s.opts.PublicBaseURL != "":
		return strings.TrimRight(s.opts.PublicBaseURL, "/") + "/" + key
	case s.opts.BaseEndpoint != "":
		return strings.TrimRight(s.opts.BaseEndpoint, "/") + "/" + s.opts.Bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.opts.Bucket, s.opts.Region, key)
}

// PresignPut signs a PUT for a fresh key with the content type bound.
func (s *S3) PresignPut(ctx context.Context, fileName, contentType string) (*PresignedUpload, error) {
	key := ObjectKey(s.now(), s.newID())

	req, err := presignPutObject(s.presign, ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.opts.Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(s.opts.PresignTTL))
	if err != nil {
		return nil, fmt.Errorf("presign put: %w", err)
	}

	return &PresignedUpload{
		SignedURL:    req.URL,
		FileURL:      s.PublicURL(key),
		OriginalName: fileName,
	}, nil
}

// Put uploads body under a fresh key and returns the object's public URL.
func (s *S3) Put(ctx context.Context, contentType string, body io.Reader, size int64) (string, error) {
	key := ObjectKey(s.now(), s.newID())

	in := &s3.PutObjectInput{
		Bucket:      aws.String(s.opts.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size >= 0 {
		in.ContentLength = aws.Int64(size)
	}
	if err := putObject(s.client, ctx, in); err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return s.PublicURL(key), nil
}

// Delete removes an object previously returned by Put. fileURL must carry
// this bucket's public prefix.
func (s *S3) Delete(ctx context.Context, fileURL string) error {
	prefix := s.PublicURL("")
	key, ok := strings.CutPrefix(fileURL, prefix)
	if !ok || key == "" {
		return fmt.Errorf("delete object: %q is not in bucket %s", fileURL, s.opts.Bucket)
	}

	if err := deleteObject(s.client, ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	return nil
}
