package xfer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// S3Transport implements Transport over S3's HeadObject/GetObject
// (with Range support) and the s3manager uploader, so the same chunk
// orchestrator that drives plain HTTP can drive s3:// locators too —
// S3 honors byte-range GETs the same way an HTTP origin does.
type S3Transport struct {
	client   *s3.Client
	uploader *manager.Uploader
}

// NewS3Transport loads the default AWS config (environment, shared
// config file, EC2/ECS role) and returns a ready Transport.
func NewS3Transport(ctx context.Context) (*S3Transport, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(cfg)

	return &S3Transport{
		client:   client,
		uploader: manager.NewUploader(client),
	}, nil
}

// parseS3URL splits an "s3://bucket/key" locator URL.
func parseS3URL(raw string) (bucket, key string, err error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", "", err
	}
	if u.Scheme != "s3" {
		return "", "", fmt.Errorf("not an s3:// locator: %s", raw)
	}
	return u.Host, strings.TrimPrefix(u.Path, "/"), nil
}

func (s *S3Transport) Do(ctx context.Context, req TransportRequest) (*Response, error) {
	bucket, key, err := parseS3URL(req.Locator.URL)
	if err != nil {
		return nil, err
	}

	switch req.Method {
	case "HEAD":
		return s.head(ctx, bucket, key)
	case "GET":
		return s.get(ctx, bucket, key, req)
	case "PUT":
		return s.put(ctx, bucket, key, req)
	default:
		return nil, fmt.Errorf("s3 transport: unsupported method %s", req.Method)
	}
}

func (s *S3Transport) head(ctx context.Context, bucket, key string) (*Response, error) {
	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotModified(err) {
			return &Response{StatusCode: 304}, nil
		}
		if isNotFound(err) {
			return &Response{StatusCode: 404}, nil
		}
		return nil, err
	}

	return &Response{
		StatusCode:    200,
		ContentLength: aws.ToInt64(out.ContentLength),
	}, nil
}

func (s *S3Transport) get(ctx context.Context, bucket, key string, req TransportRequest) (*Response, error) {
	input := &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	if req.Range != nil {
		input.Range = aws.String(req.Range.Header())
	}

	out, err := s.client.GetObject(ctx, input)
	if err != nil {
		if isNotModified(err) {
			return &Response{StatusCode: 304}, nil
		}
		if isNotFound(err) {
			return &Response{StatusCode: 404}, nil
		}
		return nil, err
	}
	defer out.Body.Close()

	var reader io.Reader = out.Body
	if req.OnRecv != nil {
		den := req.RecvDen
		if den <= 0 {
			den = aws.ToInt64(out.ContentLength)
		}
		reader = &progressReader{r: out.Body, baseline: req.RecvBase, total: den, onProgress: req.OnRecv}
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	return &Response{
		StatusCode:    200,
		ContentLength: aws.ToInt64(out.ContentLength),
		Body:          data,
	}, nil
}

func (s *S3Transport) put(ctx context.Context, bucket, key string, req TransportRequest) (*Response, error) {
	var body io.Reader = bytes.NewReader(req.Body)
	if req.OnSent != nil {
		body = &progressReader{r: body, total: int64(len(req.Body)), onProgress: req.OnSent}
	}

	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   body,
	})
	if err != nil {
		return nil, err
	}

	return &Response{StatusCode: 200}, nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	var nf *types.NotFound
	return errors.As(err, &nsk) || errors.As(err, &nf)
}

// isNotModified maps the 304-style precondition-failed error S3
// returns for conditional GetObject/HeadObject calls (If-None-Match,
// If-Modified-Since) onto the engine's NotModified outcome.
func isNotModified(err error) bool {
	return strings.Contains(err.Error(), "NotModified") || strings.Contains(err.Error(), "304")
}
