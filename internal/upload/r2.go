package upload

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"

	"skillshare/internal/config"
	"skillshare/internal/model"
)

// objectPutter is the subset of *s3.Client the R2 uploader uses.
type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// R2Uploader writes to a Cloudflare R2 bucket through its S3-compatible API.
type R2Uploader struct {
	client    objectPutter
	bucket    string
	publicURL string
	now       func() time.Time
	logger    *zap.Logger
}

// NewR2Uploader constructs an S3-compatible client for Cloudflare R2.
func NewR2Uploader(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*R2Uploader, error) {
	if cfg.R2AccountID == "" || cfg.R2AccessKeyID == "" || cfg.R2SecretAccessKey == "" || cfg.R2BucketName == "" || cfg.R2PublicURL == "" {
		return nil, fmt.Errorf("missing Cloudflare R2 configuration")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(
		ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.R2AccessKeyID, cfg.R2SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config for R2: %w", err)
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", cfg.R2AccountID)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return newR2Uploader(client, cfg.R2BucketName, cfg.R2PublicURL, logger), nil
}

func newR2Uploader(client objectPutter, bucket, publicURL string, logger *zap.Logger) *R2Uploader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &R2Uploader{
		client:    client,
		bucket:    bucket,
		publicURL: strings.TrimSuffix(publicURL, "/"),
		now:       time.Now,
		logger:    logger.Named("upload.r2"),
	}
}

func (u *R2Uploader) Upload(ctx context.Context, folder string, f File, onProgress ProgressFunc) (string, error) {
	if f.Body == nil {
		return "", model.ErrNoFile
	}

	// The SDK signs the payload and may rewind it, so the body must seek.
	body, ok := f.Body.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(f.Body)
		if err != nil {
			return "", fmt.Errorf("failed to read upload: %w", err)
		}
		body = bytes.NewReader(data)
		f.Size = int64(len(data))
	}

	key := ObjectPath(folder, f.Name, u.now())
	rep := newReporter(f.Size, onProgress)
	rep.bytes(0)

	input := &s3.PutObjectInput{
		Bucket:        aws.String(u.bucket),
		Key:           aws.String(key),
		Body:          &progressReader{rs: body, report: rep.bytes},
		ContentLength: aws.Int64(f.Size),
		ContentType:   aws.String(f.ContentType),
	}
	if f.CacheControl != "" {
		input.CacheControl = aws.String(f.CacheControl)
	}
	if _, err := u.client.PutObject(ctx, input); err != nil {
		u.logger.Warn("upload failed", zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("failed to upload to r2: %w", err)
	}
	rep.done()

	return fmt.Sprintf("%s/%s", u.publicURL, key), nil
}

// progressReader counts bytes read from the current position. Seeking
// resets the count to the new offset.
type progressReader struct {
	rs     io.ReadSeeker
	report func(int64)

	mu  sync.Mutex
	pos int64
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.rs.Read(b)
	p.mu.Lock()
	p.pos += int64(n)
	pos := p.pos
	p.mu.Unlock()
	if n > 0 {
		p.report(pos)
	}
	return n, err
}

func (p *progressReader) Seek(offset int64, whence int) (int64, error) {
	pos, err := p.rs.Seek(offset, whence)
	if err == nil {
		p.mu.Lock()
		p.pos = pos
		p.mu.Unlock()
	}
	return pos, err
}
