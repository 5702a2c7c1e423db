package upload

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	gcs "cloud.google.com/go/storage"
	firebase "firebase.google.com/go/v4"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"skillshare/internal/config"
	"skillshare/internal/model"
)

// downloadTokenKey is the object metadata key Firebase Storage reads
// download tokens from.
const downloadTokenKey = "firebaseStorageDownloadTokens"

// objectAttrs are set on a new object before its first byte is written.
type objectAttrs struct {
	ContentType  string
	CacheControl string
	Metadata     map[string]string
}

// openFunc starts a resumable object write. progress receives the number of
// bytes the server has acknowledged so far.
type openFunc func(ctx context.Context, path string, attrs objectAttrs, progress func(int64)) io.WriteCloser

// FirebaseUploader writes to a Firebase Storage bucket using chunked
// resumable uploads and returns token-bearing download URLs.
type FirebaseUploader struct {
	bucket   string
	open     openFunc
	now      func() time.Time
	newToken func() string
	logger   *zap.Logger
}

// NewFirebaseUploader connects to the configured bucket. Service account
// credentials come from the FIREBASE_* settings when present, otherwise
// from application default credentials.
func NewFirebaseUploader(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*FirebaseUploader, error) {
	if cfg.FirebaseStorageBucket == "" {
		return nil, fmt.Errorf("missing Firebase storage configuration")
	}

	var opts []option.ClientOption
	if cfg.FirebaseClientEmail != "" && cfg.FirebasePrivateKey != "" {
		opts = append(opts, option.WithCredentialsJSON(serviceAccountJSON(cfg.FirebaseProjectID, cfg.FirebaseClientEmail, cfg.FirebasePrivateKey)))
	}

	app, err := firebase.NewApp(ctx, &firebase.Config{
		ProjectID:     cfg.FirebaseProjectID,
		StorageBucket: cfg.FirebaseStorageBucket,
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}
	client, err := app.Storage(ctx)
	if err != nil {
		return nil, fmt.Errorf("get storage client: %w", err)
	}
	handle, err := client.Bucket(cfg.FirebaseStorageBucket)
	if err != nil {
		return nil, fmt.Errorf("open bucket: %w", err)
	}

	u := newFirebaseUploader(cfg.FirebaseStorageBucket, bucketWriter(handle), logger)
	u.logger.Info("firebase storage ready", zap.String("bucket", cfg.FirebaseStorageBucket))
	return u, nil
}

func newFirebaseUploader(bucket string, open openFunc, logger *zap.Logger) *FirebaseUploader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &FirebaseUploader{
		bucket:   bucket,
		open:     open,
		now:      time.Now,
		newToken: uuid.NewString,
		logger:   logger.Named("upload.firebase"),
	}
}

// serviceAccountJSON builds the credentials document Firebase expects.
// Private keys copied from .env files carry literal "\n" sequences.
func serviceAccountJSON(projectID, clientEmail, privateKey string) []byte {
	privateKey = strings.ReplaceAll(privateKey, "\\n", "\n")
	return []byte(fmt.Sprintf(`{
		"type": "service_account",
		"project_id": %q,
		"private_key": %q,
		"client_email": %q,
		"token_uri": "https://oauth2.googleapis.com/token"
	}`, projectID, privateKey, clientEmail))
}

func bucketWriter(b *gcs.BucketHandle) openFunc {
	return func(ctx context.Context, path string, attrs objectAttrs, progress func(int64)) io.WriteCloser {
		w := b.Object(path).NewWriter(ctx)
		w.ContentType = attrs.ContentType
		w.CacheControl = attrs.CacheControl
		w.Metadata = attrs.Metadata
		w.ChunkSize = googleapi.MinUploadChunkSize
		w.ProgressFunc = progress
		return w
	}
}

// DownloadURL is the public URL of a Firebase Storage object.
func DownloadURL(bucket, path, token string) string {
	return fmt.Sprintf("https://firebasestorage.googleapis.com/v0/b/%s/o/%s?alt=media&token=%s",
		bucket, url.PathEscape(path), url.QueryEscape(token))
}

func (u *FirebaseUploader) Upload(ctx context.Context, folder string, f File, onProgress ProgressFunc) (string, error) {
	if f.Body == nil {
		return "", model.ErrNoFile
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	path := ObjectPath(folder, f.Name, u.now())
	token := u.newToken()
	rep := newReporter(f.Size, onProgress)
	rep.bytes(0)

	w := u.open(ctx, path, objectAttrs{
		ContentType:  f.ContentType,
		CacheControl: f.CacheControl,
		Metadata:     map[string]string{downloadTokenKey: token},
	}, rep.bytes)

	if _, err := io.Copy(w, f.Body); err != nil {
		cancel()
		_ = w.Close()
		u.logger.Warn("upload aborted", zap.String("path", path), zap.Error(err))
		return "", fmt.Errorf("failed to upload to firebase: %w", err)
	}
	if err := w.Close(); err != nil {
		u.logger.Warn("upload failed", zap.String("path", path), zap.Error(err))
		return "", fmt.Errorf("failed to upload to firebase: %w", err)
	}
	rep.done()

	u.logger.Debug("uploaded", zap.String("path", path), zap.Int64("size", f.Size))
	return DownloadURL(u.bucket, path, token), nil
}
