// Package upload sends media files to object storage and returns their
// public download URLs.
package upload

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"skillshare/internal/model"
)

// File is one file to upload.
type File struct {
	Name         string
	ContentType  string
	CacheControl string
	Size         int64
	Body         io.Reader
}

// ProgressFunc receives whole-number percentages, 0 to 100, in increasing
// order.
type ProgressFunc func(percent int)

// Uploader stores a file under folder and returns its public URL.
type Uploader interface {
	Upload(ctx context.Context, folder string, f File, onProgress ProgressFunc) (string, error)
}

// ObjectPath names a stored object: "<folder>/<unix millis>-<file name>".
func ObjectPath(folder, name string, now time.Time) string {
	return fmt.Sprintf("%s/%d-%s", strings.Trim(folder, "/"), now.UnixMilli(), filepath.Base(name))
}

// OpenFile opens a local file for upload. The caller closes the returned
// closer once the upload finishes.
func OpenFile(path string) (File, io.Closer, error) {
	fh, err := os.Open(path)
	if err != nil {
		return File{}, nil, fmt.Errorf("open upload: %w", err)
	}
	info, err := fh.Stat()
	if err != nil {
		fh.Close()
		return File{}, nil, fmt.Errorf("stat upload: %w", err)
	}

	contentType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if contentType == "" {
		head := make([]byte, 512)
		n, _ := io.ReadFull(fh, head)
		contentType = http.DetectContentType(head[:n])
		if _, err := fh.Seek(0, io.SeekStart); err != nil {
			fh.Close()
			return File{}, nil, fmt.Errorf("rewind upload: %w", err)
		}
	}
	if i := strings.Index(contentType, ";"); i != -1 {
		contentType = strings.TrimSpace(contentType[:i])
	}

	return File{
		Name:        filepath.Base(path),
		ContentType: contentType,
		Size:        info.Size(),
		Body:        fh,
	}, fh, nil
}

// PostMedia checks that f is an image or a video and describes it as a post
// attachment once uploaded to url.
func PostMedia(f File, url string) (model.PostMedia, error) {
	kind, ok := model.MediaTypeFor(f.ContentType)
	if !ok {
		return model.PostMedia{}, model.ErrInvalidMediaType
	}
	return model.PostMedia{URL: url, Type: kind, Name: f.Name}, nil
}

// reporter converts byte counts into monotonically increasing percentages.
// Byte counts top out at 99; only done reports 100.
type reporter struct {
	total int64
	fn    ProgressFunc

	mu   sync.Mutex
	last int
}

func newReporter(total int64, fn ProgressFunc) *reporter {
	return &reporter{total: total, fn: fn, last: -1}
}

func (r *reporter) bytes(done int64) {
	if r.fn == nil || r.total <= 0 {
		return
	}
	pct := int(done * 100 / r.total)
	if pct > 99 {
		pct = 99
	}
	r.emit(pct)
}

func (r *reporter) done() {
	if r.fn != nil {
		r.emit(100)
	}
}

func (r *reporter) emit(pct int) {
	r.mu.Lock()
	if pct <= r.last {
		r.mu.Unlock()
		return
	}
	r.last = pct
	r.mu.Unlock()
	r.fn(pct)
}
