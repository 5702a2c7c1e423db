package upload

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"

	"skillshare/internal/model"
)

// PrepareProfileImage enforces the avatar size and type limits and
// normalizes the image to a 200x200 JPEG.
func PrepareProfileImage(f File) (File, error) {
	data, err := readAndValidateImage(f, model.MaxAvatarSizeBytes)
	if err != nil {
		return File{}, err
	}

	jpegBytes, err := resizeToJPEG(data, model.AvatarWidth, model.AvatarHeight, 85)
	if err != nil {
		return File{}, err
	}

	name := strings.TrimSuffix(filepath.Base(f.Name), filepath.Ext(f.Name)) + model.AvatarExt
	return File{
		Name:         name,
		ContentType:  model.ContentTypeJPEG,
		CacheControl: model.AvatarCacheControl,
		Size:         int64(len(jpegBytes)),
		Body:         bytes.NewReader(jpegBytes),
	}, nil
}

// readAndValidateImage loads the file into memory with size and type checks.
func readAndValidateImage(f File, maxSize int64) ([]byte, error) {
	if f.Body == nil {
		return nil, model.ErrNoFile
	}
	if f.Size > maxSize {
		return nil, model.ErrFileTooLarge
	}

	data, err := io.ReadAll(io.LimitReader(f.Body, maxSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	if int64(len(data)) > maxSize {
		return nil, model.ErrFileTooLarge
	}

	contentType := f.ContentType
	if contentType == "" && len(data) > 0 {
		contentType = http.DetectContentType(data[:min(len(data), 512)])
	}
	if idx := strings.Index(contentType, ";"); idx != -1 {
		contentType = strings.TrimSpace(contentType[:idx])
	}
	if !model.IsAllowedImageType(contentType) {
		return nil, model.ErrInvalidImageType
	}
	return data, nil
}

// resizeToJPEG centers/crops to target size and encodes as JPEG.
func resizeToJPEG(data []byte, width, height, quality int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	resized := imaging.Fill(img, width, height, imaging.Center, imaging.Lanczos)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, resized, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}
