package model

import (
	"errors"
	"strings"
)

// MediaType distinguishes the two kinds of post attachments.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

// MediaTypeFor classifies a MIME type. ok is false for anything that is
// neither an image nor a video.
func MediaTypeFor(contentType string) (MediaType, bool) {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return MediaImage, true
	case strings.HasPrefix(contentType, "video/"):
		return MediaVideo, true
	default:
		return "", false
	}
}

const (
	MaxAvatarSizeBytes = 5 * 1024 * 1024
	AvatarWidth        = 200
	AvatarHeight       = 200
	AvatarFolder       = "profile-images"
	AvatarExt          = ".jpg"
	AvatarCacheControl = "public, max-age=31536000" // 1 year
)

// Supported image content types for upload validation
const (
	ContentTypeJPEG = "image/jpeg"
	ContentTypePNG  = "image/png"
	ContentTypeGIF  = "image/gif"
	ContentTypeWebP = "image/webp"
)

var allowedImageTypes = map[string]struct{}{
	ContentTypeJPEG: {},
	ContentTypePNG:  {},
	ContentTypeGIF:  {},
	ContentTypeWebP: {},
}

// Domain errors for media operations
var (
	ErrNoFile           = errors.New("no file provided for upload")
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidImageType = errors.New("invalid image type")
	ErrInvalidMediaType = errors.New("media must be an image or a video")
)

// IsAllowedImageType reports if the provided content type is supported
func IsAllowedImageType(contentType string) bool {
	_, ok := allowedImageTypes[contentType]
	return ok
}
