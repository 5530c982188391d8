package document

import (
	"strings"

	"github.com/google/uuid"
)

// UploadTokenPrefix marks image targets that are placeholders for images
// whose final address is not known yet.
const UploadTokenPrefix = "upload-img-"

// NewUploadID mints a fresh upload token of the form upload-img-<uuid>.
func NewUploadID() string {
	return UploadTokenPrefix + uuid.NewString()
}

// NormalizeImageTarget strips a single leading "./" or "/" from an image
// target. Markdown renderers commonly prefix relative targets that way.
func NormalizeImageTarget(target string) string {
	target = strings.TrimSpace(target)
	if strings.HasPrefix(target, "./") {
		return target[2:]
	}
	return strings.TrimPrefix(target, "/")
}

// IsUploadToken reports whether target, once normalized, is an upload token.
func IsUploadToken(target string) bool {
	normalized := NormalizeImageTarget(target)
	return len(normalized) > len(UploadTokenPrefix) && strings.HasPrefix(normalized, UploadTokenPrefix)
}
