package service

import (
	"context"
	"net/url"
	"strings"
)

// ImageSigner turns a storage object key into a URL the browser can fetch
type ImageSigner interface {
	PresignURL(ctx context.Context, key string) (string, error)
}

// isStorageKey reports whether image names a bucket object rather than a URL
func isStorageKey(image string) bool {
	if image == "" || strings.HasPrefix(image, "/") {
		return false
	}
	u, err := url.Parse(image)
	return err == nil && u.Scheme == ""
}
