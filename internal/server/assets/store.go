// Package assets stores binary objects (user avatars) outside the document
// store. S3Store talks to any S3-compatible service; MemoryStore keeps
// objects in process for development and tests.
package assets

import (
	"context"
	"strings"
)

// Store puts and removes objects by key.
type Store interface {
	// Put uploads body under key and returns the URL clients use to fetch it.
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + strings.TrimLeft(key, "/")
}
