// Package photo delegates image storage to an external object host.
package photo

import (
	"context"
	"io"
)

// Blob is an uploaded image as it arrives from a multipart form
type Blob struct {
	ContentType string
	Reader      io.Reader
}

// Storage stores a binary blob under a logical folder and returns a durable
// retrieval URL. Delete accepts that URL and removes the underlying object.
type Storage interface {
	Upload(ctx context.Context, folder, contentType string, r io.Reader) (string, error)
	Delete(ctx context.Context, url string) error
}
