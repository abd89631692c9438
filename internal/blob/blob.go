// Package blob abstracts the binary store holding inspection photos,
// addressed by path within a single bucket.
package blob

import "context"

// Store is the binary-store contract: upload-by-path, delete-by-path and a
// publicly dereferenceable URL per path.
type Store interface {
	Upload(ctx context.Context, path string, data []byte, contentType string) error
	Delete(ctx context.Context, path string) error

	// PublicURL derives the public URL for a stored path.
	PublicURL(path string) string

	// ParsePath inverts PublicURL. URLs that do not point into this store's
	// bucket are an explicit error, never a silent skip.
	ParsePath(url string) (string, error)
}
