// Package objectstore abstracts the file storage collaborator that holds
// uploaded identity documents. Keys are namespaced under a per-user prefix by
// callers; the store itself is path-agnostic.
package objectstore

import (
	"context"
	"io"
)

// Store persists opaque objects and resolves their public URLs.
type Store interface {
	// Upload writes the object at key, overwriting any previous version.
	Upload(ctx context.Context, key, contentType string, body io.Reader) error
	// PublicURL returns the publicly resolvable URL for key. It does not
	// verify the object exists.
	PublicURL(key string) string
}
