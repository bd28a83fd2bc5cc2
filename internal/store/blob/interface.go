// Package blob persists raw photo bytes keyed by opaque strings. It lives in
// its own database file so large binary payloads never share a write path
// with the structured documents.
package blob

import "context"

// Item pairs a key with the bytes to store under it.
type Item struct {
	Key  string
	Data []byte
}

// Repository is pure key→bytes storage. Keys are caller-supplied and must be
// globally unique per logical object; Put on an existing key silently
// replaces it. Get reports absence through its bool, never through an error.
// PutAll stores every item or none: implementations must not leave a partial
// batch behind on failure.
type Repository interface {
	Put(ctx context.Context, key string, data []byte) error
	PutAll(ctx context.Context, items []Item) error
	Get(ctx context.Context, key string) (data []byte, ok bool, err error)
}
