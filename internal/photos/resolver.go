// Package photos turns stored photo keys into transient display handles.
// A handle is a temp file on local disk; the resolver caches handles for the
// life of the process so repeated displays never re-read the blob store, and
// releases the backing files on request.
package photos

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"

	"github.com/fieldlog/fieldlog/internal/filex"
	"github.com/fieldlog/fieldlog/internal/logging"
	"github.com/fieldlog/fieldlog/internal/store/blob"
)

// Handle is a resolved, displayable reference to a stored photo. A zero Path
// is the placeholder for a missing blob.
type Handle struct {
	Key  string
	Path string
}

// Placeholder reports whether the handle points at nothing.
func (h Handle) Placeholder() bool { return h.Path == "" }

// Resolver materializes photo keys into temp files under its directory.
type Resolver struct {
	blobs blob.Repository
	dir   string
	cache *gocache.Cache
	log   logging.Logger
}

// NewResolver creates a Resolver writing handles under dir.
func NewResolver(blobs blob.Repository, dir string, log logging.Logger) (*Resolver, error) {
	abs, err := filex.EnsureDir(dir)
	if err != nil {
		return nil, fmt.Errorf("resolver dir: %w", err)
	}

	return &Resolver{
		blobs: blobs,
		dir:   abs,
		cache: gocache.New(gocache.NoExpiration, 0),
		log:   log,
	}, nil
}

// Resolve returns a display handle for key. Cache hits return the previously
// materialized handle; a missing blob resolves to a placeholder, never an
// error.
func (r *Resolver) Resolve(ctx context.Context, key string) (Handle, error) {
	if cached, ok := r.cache.Get(key); ok {
		r.log.Debug(ctx, "handle cache hit", "key", key)
		return cached.(Handle), nil
	}

	data, ok, err := r.blobs.Get(ctx, key)
	if err != nil {
		return Handle{}, err
	}
	if !ok {
		r.log.Warn(ctx, "photo blob missing", "key", key)
		return Handle{Key: key}, nil
	}

	path := filepath.Join(r.dir, uuid.NewString())
	if err := os.WriteFile(path, data, 0o660); err != nil {
		return Handle{}, fmt.Errorf("write handle for %s: %w", key, err)
	}

	h := Handle{Key: key, Path: path}
	r.cache.Set(key, h, gocache.NoExpiration)
	return h, nil
}

// ResolveThumbnail is Resolve with the image downscaled to fit maxDim on its
// longer side. Bytes that do not decode as an image fall back to the
// original blob. Thumbnails are cached independently of the full handle.
func (r *Resolver) ResolveThumbnail(ctx context.Context, key string, maxDim int) (Handle, error) {
	cacheKey := thumbKey(key, maxDim)
	if cached, ok := r.cache.Get(cacheKey); ok {
		r.log.Debug(ctx, "thumbnail cache hit", "key", key, "maxDim", maxDim)
		return cached.(Handle), nil
	}

	data, ok, err := r.blobs.Get(ctx, key)
	if err != nil {
		return Handle{}, err
	}
	if !ok {
		r.log.Warn(ctx, "photo blob missing", "key", key)
		return Handle{Key: key}, nil
	}

	path := filepath.Join(r.dir, uuid.NewString()+".jpg")

	img, decErr := imaging.Decode(bytes.NewReader(data))
	if decErr != nil {
		// not an image we can decode; hand back the raw bytes
		if err := os.WriteFile(path, data, 0o660); err != nil {
			return Handle{}, fmt.Errorf("write handle for %s: %w", key, err)
		}
	} else {
		thumb := imaging.Fit(img, maxDim, maxDim, imaging.Lanczos)
		if err := imaging.Save(thumb, path); err != nil {
			return Handle{}, fmt.Errorf("save thumbnail for %s: %w", key, err)
		}
	}

	h := Handle{Key: key, Path: path}
	r.cache.Set(cacheKey, h, gocache.NoExpiration)
	return h, nil
}

// Release drops the handle for key (and its thumbnails) and removes the
// backing files. Releasing a key that was never resolved is a no-op.
func (r *Resolver) Release(key string) {
	for cacheKey, item := range r.cache.Items() {
		if cacheKey != key && !strings.HasPrefix(cacheKey, key+"#") {
			continue
		}
		if h, ok := item.Object.(Handle); ok && h.Path != "" {
			_ = os.Remove(h.Path)
		}
		r.cache.Delete(cacheKey)
	}
}

// Close releases every cached handle.
func (r *Resolver) Close() {
	for cacheKey, item := range r.cache.Items() {
		if h, ok := item.Object.(Handle); ok && h.Path != "" {
			_ = os.Remove(h.Path)
		}
		r.cache.Delete(cacheKey)
	}
}

func thumbKey(key string, maxDim int) string {
	return fmt.Sprintf("%s#%d", key, maxDim)
}
