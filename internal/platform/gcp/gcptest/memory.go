// Package gcptest provides an in-memory BucketService for tests.
package gcptest

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/foundrr/foundrr-backend/internal/platform/gcp"
)

type MemoryBucket struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string

	// UploadErrs are returned by successive uploads before they succeed.
	UploadErrs []error
	Uploads    int
	Deletes    int
}

var _ gcp.BucketService = (*MemoryBucket)(nil)

func NewMemoryBucket() *MemoryBucket {
	return &MemoryBucket{objects: map[string][]byte{}, types: map[string]string{}}
}

func (b *MemoryBucket) UploadObject(ctx context.Context, key string, body io.Reader, contentType string) error {
	return b.put(key, body, contentType, false)
}

func (b *MemoryBucket) CreateObject(ctx context.Context, key string, body io.Reader, contentType string) error {
	return b.put(key, body, contentType, true)
}

func (b *MemoryBucket) put(key string, body io.Reader, contentType string, mustNotExist bool) error {
	raw, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Uploads++
	if len(b.UploadErrs) > 0 {
		err := b.UploadErrs[0]
		b.UploadErrs = b.UploadErrs[1:]
		if err != nil {
			return err
		}
	}
	if _, ok := b.objects[key]; ok && mustNotExist {
		return fmt.Errorf("%w: %s", gcp.ErrObjectExists, key)
	}
	b.objects[key] = raw
	b.types[key] = contentType
	return nil
}

func (b *MemoryBucket) DeleteObject(ctx context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.Deletes++
	delete(b.objects, key)
	delete(b.types, key)
	return nil
}

func (b *MemoryBucket) DownloadObject(ctx context.Context, key string) (io.ReadCloser, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	raw, ok := b.objects[key]
	if !ok {
		return nil, gcp.ErrObjectNotFound
	}
	return io.NopCloser(bytes.NewReader(append([]byte(nil), raw...))), nil
}

func (b *MemoryBucket) ObjectExists(ctx context.Context, key string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	_, ok := b.objects[key]
	return ok, nil
}

func (b *MemoryBucket) PublicURL(key string) string { return "memory://" + key }

func (b *MemoryBucket) Close() error { return nil }

// Object returns a stored body and its content type.
func (b *MemoryBucket) Object(key string) (string, string, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	raw, ok := b.objects[key]
	return string(raw), b.types[key], ok
}

func (b *MemoryBucket) Put(key, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.objects[key] = []byte(body)
	b.types[key] = "text/html; charset=utf-8"
}
