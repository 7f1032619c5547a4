package images

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type objectStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	Remove(ctx context.Context, key string) error
	URL(key string) string
}

// S3 uploads images to object storage under posts/<uuid><ext> and hands the
// public object URL to the API.
type S3 struct {
	store objectStore
}

func NewS3(store objectStore) *S3 {
	return &S3{store: store}
}

func (s *S3) Store(ctx context.Context, u Upload) (string, error) {
	key := "posts/" + uuid.NewString() + extension(u)
	if err := s.store.Put(ctx, key, u.ContentType, u.Data); err != nil {
		return "", fmt.Errorf("upload %s: %w", u.Filename, err)
	}
	return s.store.URL(key), nil
}

// Discard removes objects stored for a post the API then refused.
func (s *S3) Discard(ctx context.Context, urls []string) error {
	var firstErr error
	for _, u := range urls {
		key, ok := s.keyOf(u)
		if !ok {
			continue
		}
		if err := s.store.Remove(ctx, key); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

func (s *S3) keyOf(objectURL string) (string, bool) {
	const prefix = "posts/"
	for i := len(objectURL) - len(prefix); i >= 0; i-- {
		if objectURL[i:i+len(prefix)] == prefix && s.store.URL(objectURL[i:]) == objectURL {
			return objectURL[i:], true
		}
	}
	return "", false
}

// Discarder is implemented by sinks whose stored images outlive a failed
// post creation.
type Discarder interface {
	Discard(ctx context.Context, urls []string) error
}
