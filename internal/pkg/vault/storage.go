package vault

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/FelixBrandt/PressPass/internal/pkg/env"
)

// Backend streams article content for a locator.
type Backend interface {
	Open(ctx context.Context, loc Locator) (io.ReadCloser, int64, error)
}

// Store dispatches locators to their configured backend.
type Store struct {
	local Backend
	s3    Backend
}

// NewStore wires the available backends. The s3 backend may be nil when no
// bucket is configured; locators pointing at it then fail to open.
func NewStore(local, s3 Backend) *Store {
	return &Store{local: local, s3: s3}
}

// NewStoreFromEnv builds the store from environment configuration.
func NewStoreFromEnv() *Store {
	local := NewLocalBackend(env.GetEnv("ARTICLE_ROOT", "./articles"))
	var s3 Backend
	if env.GetEnv("S3_BUCKET_NAME", "") != "" {
		backend, err := NewS3BackendFromEnv()
		if err == nil {
			s3 = backend
		}
	}
	return NewStore(local, s3)
}

// Open streams the content behind a locator.
func (s *Store) Open(ctx context.Context, loc Locator) (io.ReadCloser, int64, error) {
	switch loc.Backend {
	case "", "local":
		return s.local.Open(ctx, loc)
	case "s3":
		if s.s3 == nil {
			return nil, 0, fmt.Errorf("s3 backend not configured")
		}
		return s.s3.Open(ctx, loc)
	default:
		return nil, 0, fmt.Errorf("unknown storage backend %q", loc.Backend)
	}
}

// LocalBackend serves articles from a directory on disk. Locator paths are
// registry-controlled configuration, not caller input.
type LocalBackend struct {
	root string
}

// NewLocalBackend creates a filesystem backend rooted at the given directory.
func NewLocalBackend(root string) *LocalBackend {
	return &LocalBackend{root: root}
}

func (b *LocalBackend) Open(_ context.Context, loc Locator) (io.ReadCloser, int64, error) {
	fullPath := filepath.Join(b.root, filepath.Clean("/"+loc.Path))
	f, err := os.Open(fullPath)
	if err != nil {
		return nil, 0, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, 0, err
	}
	return f, info.Size(), nil
}
