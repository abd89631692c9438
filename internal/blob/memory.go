package blob

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/premdoors/qc-tracker/internal/common"
)

// MemoryStore is an in-process Store for tests.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
	bucket  string

	// FailUploads / FailDeletes force failures for error-path tests.
	FailUploads bool
	FailDeletes bool
}

func NewMemoryStore(bucket string) *MemoryStore {
	return &MemoryStore{
		objects: make(map[string][]byte),
		bucket:  bucket,
	}
}

func (s *MemoryStore) Upload(ctx context.Context, path string, data []byte, contentType string) error {
	if s.FailUploads {
		return common.ErrAttachmentStore
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]byte, len(data))
	copy(cp, data)
	s.objects[path] = cp
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, path string) error {
	if s.FailDeletes {
		return common.ErrAttachmentStore
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, path)
	return nil
}

func (s *MemoryStore) PublicURL(path string) string {
	return fmt.Sprintf("https://storage.test/%s/%s", s.bucket, path)
}

func (s *MemoryStore) ParsePath(url string) (string, error) {
	marker := "/" + s.bucket + "/"
	idx := strings.Index(url, marker)
	if idx < 0 {
		return "", fmt.Errorf("%w: url %q is not in bucket %q", common.ErrAttachmentStore, url, s.bucket)
	}
	path := url[idx+len(marker):]
	if path == "" {
		return "", fmt.Errorf("%w: url %q has empty path", common.ErrAttachmentStore, url)
	}
	return path, nil
}

// Get returns the stored bytes for a path, for test assertions.
func (s *MemoryStore) Get(path string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.objects[path]
	return b, ok
}
