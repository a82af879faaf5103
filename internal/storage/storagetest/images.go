// Package storagetest provides an in-memory image store for tests.
package storagetest

import (
	"context"
	"fmt"
	"sync"

	"github.com/spec-kit/blog-service/internal/storage"
)

// Images is an in-memory storage.ImageStore recording every upload and
// delete. Err, when set, fails every Upload.
type Images struct {
	mu       sync.Mutex
	seq      int
	Uploaded []string
	Deleted  []string
	Err      error
}

func (s *Images) Upload(_ context.Context, folder string, img storage.Image) (string, error) {
	if s.Err != nil {
		return "", s.Err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	url := fmt.Sprintf("https://cdn.test/%s/%d.%s", folder, s.seq, storage.Extension(img.Filename))
	s.Uploaded = append(s.Uploaded, url)
	return url, nil
}

func (s *Images) Delete(_ context.Context, url string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Deleted = append(s.Deleted, url)
	return nil
}

var _ storage.ImageStore = (*Images)(nil)
