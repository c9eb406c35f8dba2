package blob

import (
	"context"
	"encoding/base64"
	"fmt"
	"io"
	"sync"
)

// Inline keeps no object at all: Put returns a data: URL carrying the
// bytes, which is stored in the record itself. It suits small
// deployments without object storage and the test suites.
type Inline struct {
	mu      sync.Mutex
	deleted []string
}

func NewInline() *Inline {
	return &Inline{}
}

func (s *Inline) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read object %s: %w", key, err)
	}
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	return "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(data), nil
}

func (s *Inline) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleted = append(s.deleted, key)
	return nil
}

// Deleted returns the keys passed to Delete so far
func (s *Inline) Deleted() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.deleted...)
}
