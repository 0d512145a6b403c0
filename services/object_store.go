package services

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/kendall-kelly/modamedidas-api/utils"
)

// ObjectStore persists uploaded binaries under flat keys
type ObjectStore interface {
	// Put stores body under key
	Put(ctx context.Context, key, contentType string, body []byte) error

	// URL returns a link clients can fetch the object from
	URL(ctx context.Context, key string) (string, error)

	// Delete removes the object; a missing object is not an error
	Delete(ctx context.Context, key string) error
}

// LocalStore keeps objects as files in one directory, served by GET /api/v1/uploads/:filename
type LocalStore struct {
	dir string
}

// NewLocalStore creates a store rooted at dir
func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir}
}

func (s *LocalStore) path(key string) (string, error) {
	if key == "" || strings.ContainsAny(key, `/\`) || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid object key %q", key)
	}
	return filepath.Join(s.dir, key), nil
}

// Put writes the object to disk
func (s *LocalStore) Put(ctx context.Context, key, contentType string, body []byte) error {
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}
	if err := os.WriteFile(p, body, 0644); err != nil {
		return fmt.Errorf("failed to save file: %w", err)
	}
	return nil
}

// URL returns the API path serving the file
func (s *LocalStore) URL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	return utils.GetImageURL(key), nil
}

// Delete removes the file
func (s *LocalStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	p, err := s.path(key)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// MockObjectStore is an in-memory ObjectStore for tests
type MockObjectStore struct {
	objects map[string][]byte
	types   map[string]string
	mu      sync.RWMutex
}

// NewMockObjectStore creates an empty in-memory store
func NewMockObjectStore() *MockObjectStore {
	return &MockObjectStore{
		objects: make(map[string][]byte),
		types:   make(map[string]string),
	}
}

// Put records the object
func (m *MockObjectStore) Put(ctx context.Context, key, contentType string, body []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = append([]byte(nil), body...)
	m.types[key] = contentType
	return nil
}

// URL returns a fake bucket URL for a stored object
func (m *MockObjectStore) URL(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", nil
	}
	m.mu.RLock()
	_, exists := m.objects[key]
	m.mu.RUnlock()
	if !exists {
		return "", fmt.Errorf("file not found in mock store: %s", key)
	}
	return fmt.Sprintf("https://test-bucket.s3.us-east-1.amazonaws.com/uploads/%s?mock=true", key), nil
}

// Delete forgets the object
func (m *MockObjectStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	delete(m.types, key)
	return nil
}

// Exists reports whether key is stored (for test assertions)
func (m *MockObjectStore) Exists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok
}

// ContentType returns the type the object was stored with
func (m *MockObjectStore) ContentType(key string) string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.types[key]
}

// Len returns the number of stored objects
func (m *MockObjectStore) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.objects)
}
