package storage

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// PresignedURL is handed to clients for a direct upload
type PresignedURL struct {
	URL       string    `json:"url"`
	Method    string    `json:"method"`
	Key       string    `json:"key"`
	PublicURL string    `json:"public_url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ObjectStorage is the subset of bucket operations the application uses
type ObjectStorage interface {
	PresignUpload(ctx context.Context, key, contentType string) (PresignedURL, error)
	PresignDownload(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
	PublicURL(key string) string
}

// UploadKind groups uploads by what they are for
type UploadKind string

const (
	UploadPhoto UploadKind = "photos"
	UploadLogo  UploadKind = "logos"
)

var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
}

// UploadKey builds a collision-free key for an image upload and rejects
// content types that are not images we accept.
func UploadKey(kind UploadKind, contentType string) (string, error) {
	ext, ok := allowedImageTypes[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return "", fmt.Errorf("unsupported content type %q", contentType)
	}
	switch kind {
	case UploadPhoto, UploadLogo:
	default:
		return "", fmt.Errorf("unsupported upload kind %q", kind)
	}
	return path.Join("uploads", string(kind), uuid.NewString()+ext), nil
}

// ProofKey is where the print proof PDF of an order is kept
func ProofKey(orderNumber string) string {
	return path.Join("proofs", strings.ToUpper(orderNumber)+".pdf")
}

// MemoryObjectStorage keeps objects in memory. It backs local development
// when storage.enabled is false.
type MemoryObjectStorage struct {
	mu      sync.RWMutex
	objects map[string][]byte
	BaseURL string
}

// NewMemoryObjectStorage creates an empty store
func NewMemoryObjectStorage(baseURL string) *MemoryObjectStorage {
	if baseURL == "" {
		baseURL = "http://localhost:8080/_storage"
	}
	return &MemoryObjectStorage{objects: make(map[string][]byte), BaseURL: strings.TrimRight(baseURL, "/")}
}

func (m *MemoryObjectStorage) PresignUpload(_ context.Context, key, _ string) (PresignedURL, error) {
	if key == "" {
		return PresignedURL{}, ErrEmptyKey
	}
	expiresAt := time.Now().Add(15 * time.Minute)
	return PresignedURL{
		URL:       m.BaseURL + "/" + key + "?expires=" + expiresAt.UTC().Format(time.RFC3339),
		Method:    "PUT",
		Key:       key,
		PublicURL: m.PublicURL(key),
		ExpiresAt: expiresAt,
	}, nil
}

func (m *MemoryObjectStorage) PresignDownload(_ context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrEmptyKey
	}
	return m.PublicURL(key), nil
}

func (m *MemoryObjectStorage) Put(_ context.Context, key string, data []byte, _ string) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = append([]byte(nil), data...)
	return nil
}

func (m *MemoryObjectStorage) Delete(_ context.Context, key string) error {
	if key == "" {
		return ErrEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

func (m *MemoryObjectStorage) Exists(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, ErrEmptyKey
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok, nil
}

func (m *MemoryObjectStorage) PublicURL(key string) string {
	return m.BaseURL + "/" + key
}

// Object returns a stored object, for tests
func (m *MemoryObjectStorage) Object(key string) ([]byte, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	data, ok := m.objects[key]
	return data, ok
}

var _ ObjectStorage = (*MemoryObjectStorage)(nil)
