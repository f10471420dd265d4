package client

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"
)

// MockS3Client implements ObjectStore in memory, for tests and local runs without S3
type MockS3Client struct {
	Bucket   string
	Region   string
	Endpoint string

	// Optional function overrides for custom test behavior
	AssetKeyFunc            func(recordType, assetID string) (string, error)
	GenerateDownloadURLFunc func(ctx context.Context, key string) (string, error)
	UploadFileFunc          func(ctx context.Context, key string, file io.Reader, contentType string) (string, error)
	DeleteFileFunc          func(ctx context.Context, key string) error
	GetFileURLFunc          func(key string) string

	mu      sync.Mutex
	objects map[string][]byte
}

// NewMockS3Client creates a new mock S3 client
func NewMockS3Client() *MockS3Client {
	return &MockS3Client{
		Bucket:  "test-bucket",
		Region:  "us-east-1",
		objects: make(map[string][]byte),
	}
}

// AssetKey returns the object key of an asset
func (m *MockS3Client) AssetKey(recordType, assetID string) (string, error) {
	if m.AssetKeyFunc != nil {
		return m.AssetKeyFunc(recordType, assetID)
	}
	return assetKey(recordType, assetID)
}

// GenerateDownloadURL returns a fake presigned URL
func (m *MockS3Client) GenerateDownloadURL(ctx context.Context, key string) (string, error) {
	if m.GenerateDownloadURLFunc != nil {
		return m.GenerateDownloadURLFunc(ctx, key)
	}
	if key == "" {
		return "", fmt.Errorf("object key is required")
	}
	return fmt.Sprintf("%s?X-Amz-Algorithm=AWS4-HMAC-SHA256&X-Amz-Date=%s&X-Amz-Expires=%d&X-Amz-Signature=mocksignature123",
		m.GetFileURL(key),
		time.Now().UTC().Format("20060102T150405Z"),
		int(DownloadURLTTL.Seconds()),
	), nil
}

// UploadFile stores the object body in memory
func (m *MockS3Client) UploadFile(ctx context.Context, key string, file io.Reader, contentType string) (string, error) {
	if m.UploadFileFunc != nil {
		return m.UploadFileFunc(ctx, key, file, contentType)
	}

	body, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read upload body: %w", err)
	}
	m.mu.Lock()
	if m.objects == nil {
		m.objects = make(map[string][]byte)
	}
	m.objects[key] = body
	m.mu.Unlock()
	return m.GetFileURL(key), nil
}

// DeleteFile removes the object from memory
func (m *MockS3Client) DeleteFile(ctx context.Context, key string) error {
	if m.DeleteFileFunc != nil {
		return m.DeleteFileFunc(ctx, key)
	}

	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

// GetFileURL returns the public URL for a file
func (m *MockS3Client) GetFileURL(key string) string {
	if m.GetFileURLFunc != nil {
		return m.GetFileURLFunc(key)
	}
	if m.Endpoint != "" && !strings.Contains(m.Endpoint, "amazonaws.com") {
		return fmt.Sprintf("%s/%s/%s", m.Endpoint, m.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", m.Bucket, m.Region, key)
}

// Object returns a stored object body
func (m *MockS3Client) Object(key string) ([]byte, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	body, ok := m.objects[key]
	return body, ok
}

// ObjectCount returns the number of stored objects
func (m *MockS3Client) ObjectCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}

var _ ObjectStore = (*MockS3Client)(nil)
var _ ObjectStore = (*S3Client)(nil)
