package client

import (
	"context"
	"io"
	"time"
)

// CallRecorder receives the duration and result of each storage request
type CallRecorder interface {
	RecordStorageCall(operation string, duration time.Duration, err error)
}

// InstrumentedStore times the network calls of another ObjectStore
type InstrumentedStore struct {
	ObjectStore
	recorder CallRecorder
}

// NewInstrumentedStore wraps store so every upload, delete and presign is recorded
func NewInstrumentedStore(store ObjectStore, recorder CallRecorder) *InstrumentedStore {
	return &InstrumentedStore{ObjectStore: store, recorder: recorder}
}

func (s *InstrumentedStore) UploadFile(ctx context.Context, key string, file io.Reader, contentType string) (string, error) {
	start := time.Now()
	url, err := s.ObjectStore.UploadFile(ctx, key, file, contentType)
	s.recorder.RecordStorageCall("upload", time.Since(start), err)
	return url, err
}

func (s *InstrumentedStore) DeleteFile(ctx context.Context, key string) error {
	start := time.Now()
	err := s.ObjectStore.DeleteFile(ctx, key)
	s.recorder.RecordStorageCall("delete", time.Since(start), err)
	return err
}

func (s *InstrumentedStore) GenerateDownloadURL(ctx context.Context, key string) (string, error) {
	start := time.Now()
	url, err := s.ObjectStore.GenerateDownloadURL(ctx, key)
	s.recorder.RecordStorageCall("presign", time.Since(start), err)
	return url, err
}

var _ ObjectStore = (*InstrumentedStore)(nil)
