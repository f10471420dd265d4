// Package storage uploads record assets to object storage.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Diego-SJ/PaleteriaChuchin/internal/client"
)

// AssetUploadTask is one binary payload waiting to be uploaded
type AssetUploadTask struct {
	GeneratedID string
	Payload     []byte
	ContentType string
}

// NewAssetUploadTask wraps payload under a fresh identifier.
// The content type is sniffed when empty.
func NewAssetUploadTask(payload []byte, contentType string) *AssetUploadTask {
	if contentType == "" {
		contentType = http.DetectContentType(payload)
	}
	return &AssetUploadTask{
		GeneratedID: uuid.New().String(),
		Payload:     payload,
		ContentType: contentType,
	}
}

// UploadError is any failure to store an asset
type UploadError struct {
	Key string
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.Key, e.Err)
}

func (e *UploadError) Unwrap() error {
	return e.Err
}

// UploadObserver is notified of each upload outcome
type UploadObserver interface {
	IncrementAssetUpload(status string)
}

// Uploader stores assets for records of one type
type Uploader interface {
	Upload(ctx context.Context, task *AssetUploadTask) (string, error)
	ObjectKey(assetID string) (string, error)
}

// AssetUploader writes to "{recordType}/{generatedId}" in a single attempt
type AssetUploader struct {
	store      client.ObjectStore
	recordType string
	observer   UploadObserver
	logger     *zap.Logger
}

// NewAssetUploader creates an uploader for recordType (e.g. "products")
func NewAssetUploader(store client.ObjectStore, recordType string, observer UploadObserver, logger *zap.Logger) *AssetUploader {
	return &AssetUploader{
		store:      store,
		recordType: recordType,
		observer:   observer,
		logger:     logger,
	}
}

// ObjectKey returns where an asset of this uploader's record type lives
func (u *AssetUploader) ObjectKey(assetID string) (string, error) {
	return u.store.AssetKey(u.recordType, assetID)
}

// Upload stores task.Payload and returns its object key
func (u *AssetUploader) Upload(ctx context.Context, task *AssetUploadTask) (string, error) {
	if task == nil || len(task.Payload) == 0 {
		u.observe("failure")
		return "", &UploadError{Err: fmt.Errorf("empty asset payload")}
	}

	key, err := u.ObjectKey(task.GeneratedID)
	if err != nil {
		u.observe("failure")
		return "", &UploadError{Err: err}
	}

	if _, err := u.store.UploadFile(ctx, key, bytes.NewReader(task.Payload), task.ContentType); err != nil {
		u.logger.Warn("Asset upload failed",
			zap.String("key", key),
			zap.Int("size", len(task.Payload)),
			zap.Error(err))
		u.observe("failure")
		return "", &UploadError{Key: key, Err: err}
	}

	u.logger.Debug("Asset uploaded", zap.String("key", key), zap.Int("size", len(task.Payload)))
	u.observe("success")
	return key, nil
}

func (u *AssetUploader) observe(status string) {
	if u.observer != nil {
		u.observer.IncrementAssetUpload(status)
	}
}
