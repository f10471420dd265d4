package repository

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Diego-SJ/PaleteriaChuchin/internal/docstore"
)

// WriteErrorKind classifies record write failures
type WriteErrorKind int

const (
	// WriteErrDuplicateKey means a keyed create found an existing record
	WriteErrDuplicateKey WriteErrorKind = iota + 1
	// WriteErrNotFound means an update targeted a missing record
	WriteErrNotFound
	// WriteErrBackend is any other document store failure
	WriteErrBackend
)

func (k WriteErrorKind) String() string {
	switch k {
	case WriteErrDuplicateKey:
		return "duplicate-key"
	case WriteErrNotFound:
		return "not-found"
	case WriteErrBackend:
		return "backend"
	default:
		return "unknown"
	}
}

// WriteError is a failed record write. Code is the backend code.
type WriteError struct {
	Kind       WriteErrorKind
	Code       string
	Collection string
	Key        string
	Err        error
}

func (e *WriteError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("write %s/%s: %s (%s): %v", e.Collection, e.Key, e.Kind, e.Code, e.Err)
	}
	return fmt.Sprintf("write %s/%s: %s (%s)", e.Collection, e.Key, e.Kind, e.Code)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// IsWriteErrorKind reports whether err is a WriteError of kind k
func IsWriteErrorKind(err error, k WriteErrorKind) bool {
	var we *WriteError
	return errors.As(err, &we) && we.Kind == k
}

// RecordWriter persists records in named collections
type RecordWriter interface {
	// CreateIfAbsent reads key once and writes only if it is absent
	CreateIfAbsent(ctx context.Context, collection, key string, record map[string]any) error
	// CreateUnconditional writes under a backend-generated id
	CreateUnconditional(ctx context.Context, collection string, record map[string]any) (string, error)
	// UpdateByID overwrites the named fields of an existing record
	UpdateByID(ctx context.Context, collection, id string, partial map[string]any) error
}

// recordWriterImpl is the docstore implementation of RecordWriter
type recordWriterImpl struct {
	store  docstore.Store
	logger *zap.Logger
}

// NewRecordWriter creates a new instance of RecordWriter
func NewRecordWriter(store docstore.Store, logger *zap.Logger) RecordWriter {
	return &recordWriterImpl{store: store, logger: logger}
}

func (w *recordWriterImpl) CreateIfAbsent(ctx context.Context, collection, key string, record map[string]any) error {
	doc := w.store.Collection(collection).Doc(key)

	snap, err := doc.Get(ctx)
	if err != nil {
		return w.backendError(collection, key, err)
	}
	if snap.Exists {
		return &WriteError{Kind: WriteErrDuplicateKey, Code: docstore.CodeAlreadyExists, Collection: collection, Key: key}
	}

	if err := doc.Set(ctx, record); err != nil {
		return w.backendError(collection, key, err)
	}
	return nil
}

func (w *recordWriterImpl) CreateUnconditional(ctx context.Context, collection string, record map[string]any) (string, error) {
	id, err := w.store.Collection(collection).Add(ctx, record)
	if err != nil {
		return "", w.backendError(collection, "", err)
	}
	return id, nil
}

func (w *recordWriterImpl) UpdateByID(ctx context.Context, collection, id string, partial map[string]any) error {
	err := w.store.Collection(collection).Doc(id).Update(ctx, partial)
	if err == nil {
		return nil
	}
	if docstore.IsNotFound(err) {
		return &WriteError{Kind: WriteErrNotFound, Code: docstore.CodeNotFound, Collection: collection, Key: id, Err: err}
	}
	return w.backendError(collection, id, err)
}

func (w *recordWriterImpl) backendError(collection, key string, err error) error {
	code := docstore.Code(err)
	w.logger.Warn("Record write failed",
		zap.String("collection", collection),
		zap.String("key", key),
		zap.String("code", code),
		zap.Error(err))
	return &WriteError{Kind: WriteErrBackend, Code: code, Collection: collection, Key: key, Err: err}
}
