// Package docstore is a small document database contract: named
// collections of schemaless documents addressed by key.
package docstore

import (
	"context"
	"errors"
	"fmt"
)

// Error codes reported by document store backends
const (
	CodeNotFound         = "not-found"
	CodeAlreadyExists    = "already-exists"
	CodeInvalidArgument  = "invalid-argument"
	CodeUnavailable      = "unavailable"
	CodeDeadlineExceeded = "deadline-exceeded"
	CodeCancelled        = "cancelled"
	CodeInternal         = "internal"
)

// Error is a backend failure carrying a stable code
type Error struct {
	Code string
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("docstore %s: %s: %v", e.Op, e.Code, e.Err)
	}
	return fmt.Sprintf("docstore %s: %s", e.Op, e.Code)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Code returns the docstore code of err, or CodeInternal for foreign errors
func Code(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// IsNotFound reports whether err is a not-found docstore error
func IsNotFound(err error) bool {
	var de *Error
	return errors.As(err, &de) && de.Code == CodeNotFound
}

// Snapshot is the state of one document at read time
type Snapshot struct {
	ID     string
	Exists bool
	Data   map[string]any
}

// Store gives access to collections
type Store interface {
	Collection(name string) CollectionRef
}

// CollectionRef addresses a collection
type CollectionRef interface {
	Doc(key string) DocumentRef
	// Add stores data under a generated key and returns it
	Add(ctx context.Context, data map[string]any) (string, error)
	// Documents returns every document in creation order
	Documents(ctx context.Context) ([]Snapshot, error)
}

// DocumentRef addresses one document
type DocumentRef interface {
	ID() string
	// Get never fails for a missing document; the snapshot reports Exists=false
	Get(ctx context.Context) (Snapshot, error)
	// Set creates or replaces the document
	Set(ctx context.Context, data map[string]any) error
	// Update overwrites the named fields of an existing document
	Update(ctx context.Context, data map[string]any) error
}

func copyData(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = v
	}
	return out
}

func validate(op, collection, key string) error {
	if collection == "" {
		return &Error{Code: CodeInvalidArgument, Op: op, Err: errors.New("empty collection name")}
	}
	if key == "" {
		return &Error{Code: CodeInvalidArgument, Op: op, Err: errors.New("empty document key")}
	}
	return nil
}
