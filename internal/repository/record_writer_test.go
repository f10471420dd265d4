package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Diego-SJ/PaleteriaChuchin/internal/docstore"
)

// spyStore wraps a docstore.Store and counts document calls
type spyStore struct {
	inner  docstore.Store
	gets   int
	sets   int
	adds   int
	updErr error
	getErr error
}

func (s *spyStore) Collection(name string) docstore.CollectionRef {
	return &spyCollection{spy: s, inner: s.inner.Collection(name)}
}

type spyCollection struct {
	spy   *spyStore
	inner docstore.CollectionRef
}

func (c *spyCollection) Doc(key string) docstore.DocumentRef {
	return &spyDocument{spy: c.spy, inner: c.inner.Doc(key)}
}

func (c *spyCollection) Add(ctx context.Context, data map[string]any) (string, error) {
	c.spy.adds++
	return c.inner.Add(ctx, data)
}

func (c *spyCollection) Documents(ctx context.Context) ([]docstore.Snapshot, error) {
	return c.inner.Documents(ctx)
}

type spyDocument struct {
	spy   *spyStore
	inner docstore.DocumentRef
}

func (d *spyDocument) ID() string { return d.inner.ID() }

func (d *spyDocument) Get(ctx context.Context) (docstore.Snapshot, error) {
	d.spy.gets++
	if d.spy.getErr != nil {
		return docstore.Snapshot{}, d.spy.getErr
	}
	return d.inner.Get(ctx)
}

func (d *spyDocument) Set(ctx context.Context, data map[string]any) error {
	d.spy.sets++
	return d.inner.Set(ctx, data)
}

func (d *spyDocument) Update(ctx context.Context, data map[string]any) error {
	if d.spy.updErr != nil {
		return d.spy.updErr
	}
	return d.inner.Update(ctx, data)
}

func newSpy() *spyStore {
	return &spyStore{inner: docstore.NewMemoryStore()}
}

func TestRecordWriter_CreateIfAbsent_WritesOnce(t *testing.T) {
	spy := newSpy()
	w := NewRecordWriter(spy, zap.NewNop())

	err := w.CreateIfAbsent(context.Background(), "Employees", "ana@x.com", map[string]any{"name": "Ana"})

	require.NoError(t, err)
	assert.Equal(t, 1, spy.gets)
	assert.Equal(t, 1, spy.sets)
}

func TestRecordWriter_CreateIfAbsent_DuplicateNeverWrites(t *testing.T) {
	spy := newSpy()
	ctx := context.Background()
	require.NoError(t, spy.inner.Collection("Employees").Doc("ana@x.com").Set(ctx, map[string]any{"name": "Ana"}))
	w := NewRecordWriter(spy, zap.NewNop())

	err := w.CreateIfAbsent(ctx, "Employees", "ana@x.com", map[string]any{"name": "Otra"})

	assert.True(t, IsWriteErrorKind(err, WriteErrDuplicateKey))
	assert.Equal(t, 1, spy.gets)
	assert.Equal(t, 0, spy.sets)

	snap, _ := spy.inner.Collection("Employees").Doc("ana@x.com").Get(ctx)
	assert.Equal(t, "Ana", snap.Data["name"])
}

func TestRecordWriter_CreateIfAbsent_ExistenceCheckFailure(t *testing.T) {
	spy := newSpy()
	spy.getErr = &docstore.Error{Code: docstore.CodeUnavailable, Op: "get"}
	w := NewRecordWriter(spy, zap.NewNop())

	err := w.CreateIfAbsent(context.Background(), "Employees", "ana@x.com", map[string]any{})

	var we *WriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, WriteErrBackend, we.Kind)
	assert.Equal(t, "unavailable", we.Code)
	assert.Equal(t, 0, spy.sets)
}

func TestRecordWriter_CreateUnconditional(t *testing.T) {
	spy := newSpy()
	w := NewRecordWriter(spy, zap.NewNop())
	ctx := context.Background()

	id1, err := w.CreateUnconditional(ctx, "Products", map[string]any{"name": "Paleta"})
	require.NoError(t, err)
	id2, err := w.CreateUnconditional(ctx, "Products", map[string]any{"name": "Paleta"})
	require.NoError(t, err)

	assert.NotEqual(t, id1, id2)
	assert.Equal(t, 2, spy.adds)
	assert.Equal(t, 0, spy.gets)
}

func TestRecordWriter_UpdateByID_NotFound(t *testing.T) {
	w := NewRecordWriter(newSpy(), zap.NewNop())

	err := w.UpdateByID(context.Background(), "Products", "missing", map[string]any{"name": "x"})

	var we *WriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, WriteErrNotFound, we.Kind)
	assert.Equal(t, "not-found", we.Code)
}

func TestRecordWriter_UpdateByID_BackendCodePassesThrough(t *testing.T) {
	spy := newSpy()
	spy.updErr = &docstore.Error{Code: "permission-denied", Op: "update"}
	w := NewRecordWriter(spy, zap.NewNop())

	err := w.UpdateByID(context.Background(), "Products", "p1", map[string]any{})

	var we *WriteError
	require.ErrorAs(t, err, &we)
	assert.Equal(t, WriteErrBackend, we.Kind)
	assert.Equal(t, "permission-denied", we.Code)
}

func TestRecordWriter_UpdateByID_Idempotent(t *testing.T) {
	store := docstore.NewMemoryStore()
	w := NewRecordWriter(store, zap.NewNop())
	ctx := context.Background()

	id, err := w.CreateUnconditional(ctx, "Products", map[string]any{"name": "Paleta", "unit": "u"})
	require.NoError(t, err)

	payload := map[string]any{"name": "Paleta de limón", "retailPrice": "14"}
	require.NoError(t, w.UpdateByID(ctx, "Products", id, payload))
	once, _ := store.Collection("Products").Doc(id).Get(ctx)
	require.NoError(t, w.UpdateByID(ctx, "Products", id, payload))
	twice, _ := store.Collection("Products").Doc(id).Get(ctx)

	assert.Equal(t, once.Data, twice.Data)
	docs, _ := store.Collection("Products").Documents(ctx)
	assert.Len(t, docs, 1)
}

func TestWriteErrorKindString(t *testing.T) {
	assert.Equal(t, "duplicate-key", WriteErrDuplicateKey.String())
	assert.Equal(t, "not-found", WriteErrNotFound.String())
	assert.Equal(t, "backend", WriteErrBackend.String())
	assert.Equal(t, "unknown", WriteErrorKind(0).String())
}
