package docstore

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is a thread-safe in-process document store.
// Structure: [collection][key]data, plus per-collection insertion order.
type MemoryStore struct {
	mu    sync.RWMutex
	data  map[string]map[string]map[string]any
	order map[string][]string
}

// NewMemoryStore creates an empty store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data:  make(map[string]map[string]map[string]any),
		order: make(map[string][]string),
	}
}

func (m *MemoryStore) Collection(name string) CollectionRef {
	return &memCollection{store: m, name: name}
}

// put must be called with m.mu held for writing
func (m *MemoryStore) put(collection, key string, data map[string]any) {
	if m.data[collection] == nil {
		m.data[collection] = make(map[string]map[string]any)
	}
	if _, ok := m.data[collection][key]; !ok {
		m.order[collection] = append(m.order[collection], key)
	}
	m.data[collection][key] = copyData(data)
}

type memCollection struct {
	store *MemoryStore
	name  string
}

func (c *memCollection) Doc(key string) DocumentRef {
	return &memDocument{store: c.store, collection: c.name, key: key}
}

func (c *memCollection) Add(ctx context.Context, data map[string]any) (string, error) {
	key := uuid.NewString()
	if err := validate("add", c.name, key); err != nil {
		return "", err
	}
	if err := ctxErr("add", ctx); err != nil {
		return "", err
	}

	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	c.store.put(c.name, key, data)
	return key, nil
}

func (c *memCollection) Documents(ctx context.Context) ([]Snapshot, error) {
	if err := ctxErr("list", ctx); err != nil {
		return nil, err
	}

	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	keys := c.store.order[c.name]
	snaps := make([]Snapshot, 0, len(keys))
	for _, key := range keys {
		snaps = append(snaps, Snapshot{ID: key, Exists: true, Data: copyData(c.store.data[c.name][key])})
	}
	return snaps, nil
}

type memDocument struct {
	store      *MemoryStore
	collection string
	key        string
}

func (d *memDocument) ID() string {
	return d.key
}

func (d *memDocument) Get(ctx context.Context) (Snapshot, error) {
	if err := validate("get", d.collection, d.key); err != nil {
		return Snapshot{}, err
	}
	if err := ctxErr("get", ctx); err != nil {
		return Snapshot{}, err
	}

	d.store.mu.RLock()
	defer d.store.mu.RUnlock()

	data, ok := d.store.data[d.collection][d.key]
	if !ok {
		return Snapshot{ID: d.key}, nil
	}
	return Snapshot{ID: d.key, Exists: true, Data: copyData(data)}, nil
}

func (d *memDocument) Set(ctx context.Context, data map[string]any) error {
	if err := validate("set", d.collection, d.key); err != nil {
		return err
	}
	if err := ctxErr("set", ctx); err != nil {
		return err
	}

	d.store.mu.Lock()
	defer d.store.mu.Unlock()
	d.store.put(d.collection, d.key, data)
	return nil
}

func (d *memDocument) Update(ctx context.Context, data map[string]any) error {
	if err := validate("update", d.collection, d.key); err != nil {
		return err
	}
	if err := ctxErr("update", ctx); err != nil {
		return err
	}

	d.store.mu.Lock()
	defer d.store.mu.Unlock()

	current, ok := d.store.data[d.collection][d.key]
	if !ok {
		return &Error{Code: CodeNotFound, Op: "update"}
	}
	for k, v := range data {
		current[k] = v
	}
	return nil
}

func ctxErr(op string, ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return translate(op, err)
	}
	return nil
}
