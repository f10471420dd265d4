package docstore

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Diego-SJ/PaleteriaChuchin/internal/domain"
)

// GormStore keeps documents as JSON rows of the documents table
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a store on db. A nil db yields unavailable errors.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Collection(name string) CollectionRef {
	return &gormCollection{store: s, name: name}
}

type gormCollection struct {
	store *GormStore
	name  string
}

func (c *gormCollection) Doc(key string) DocumentRef {
	return &gormDocument{store: c.store, collection: c.name, key: key}
}

func (c *gormCollection) Add(ctx context.Context, data map[string]any) (string, error) {
	key := uuid.NewString()
	if err := validate("add", c.name, key); err != nil {
		return "", err
	}
	db, err := c.store.conn(ctx, "add")
	if err != nil {
		return "", err
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return "", &Error{Code: CodeInvalidArgument, Op: "add", Err: err}
	}
	doc := domain.Document{Collection: c.name, Key: key, Data: raw}
	if err := db.Create(&doc).Error; err != nil {
		return "", translate("add", err)
	}
	return key, nil
}

func (c *gormCollection) Documents(ctx context.Context) ([]Snapshot, error) {
	if c.name == "" {
		return nil, &Error{Code: CodeInvalidArgument, Op: "list", Err: errors.New("empty collection name")}
	}
	db, err := c.store.conn(ctx, "list")
	if err != nil {
		return nil, err
	}

	var rows []domain.Document
	if err := db.Where("collection = ?", c.name).Order("created_at ASC").Order("doc_key ASC").Find(&rows).Error; err != nil {
		return nil, translate("list", err)
	}

	snaps := make([]Snapshot, 0, len(rows))
	for _, row := range rows {
		data, err := decode(row.Data)
		if err != nil {
			return nil, &Error{Code: CodeInternal, Op: "list", Err: err}
		}
		snaps = append(snaps, Snapshot{ID: row.Key, Exists: true, Data: data})
	}
	return snaps, nil
}

type gormDocument struct {
	store      *GormStore
	collection string
	key        string
}

func (d *gormDocument) ID() string {
	return d.key
}

func (d *gormDocument) Get(ctx context.Context) (Snapshot, error) {
	if err := validate("get", d.collection, d.key); err != nil {
		return Snapshot{}, err
	}
	db, err := d.store.conn(ctx, "get")
	if err != nil {
		return Snapshot{}, err
	}

	var row domain.Document
	err = db.Where("collection = ? AND doc_key = ?", d.collection, d.key).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return Snapshot{ID: d.key}, nil
	}
	if err != nil {
		return Snapshot{}, translate("get", err)
	}

	data, err := decode(row.Data)
	if err != nil {
		return Snapshot{}, &Error{Code: CodeInternal, Op: "get", Err: err}
	}
	return Snapshot{ID: d.key, Exists: true, Data: data}, nil
}

func (d *gormDocument) Set(ctx context.Context, data map[string]any) error {
	if err := validate("set", d.collection, d.key); err != nil {
		return err
	}
	db, err := d.store.conn(ctx, "set")
	if err != nil {
		return err
	}

	raw, err := json.Marshal(data)
	if err != nil {
		return &Error{Code: CodeInvalidArgument, Op: "set", Err: err}
	}
	row := domain.Document{Collection: d.collection, Key: d.key, Data: raw}
	err = db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}, {Name: "doc_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"data", "updated_at"}),
	}).Create(&row).Error
	return translate("set", err)
}

func (d *gormDocument) Update(ctx context.Context, data map[string]any) error {
	if err := validate("update", d.collection, d.key); err != nil {
		return err
	}
	db, err := d.store.conn(ctx, "update")
	if err != nil {
		return err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var row domain.Document
		err := tx.Where("collection = ? AND doc_key = ?", d.collection, d.key).First(&row).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &Error{Code: CodeNotFound, Op: "update"}
		}
		if err != nil {
			return err
		}

		current, err := decode(row.Data)
		if err != nil {
			return err
		}
		for k, v := range data {
			current[k] = v
		}
		raw, err := json.Marshal(current)
		if err != nil {
			return &Error{Code: CodeInvalidArgument, Op: "update", Err: err}
		}
		return tx.Model(&domain.Document{}).
			Where("collection = ? AND doc_key = ?", d.collection, d.key).
			Update("data", datatypes.JSON(raw)).Error
	})
	return translate("update", err)
}

func (s *GormStore) conn(ctx context.Context, op string) (*gorm.DB, error) {
	if s.db == nil {
		return nil, &Error{Code: CodeUnavailable, Op: op, Err: errors.New("database not connected")}
	}
	return s.db.WithContext(ctx), nil
}

func decode(raw []byte) (map[string]any, error) {
	data := map[string]any{}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, err
	}
	return data, nil
}

func translate(op string, err error) error {
	if err == nil {
		return nil
	}
	var de *Error
	if errors.As(err, &de) {
		return de
	}
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return &Error{Code: CodeDeadlineExceeded, Op: op, Err: err}
	case errors.Is(err, context.Canceled):
		return &Error{Code: CodeCancelled, Op: op, Err: err}
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &Error{Code: CodeAlreadyExists, Op: op, Err: err}
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &Error{Code: CodeNotFound, Op: op, Err: err}
	default:
		return &Error{Code: CodeInternal, Op: op, Err: err}
	}
}
