package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/Diego-SJ/PaleteriaChuchin/internal/domain"
)

func setupOrphanTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	// Create orphan_assets table for SQLite compatibility
	db.Exec(`CREATE TABLE orphan_assets (
		id TEXT PRIMARY KEY,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		deleted_at DATETIME,
		record_type TEXT NOT NULL,
		object_key TEXT NOT NULL UNIQUE,
		reason TEXT
	)`)

	return db
}

func TestOrphanAssetRepository_CreateIsIdempotentPerKey(t *testing.T) {
	db := setupOrphanTestDB(t)
	repo := NewOrphanAssetRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &domain.OrphanAsset{RecordType: "products", ObjectKey: "products/a", Reason: "Error: unavailable"}))
	require.NoError(t, repo.Create(ctx, &domain.OrphanAsset{RecordType: "products", ObjectKey: "products/a", Reason: "again"}))

	n, err := repo.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)
}

func TestOrphanAssetRepository_FindPendingOldestFirst(t *testing.T) {
	db := setupOrphanTestDB(t)
	repo := NewOrphanAssetRepository(db)
	ctx := context.Background()

	now := time.Now()
	older := &domain.OrphanAsset{
		BaseModel:  domain.BaseModel{ID: uuid.New(), CreatedAt: now.Add(-2 * time.Hour), UpdatedAt: now},
		RecordType: "products",
		ObjectKey:  "products/old",
	}
	newer := &domain.OrphanAsset{
		BaseModel:  domain.BaseModel{ID: uuid.New(), CreatedAt: now.Add(-time.Minute), UpdatedAt: now},
		RecordType: "products",
		ObjectKey:  "products/new",
	}
	require.NoError(t, repo.Create(ctx, newer))
	require.NoError(t, repo.Create(ctx, older))

	all, err := repo.FindPending(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "products/old", all[0].ObjectKey)

	limited, err := repo.FindPending(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestOrphanAssetRepository_DeleteBatch(t *testing.T) {
	db := setupOrphanTestDB(t)
	repo := NewOrphanAssetRepository(db)
	ctx := context.Background()

	a := &domain.OrphanAsset{RecordType: "products", ObjectKey: "products/a"}
	b := &domain.OrphanAsset{RecordType: "products", ObjectKey: "products/b"}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))
	assert.NotEqual(t, uuid.Nil, a.ID)

	require.NoError(t, repo.DeleteBatch(ctx, []uuid.UUID{a.ID}))
	require.NoError(t, repo.DeleteBatch(ctx, nil))

	remaining, err := repo.FindPending(ctx, 0)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "products/b", remaining[0].ObjectKey)
}
