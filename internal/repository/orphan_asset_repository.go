package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Diego-SJ/PaleteriaChuchin/internal/domain"
)

// OrphanAssetRepository defines the interface for the orphaned asset ledger
type OrphanAssetRepository interface {
	Create(ctx context.Context, asset *domain.OrphanAsset) error
	FindPending(ctx context.Context, limit int) ([]*domain.OrphanAsset, error)
	DeleteBatch(ctx context.Context, ids []uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

// orphanAssetRepositoryImpl is the GORM implementation of OrphanAssetRepository
type orphanAssetRepositoryImpl struct {
	db *gorm.DB
}

// NewOrphanAssetRepository creates a new instance of OrphanAssetRepository
func NewOrphanAssetRepository(db *gorm.DB) OrphanAssetRepository {
	return &orphanAssetRepositoryImpl{db: db}
}

// Create records an orphan; recording the same object key twice is a no-op
func (r *orphanAssetRepositoryImpl) Create(ctx context.Context, asset *domain.OrphanAsset) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "object_key"}}, DoNothing: true}).
		Create(asset).Error
}

// FindPending returns the oldest orphans first
func (r *orphanAssetRepositoryImpl) FindPending(ctx context.Context, limit int) ([]*domain.OrphanAsset, error) {
	var assets []*domain.OrphanAsset
	q := r.db.WithContext(ctx).Order("created_at ASC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&assets).Error; err != nil {
		return nil, err
	}
	return assets, nil
}

// DeleteBatch removes ledger rows by ID
func (r *orphanAssetRepositoryImpl) DeleteBatch(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&domain.OrphanAsset{}).Error
}

// Count returns the number of orphans awaiting cleanup
func (r *orphanAssetRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&domain.OrphanAsset{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
