package database

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Diego-SJ/PaleteriaChuchin/internal/domain"
)

// modelInfo holds information about a domain model and its table name
type modelInfo struct {
	model     interface{}
	tableName string
}

var models = []modelInfo{
	{&domain.Document{}, "documents"},
	{&domain.OrphanAsset{}, "orphan_assets"},
}

// AutoMigrate creates or updates the documents and orphan_assets tables
func AutoMigrate(db *gorm.DB, logger *zap.Logger) error {
	migrator := db.Migrator()

	for _, m := range models {
		existed := migrator.HasTable(m.model)
		if err := db.AutoMigrate(m.model); err != nil {
			logger.Error("Failed to migrate table",
				zap.String("table", m.tableName),
				zap.Bool("table_existed", existed),
				zap.Error(err),
			)
			return fmt.Errorf("failed to migrate table %s: %w", m.tableName, err)
		}
		logger.Info("Migrated table",
			zap.String("table", m.tableName),
			zap.Bool("was_existing", existed),
		)
	}
	return nil
}
