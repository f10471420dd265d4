package database

import (
	"time"

	"gorm.io/gorm"
)

// MetricsRecorder is an interface for recording database metrics
type MetricsRecorder interface {
	RecordDBQuery(operation, table string, duration time.Duration, err error)
	UpdateDBStats(stats interface{})
}

const startTimeKey = "metrics:start_time"

// RegisterMetricsCallbacks times every create, query, update and delete
func RegisterMetricsCallbacks(db *gorm.DB, recorder MetricsRecorder) {
	before := func(tx *gorm.DB) {
		tx.InstanceSet(startTimeKey, time.Now())
	}
	after := func(operation string) func(*gorm.DB) {
		return func(tx *gorm.DB) {
			startTime, ok := tx.InstanceGet(startTimeKey)
			if !ok {
				return
			}
			table := tx.Statement.Table
			if table == "" {
				table = "unknown"
			}
			recorder.RecordDBQuery(operation, table, time.Since(startTime.(time.Time)), tx.Error)
		}
	}

	db.Callback().Query().Before("gorm:query").Register("metrics:query_before", before)
	db.Callback().Query().After("gorm:query").Register("metrics:query_after", after("select"))
	db.Callback().Create().Before("gorm:create").Register("metrics:create_before", before)
	db.Callback().Create().After("gorm:create").Register("metrics:create_after", after("insert"))
	db.Callback().Update().Before("gorm:update").Register("metrics:update_before", before)
	db.Callback().Update().After("gorm:update").Register("metrics:update_after", after("update"))
	db.Callback().Delete().Before("gorm:delete").Register("metrics:delete_before", before)
	db.Callback().Delete().After("gorm:delete").Register("metrics:delete_after", after("delete"))
}

// StartDBStatsCollector reports pool stats every interval until done is closed
func StartDBStatsCollector(db *gorm.DB, recorder MetricsRecorder, interval time.Duration) chan struct{} {
	done := make(chan struct{})

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					continue
				}
				stats := sqlDB.Stats()
				recorder.UpdateDBStats(stats)
			case <-done:
				return
			}
		}
	}()

	return done
}
