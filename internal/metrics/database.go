package metrics

import (
	"database/sql"
	"strings"
	"time"
)

// poolWaits is the last seen snapshot of the pool's cumulative wait counters
type poolWaits struct {
	count    int64
	duration time.Duration
}

// UpdateDBStats sets the pool gauges and advances the wait counters.
// sql.DBStats reports waits as running totals, so only the growth since
// the previous call is added.
func (m *Metrics) UpdateDBStats(statsInterface interface{}) {
	m.safeExecute("UpdateDBStats", func() {
		stats, ok := statsInterface.(sql.DBStats)
		if !ok {
			return
		}
		m.DBConnectionsOpen.Set(float64(stats.OpenConnections))
		m.DBConnectionsInUse.Set(float64(stats.InUse))
		m.DBConnectionsIdle.Set(float64(stats.Idle))
		m.DBConnectionsMax.Set(float64(stats.MaxOpenConnections))

		m.waitsMu.Lock()
		prev := m.lastWaits
		m.lastWaits = poolWaits{count: stats.WaitCount, duration: stats.WaitDuration}
		m.waitsMu.Unlock()

		// a smaller total means a new pool; count it from zero
		if stats.WaitCount < prev.count || stats.WaitDuration < prev.duration {
			prev = poolWaits{}
		}
		if d := stats.WaitCount - prev.count; d > 0 {
			m.DBConnectionWaitTotal.Add(float64(d))
		}
		if d := stats.WaitDuration - prev.duration; d > 0 {
			m.DBConnectionWaitDuration.Add(d.Seconds())
		}
	})
}

// RecordDBQuery observes one gorm statement; failed statements are also counted as errors
func (m *Metrics) RecordDBQuery(operation, table string, duration time.Duration, err error) {
	m.safeExecute("RecordDBQuery", func() {
		operation = strings.ToLower(operation)
		m.DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
		if err != nil {
			m.DBQueryErrors.WithLabelValues(operation, table).Inc()
		}
	})
}
