package metrics

import (
	"context"
	"errors"
	"time"
)

// RecordStorageCall records one object storage request
func (m *Metrics) RecordStorageCall(operation string, duration time.Duration, err error) {
	m.safeExecute("RecordStorageCall", func() {
		m.StorageRequestsTotal.WithLabelValues(operation, storageResult(err)).Inc()
		m.StorageRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
	})
}

func storageResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "cancelled"
	default:
		return "error"
	}
}
