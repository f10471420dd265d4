package service

import (
	"context"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/Diego-SJ/PaleteriaChuchin/internal/domain"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/repository"
)

const maxOrphanReason = 500

// OrphanCounter is told about every recorded orphan
type OrphanCounter interface {
	IncrementOrphanAsset()
}

// OrphanLedger stores uploaded objects that no record points to,
// for the cleanup job to delete later
type OrphanLedger struct {
	repo       repository.OrphanAssetRepository
	recordType string
	counter    OrphanCounter
	logger     *zap.Logger
}

// NewOrphanLedger creates a ledger. Without a repository orphans are only logged.
func NewOrphanLedger(repo repository.OrphanAssetRepository, recordType string, counter OrphanCounter, logger *zap.Logger) *OrphanLedger {
	return &OrphanLedger{repo: repo, recordType: recordType, counter: counter, logger: logger}
}

func (l *OrphanLedger) RecordOrphan(ctx context.Context, objectKey string, cause error) {
	reason := ""
	if cause != nil {
		reason = truncateUTF8(cause.Error(), maxOrphanReason)
	}

	if l.counter != nil {
		l.counter.IncrementOrphanAsset()
	}

	if l.repo == nil {
		l.logger.Warn("Orphaned asset left in storage", zap.String("key", objectKey), zap.String("reason", reason))
		return
	}

	asset := &domain.OrphanAsset{RecordType: l.recordType, ObjectKey: objectKey, Reason: reason}
	if err := l.repo.Create(ctx, asset); err != nil {
		l.logger.Error("Failed to record orphaned asset", zap.String("key", objectKey), zap.Error(err))
		return
	}
	l.logger.Info("Recorded orphaned asset", zap.String("key", objectKey), zap.String("reason", reason))
}

// truncateUTF8 cuts s to at most n bytes without splitting a character
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}
