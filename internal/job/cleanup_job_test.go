package job

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Diego-SJ/PaleteriaChuchin/internal/client"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/domain"
)

// MockOrphanAssetRepository is a mock implementation of OrphanAssetRepository
type MockOrphanAssetRepository struct {
	mock.Mock
}

func (m *MockOrphanAssetRepository) Create(ctx context.Context, asset *domain.OrphanAsset) error {
	args := m.Called(ctx, asset)
	return args.Error(0)
}

func (m *MockOrphanAssetRepository) FindPending(ctx context.Context, limit int) ([]*domain.OrphanAsset, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.OrphanAsset), args.Error(1)
}

func (m *MockOrphanAssetRepository) DeleteBatch(ctx context.Context, ids []uuid.UUID) error {
	args := m.Called(ctx, ids)
	return args.Error(0)
}

func (m *MockOrphanAssetRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func orphan(key string) *domain.OrphanAsset {
	return &domain.OrphanAsset{
		BaseModel:  domain.BaseModel{ID: uuid.New()},
		RecordType: "products",
		ObjectKey:  key,
	}
}

func seeded(t *testing.T, keys ...string) *client.MockS3Client {
	t.Helper()
	objects := client.NewMockS3Client()
	for _, k := range keys {
		_, err := objects.UploadFile(context.Background(), k, strings.NewReader("png"), "image/png")
		require.NoError(t, err)
	}
	return objects
}

func TestCleanupJob_DeletesObjectsThenRows(t *testing.T) {
	a, b := orphan("products/a"), orphan("products/b")
	objects := seeded(t, a.ObjectKey, b.ObjectKey, "products/live")

	repo := new(MockOrphanAssetRepository)
	repo.On("FindPending", mock.Anything, defaultBatchSize).Return([]*domain.OrphanAsset{a, b}, nil)
	repo.On("DeleteBatch", mock.Anything, []uuid.UUID{a.ID, b.ID}).Return(nil)

	result := NewCleanupJob(repo, objects, zap.NewNop()).RunOnce(context.Background())

	assert.Equal(t, CleanupResult{Found: 2, Deleted: 2}, result)
	assert.Equal(t, 1, objects.ObjectCount())
	_, live := objects.Object("products/live")
	assert.True(t, live)
	repo.AssertExpectations(t)
}

func TestCleanupJob_KeepsRowWhenObjectDeleteFails(t *testing.T) {
	a, b := orphan("products/a"), orphan("products/b")
	objects := seeded(t, a.ObjectKey, b.ObjectKey)
	objects.DeleteFileFunc = func(ctx context.Context, key string) error {
		if key == b.ObjectKey {
			return errors.New("access denied")
		}
		return nil
	}

	repo := new(MockOrphanAssetRepository)
	repo.On("FindPending", mock.Anything, defaultBatchSize).Return([]*domain.OrphanAsset{a, b}, nil)
	repo.On("DeleteBatch", mock.Anything, []uuid.UUID{a.ID}).Return(nil)

	result := NewCleanupJob(repo, objects, zap.NewNop()).RunOnce(context.Background())

	assert.Equal(t, CleanupResult{Found: 2, Deleted: 1, Failed: 1}, result)
	repo.AssertExpectations(t)
}

func TestCleanupJob_NothingPending(t *testing.T) {
	repo := new(MockOrphanAssetRepository)
	repo.On("FindPending", mock.Anything, defaultBatchSize).Return([]*domain.OrphanAsset{}, nil)

	result := NewCleanupJob(repo, client.NewMockS3Client(), zap.NewNop()).RunOnce(context.Background())

	assert.Equal(t, CleanupResult{}, result)
	repo.AssertNotCalled(t, "DeleteBatch", mock.Anything, mock.Anything)
}

func TestCleanupJob_LedgerErrors(t *testing.T) {
	t.Run("find fails", func(t *testing.T) {
		repo := new(MockOrphanAssetRepository)
		repo.On("FindPending", mock.Anything, defaultBatchSize).Return(nil, errors.New("db down"))

		result := NewCleanupJob(repo, client.NewMockS3Client(), zap.NewNop()).RunOnce(context.Background())
		assert.Equal(t, CleanupResult{}, result)
	})

	t.Run("row delete fails", func(t *testing.T) {
		a := orphan("products/a")
		objects := seeded(t, a.ObjectKey)
		repo := new(MockOrphanAssetRepository)
		repo.On("FindPending", mock.Anything, defaultBatchSize).Return([]*domain.OrphanAsset{a}, nil)
		repo.On("DeleteBatch", mock.Anything, []uuid.UUID{a.ID}).Return(errors.New("db down"))

		result := NewCleanupJob(repo, objects, zap.NewNop()).RunOnce(context.Background())
		assert.Equal(t, CleanupResult{Found: 1, Failed: 1}, result)
		assert.Equal(t, 0, objects.ObjectCount())
	})
}

func TestScheduler(t *testing.T) {
	s := NewScheduler(zap.NewNop())

	var runs atomic.Int32
	require.NoError(t, s.Add("counter", "@every 1s", cron.FuncJob(func() { runs.Add(1) })))
	assert.Error(t, s.Add("broken", "not a schedule", cron.FuncJob(func() {})))
	assert.Equal(t, 1, s.Entries())

	s.Start()
	assert.Eventually(t, func() bool { return runs.Load() > 0 }, 3*time.Second, 50*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	assert.NoError(t, s.Stop(ctx))
}

func TestScheduler_RecoversPanics(t *testing.T) {
	s := NewScheduler(zap.NewNop())

	var runs atomic.Int32
	require.NoError(t, s.Add("panics", "@every 1s", cron.FuncJob(func() {
		runs.Add(1)
		panic("boom")
	})))

	s.Start()
	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, 4*time.Second, 50*time.Millisecond)
	require.NoError(t, s.Stop(context.Background()))
}
