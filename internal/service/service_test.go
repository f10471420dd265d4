package service

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Diego-SJ/PaleteriaChuchin/internal/client"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/docstore"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/domain"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/dto"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/form"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/notify"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/repository"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/response"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/storage"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/workflow"
)

// MockOrphanAssetRepository is a func-field mock of OrphanAssetRepository
type MockOrphanAssetRepository struct {
	mu      sync.Mutex
	created []*domain.OrphanAsset

	CreateFunc func(ctx context.Context, asset *domain.OrphanAsset) error
}

func (m *MockOrphanAssetRepository) Create(ctx context.Context, asset *domain.OrphanAsset) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, asset)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, asset)
	return nil
}

func (m *MockOrphanAssetRepository) FindPending(context.Context, int) ([]*domain.OrphanAsset, error) {
	return nil, nil
}

func (m *MockOrphanAssetRepository) DeleteBatch(context.Context, []uuid.UUID) error { return nil }

func (m *MockOrphanAssetRepository) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.created)), nil
}

type changeSpy struct {
	mu      sync.Mutex
	changes []string
}

func (c *changeSpy) listen(_ context.Context, collection, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.changes = append(c.changes, collection+"/"+key)
}

type fixture struct {
	store     *docstore.MemoryStore
	objects   *client.MockS3Client
	orphans   *MockOrphanAssetRepository
	guard     *MemoryGuard
	changes   *changeSpy
	products  ProductService
	employees EmployeeService
	realtime  *notify.Recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	logger := zap.NewNop()

	fx := &fixture{
		store:    docstore.NewMemoryStore(),
		objects:  client.NewMockS3Client(),
		orphans:  &MockOrphanAssetRepository{},
		guard:    NewMemoryGuard(),
		changes:  &changeSpy{},
		realtime: notify.NewRecorder(),
	}
	writer := repository.NewRecordWriter(fx.store, logger)
	orchestrator := workflow.New(NewOrphanLedger(fx.orphans, "products", nil, logger), nil, logger)
	sinks := func(string) notify.Sink { return fx.realtime }

	fx.products = NewProductService(ProductServiceDeps{
		Store:        fx.store,
		Writer:       writer,
		Uploader:     storage.NewAssetUploader(fx.objects, "products", nil, logger),
		Objects:      fx.objects,
		Orchestrator: orchestrator,
		Guard:        fx.guard,
		Sinks:        sinks,
		Listeners:    []ChangeListener{fx.changes.listen},
		Logger:       logger,
	})
	fx.employees = NewEmployeeService(EmployeeServiceDeps{
		Store:        fx.store,
		Writer:       writer,
		Orchestrator: orchestrator,
		Guard:        fx.guard,
		Sinks:        sinks,
		Listeners:    []ChangeListener{fx.changes.listen},
		Logger:       logger,
	})
	return fx
}

var admin = SubmitMeta{UserID: "u-admin", Email: "admin@chuchin.mx", DisplayName: "Chuchin"}

func mangoRequest() dto.ProductRequest {
	return dto.ProductRequest{Name: "Paleta de mango", WholesalePrice: "12.50", RetailPrice: "18", Unit: "pzs"}
}

func pngTask() *storage.AssetUploadTask {
	return storage.NewAssetUploadTask([]byte("\x89PNG\r\n\x1a\nfake"), "")
}

func TestCreateProduct_Succeeds(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	image := pngTask()

	result, err := fx.products.CreateProduct(ctx, admin, mangoRequest(), image)
	require.NoError(t, err)

	assert.Equal(t, workflow.Succeeded, result.Outcome.State)
	assert.Equal(t, "products/"+image.GeneratedID, result.Outcome.AssetKey)
	assert.Equal(t, []notify.Notification{{Level: notify.LevelSuccess, Message: MsgProductCreated}}, result.Notifications)
	assert.Equal(t, result.Notifications, fx.realtime.Notifications())

	created, ok := result.Data.(dto.ProductResponse)
	require.True(t, ok)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, image.GeneratedID, created.ImageAssetID)
	assert.Equal(t, "Chuchin", created.CreatedBy)

	payload, ok := fx.objects.Object("products/" + image.GeneratedID)
	require.True(t, ok)
	assert.Equal(t, image.Payload, payload)

	stored, err := fx.products.GetProduct(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Paleta de mango", stored.Name)
	assert.Contains(t, stored.ImageURL, "X-Amz-Expires=900")

	assert.Equal(t, []string{"Products/" + created.ID}, fx.changes.changes)
}

func TestCreateProduct_MissingImageIsRejected(t *testing.T) {
	fx := newFixture(t)

	result, err := fx.products.CreateProduct(context.Background(), admin, mangoRequest(), nil)
	require.NoError(t, err)

	assert.Equal(t, workflow.Rejected, result.Outcome.State)
	assert.Equal(t, form.MsgMissingImage, result.Outcome.Message)
	assert.Equal(t, []notify.Notification{{Level: notify.LevelError, Message: form.MsgMissingImage}}, result.Notifications)
	assert.Equal(t, 0, fx.objects.ObjectCount())
	assert.Nil(t, result.Data)
}

func TestCreateProduct_EmptyFieldsAreFlagged(t *testing.T) {
	fx := newFixture(t)

	result, err := fx.products.CreateProduct(context.Background(), admin, dto.ProductRequest{Name: "Mango"}, pngTask())
	require.NoError(t, err)

	assert.Equal(t, workflow.Rejected, result.Outcome.State)
	assert.Equal(t, map[string]bool{"wholesalePrice": true, "retailPrice": true, "unit": true}, result.Outcome.Errors)
	assert.Empty(t, result.Notifications)
	assert.Equal(t, 0, fx.objects.ObjectCount())
}

func TestCreateProduct_UploadFailure(t *testing.T) {
	fx := newFixture(t)
	fx.objects.UploadFileFunc = func(context.Context, string, io.Reader, string) (string, error) {
		return "", errors.New("bucket unreachable")
	}

	result, err := fx.products.CreateProduct(context.Background(), admin, mangoRequest(), pngTask())
	require.NoError(t, err)

	assert.Equal(t, workflow.Failed, result.Outcome.State)
	assert.Equal(t, workflow.MsgUploadFailed, result.Outcome.Message)
	var uploadErr *storage.UploadError
	assert.ErrorAs(t, result.Outcome.Err, &uploadErr)

	docs, err := fx.store.Collection(domain.CollectionProducts).Documents(context.Background())
	require.NoError(t, err)
	assert.Empty(t, docs)
	assert.Empty(t, fx.changes.changes)
}

func TestUpdateProduct(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	created, err := fx.products.CreateProduct(ctx, admin, mangoRequest(), pngTask())
	require.NoError(t, err)
	original := created.Data.(dto.ProductResponse)

	req := mangoRequest()
	req.RetailPrice = "20"
	editor := SubmitMeta{UserID: "u-ana", DisplayName: "Ana"}
	newImage := pngTask()

	result, err := fx.products.UpdateProduct(ctx, editor, original.ID, req, newImage)
	require.NoError(t, err)
	assert.Equal(t, workflow.Succeeded, result.Outcome.State)
	assert.True(t, result.Outcome.Closed)
	assert.Equal(t, MsgProductUpdated, result.Outcome.Message)

	stored, err := fx.products.GetProduct(ctx, original.ID)
	require.NoError(t, err)
	assert.Equal(t, "20", stored.RetailPrice)
	assert.Equal(t, newImage.GeneratedID, stored.ImageAssetID)
	assert.Equal(t, "Chuchin", stored.CreatedBy, "edits keep the creator")
	assert.True(t, original.CreatedAt.Equal(stored.CreatedAt))
}

func TestUpdateProduct_RecordsReplacedImage(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	firstImage := pngTask()
	created, err := fx.products.CreateProduct(ctx, admin, mangoRequest(), firstImage)
	require.NoError(t, err)
	require.Empty(t, fx.orphans.created)

	id := created.Data.(dto.ProductResponse).ID
	result, err := fx.products.UpdateProduct(ctx, admin, id, mangoRequest(), pngTask())
	require.NoError(t, err)
	require.Equal(t, workflow.Succeeded, result.Outcome.State)

	require.Len(t, fx.orphans.created, 1)
	assert.Equal(t, "products/"+firstImage.GeneratedID, fx.orphans.created[0].ObjectKey)
	assert.Equal(t, workflow.ErrSuperseded.Error(), fx.orphans.created[0].Reason)
	assert.Equal(t, 2, fx.objects.ObjectCount(), "the old object stays until cleanup")
}

func TestUpdateProduct_Unknown(t *testing.T) {
	fx := newFixture(t)

	_, err := fx.products.UpdateProduct(context.Background(), admin, "missing", mangoRequest(), pngTask())
	var appErr *response.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, response.ErrCodeNotFound, appErr.Code)
	assert.Equal(t, 0, fx.objects.ObjectCount())
}

func TestCreateProduct_WriteFailureRecordsOrphan(t *testing.T) {
	fx := newFixture(t)
	logger := zap.NewNop()
	failing := &failingWriter{err: &repository.WriteError{Kind: repository.WriteErrBackend, Code: docstore.CodeUnavailable}}
	products := NewProductService(ProductServiceDeps{
		Store:        fx.store,
		Writer:       failing,
		Uploader:     storage.NewAssetUploader(fx.objects, "products", nil, logger),
		Objects:      fx.objects,
		Orchestrator: workflow.New(NewOrphanLedger(fx.orphans, "products", nil, logger), nil, logger),
		Logger:       logger,
	})
	image := pngTask()

	result, err := products.CreateProduct(context.Background(), admin, mangoRequest(), image)
	require.NoError(t, err)

	assert.Equal(t, workflow.Failed, result.Outcome.State)
	assert.Equal(t, "Error: unavailable", result.Outcome.Message)
	require.Len(t, fx.orphans.created, 1)
	assert.Equal(t, "products/"+image.GeneratedID, fx.orphans.created[0].ObjectKey)
	assert.Equal(t, "products", fx.orphans.created[0].RecordType)
}

type failingWriter struct {
	err error
}

func (f *failingWriter) CreateIfAbsent(context.Context, string, string, map[string]any) error {
	return f.err
}

func (f *failingWriter) CreateUnconditional(context.Context, string, map[string]any) (string, error) {
	return "", f.err
}

func (f *failingWriter) UpdateByID(context.Context, string, string, map[string]any) error {
	return f.err
}

func TestProductImageURL(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	created, err := fx.products.CreateProduct(ctx, admin, mangoRequest(), pngTask())
	require.NoError(t, err)
	id := created.Data.(dto.ProductResponse).ID

	url, err := fx.products.ImageURL(ctx, id)
	require.NoError(t, err)
	assert.Contains(t, url, "/products/")

	_, err = fx.products.ImageURL(ctx, "missing")
	assert.Error(t, err)
}

func TestListProducts(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	for _, name := range []string{"Mango", "Fresa"} {
		req := mangoRequest()
		req.Name = name
		_, err := fx.products.CreateProduct(ctx, admin, req, pngTask())
		require.NoError(t, err)
	}

	products, err := fx.products.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 2)
	assert.Equal(t, "Mango", products[0].Name)
	assert.Equal(t, "Fresa", products[1].Name)
	for _, p := range products {
		assert.NotEmpty(t, p.ImageURL)
	}
}

func anaRequest() dto.EmployeeRequest {
	return dto.EmployeeRequest{
		Name:            "Ana",
		LastName:        "Lopez",
		Username:        "ana1",
		Email:           "ana@x.com",
		Role:            string(domain.RoleSales),
		PermissionSales: true,
	}
}

func TestCreateEmployee_Succeeds(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	result, err := fx.employees.CreateEmployee(ctx, admin, anaRequest())
	require.NoError(t, err)

	assert.Equal(t, workflow.Succeeded, result.Outcome.State)
	assert.Equal(t, []notify.Notification{{Level: notify.LevelSuccess, Message: MsgEmployeeCreated}}, result.Notifications)

	stored, err := fx.employees.GetEmployee(ctx, "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, "ana1", stored.Username)
	assert.True(t, stored.Permissions.Sales)
	assert.Equal(t, []string{"Employees/ana@x.com"}, fx.changes.changes)
}

func TestCreateEmployee_Duplicate(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	_, err := fx.employees.CreateEmployee(ctx, admin, anaRequest())
	require.NoError(t, err)

	again := anaRequest()
	again.Name = "Otra Ana"
	result, err := fx.employees.CreateEmployee(ctx, admin, again)
	require.NoError(t, err)

	assert.Equal(t, workflow.Failed, result.Outcome.State)
	assert.Equal(t, MsgEmployeeDuplicate, result.Outcome.Message)
	assert.True(t, repository.IsWriteErrorKind(result.Outcome.Err, repository.WriteErrDuplicateKey))

	stored, err := fx.employees.GetEmployee(ctx, "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Ana", stored.Name, "duplicate must not overwrite")
}

func TestCreateEmployee_InvalidEmail(t *testing.T) {
	fx := newFixture(t)
	req := anaRequest()
	req.Email = "a@b"
	req.Username = "   "

	result, err := fx.employees.CreateEmployee(context.Background(), admin, req)
	require.NoError(t, err)

	assert.Equal(t, workflow.Rejected, result.Outcome.State)
	assert.Equal(t, map[string]bool{"email": true, "username": true}, result.Outcome.Errors)
}

func TestUpdateEmployee(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	require.NoError(t, fx.store.Collection(domain.CollectionEmployees).Doc("ana@x.com").Set(ctx, domain.EmployeeRecord{
		Name: "Ana", LastName: "Lopez", Username: "ana1", Email: "ana@x.com", Role: domain.RoleSales, UserID: "uid-ana",
	}.Document()))

	req := anaRequest()
	req.Role = string(domain.RoleSalesAndProduction)
	req.PermissionProducts = true

	result, err := fx.employees.UpdateEmployee(ctx, admin, "ana@x.com", req)
	require.NoError(t, err)
	assert.Equal(t, workflow.Succeeded, result.Outcome.State)
	assert.True(t, result.Outcome.Closed)

	stored, err := fx.employees.GetEmployee(ctx, "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, string(domain.RoleSalesAndProduction), stored.Role)
	assert.True(t, stored.Permissions.Products)
	assert.Equal(t, "uid-ana", stored.UserID, "edits keep the linked account")
}

func TestListEmployees(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()
	_, err := fx.employees.CreateEmployee(ctx, admin, anaRequest())
	require.NoError(t, err)

	employees, err := fx.employees.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, employees, 1)
	assert.Equal(t, "ana@x.com", employees[0].ID)
}

func TestSubmission_InFlightInstance(t *testing.T) {
	fx := newFixture(t)
	ctx := context.Background()

	token, acquired, err := fx.guard.Acquire(ctx, "employee:tab-1")
	require.NoError(t, err)
	require.True(t, acquired)

	meta := admin
	meta.InstanceID = "tab-1"
	_, err = fx.employees.CreateEmployee(ctx, meta, anaRequest())
	assert.ErrorIs(t, err, workflow.ErrSubmissionInFlight)

	fx.guard.Release(ctx, "employee:tab-1", token)
	result, err := fx.employees.CreateEmployee(ctx, meta, anaRequest())
	require.NoError(t, err)
	assert.Equal(t, workflow.Succeeded, result.Outcome.State)

	_, again, err := fx.guard.Acquire(ctx, "employee:tab-1")
	require.NoError(t, err)
	assert.True(t, again, "the guard is released after the submission")
}

func TestSubmission_GuardFailureFailsOpen(t *testing.T) {
	fx := newFixture(t)
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer rdb.Close()

	logger := zap.NewNop()
	employees := NewEmployeeService(EmployeeServiceDeps{
		Store:        fx.store,
		Writer:       repository.NewRecordWriter(fx.store, logger),
		Orchestrator: workflow.New(nil, nil, logger),
		Guard:        NewRedisGuard(rdb, time.Minute, logger),
		Logger:       logger,
	})

	meta := admin
	meta.InstanceID = "tab-9"
	result, err := employees.CreateEmployee(context.Background(), meta, anaRequest())
	require.NoError(t, err)
	assert.Equal(t, workflow.Succeeded, result.Outcome.State)
}

func TestMemoryGuard(t *testing.T) {
	g := NewMemoryGuard()
	ctx := context.Background()

	token, ok, _ := g.Acquire(ctx, "k")
	assert.True(t, ok)
	_, ok, _ = g.Acquire(ctx, "k")
	assert.False(t, ok)
	g.Release(ctx, "k", token)
	_, ok, _ = g.Acquire(ctx, "k")
	assert.True(t, ok)
}

func TestMemoryGuard_StaleReleaseKeepsNewHolder(t *testing.T) {
	g := NewMemoryGuard()
	ctx := context.Background()

	stale, ok, _ := g.Acquire(ctx, "k")
	require.True(t, ok)
	g.Release(ctx, "k", stale)

	current, ok, _ := g.Acquire(ctx, "k")
	require.True(t, ok)
	require.NotEqual(t, stale, current)

	// a late release from the first holder must not free the key
	g.Release(ctx, "k", stale)
	_, ok, _ = g.Acquire(ctx, "k")
	assert.False(t, ok)

	g.Release(ctx, "k", current)
	_, ok, _ = g.Acquire(ctx, "k")
	assert.True(t, ok)
}

func TestRedisGuard_ReleaseFailureIsLogged(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	defer rdb.Close()
	core, logs := observer.New(zap.WarnLevel)
	g := NewRedisGuard(rdb, time.Minute, zap.New(core))

	g.Release(context.Background(), "product:tab-1", "token")

	entries := logs.FilterMessage("Failed to release in-flight guard").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "product:tab-1", entries[0].ContextMap()["key"])

	g.Release(context.Background(), "product:tab-1", "")
	assert.Equal(t, 1, logs.Len(), "releasing without a token is a no-op")
}

func TestOrphanLedger(t *testing.T) {
	repo := &MockOrphanAssetRepository{}
	counter := &orphanCounter{}
	ledger := NewOrphanLedger(repo, "products", counter, zap.NewNop())

	long := make([]byte, 2*maxOrphanReason)
	for i := range long {
		long[i] = 'x'
	}
	ledger.RecordOrphan(context.Background(), "products/a", errors.New(string(long)))

	require.Len(t, repo.created, 1)
	assert.Len(t, repo.created[0].Reason, maxOrphanReason)
	assert.Equal(t, 1, counter.n)

	t.Run("keeps multi-byte reasons valid", func(t *testing.T) {
		repo := &MockOrphanAssetRepository{}
		ledger := NewOrphanLedger(repo, "products", nil, zap.NewNop())

		reason := "x" + strings.Repeat("ñ", maxOrphanReason)
		ledger.RecordOrphan(context.Background(), "products/c", errors.New(reason))

		require.Len(t, repo.created, 1)
		stored := repo.created[0].Reason
		assert.True(t, utf8.ValidString(stored))
		assert.Len(t, stored, maxOrphanReason-1)
		assert.True(t, strings.HasPrefix(reason, stored))
	})

	t.Run("without repository", func(t *testing.T) {
		assert.NotPanics(t, func() {
			NewOrphanLedger(nil, "products", nil, zap.NewNop()).RecordOrphan(context.Background(), "products/b", nil)
		})
	})
}

type orphanCounter struct{ n int }

func (c *orphanCounter) IncrementOrphanAsset() { c.n++ }
