package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Diego-SJ/PaleteriaChuchin/internal/client"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/docstore"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/domain"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/dto"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/form"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/repository"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/response"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/storage"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/workflow"
)

const (
	MsgProductCreated = "Producto registrado correctamente."
	MsgProductUpdated = "Producto actualizado correctamente."
)

// ProductService defines the interface for product business logic
type ProductService interface {
	ListProducts(ctx context.Context) ([]dto.ProductResponse, error)
	GetProduct(ctx context.Context, id string) (*dto.ProductResponse, error)
	ImageURL(ctx context.Context, id string) (string, error)
	CreateProduct(ctx context.Context, meta SubmitMeta, req dto.ProductRequest, image *storage.AssetUploadTask) (*SubmissionResult, error)
	UpdateProduct(ctx context.Context, meta SubmitMeta, id string, req dto.ProductRequest, image *storage.AssetUploadTask) (*SubmissionResult, error)
}

// productServiceImpl is the implementation of ProductService
type productServiceImpl struct {
	submitter
	store    docstore.Store
	writer   repository.RecordWriter
	uploader storage.Uploader
	objects  client.ObjectStore
	now      func() time.Time
}

// ProductServiceDeps groups the collaborators of the product service
type ProductServiceDeps struct {
	Store        docstore.Store
	Writer       repository.RecordWriter
	Uploader     storage.Uploader
	Objects      client.ObjectStore
	Orchestrator *workflow.Orchestrator
	Guard        InFlightGuard
	Sinks        SinkFactory
	Listeners    []ChangeListener
	Logger       *zap.Logger
}

// NewProductService creates a new instance of ProductService
func NewProductService(deps ProductServiceDeps) ProductService {
	return &productServiceImpl{
		submitter: submitter{
			orchestrator: deps.Orchestrator,
			guard:        deps.Guard,
			sinks:        deps.Sinks,
			listeners:    deps.Listeners,
			logger:       deps.Logger,
		},
		store:    deps.Store,
		writer:   deps.Writer,
		uploader: deps.Uploader,
		objects:  deps.Objects,
		now:      time.Now,
	}
}

func (s *productServiceImpl) ListProducts(ctx context.Context) ([]dto.ProductResponse, error) {
	snaps, err := s.store.Collection(domain.CollectionProducts).Documents(ctx)
	if err != nil {
		s.logger.Error("Failed to list products", zap.Error(err))
		return nil, response.NewAppError(response.ErrCodeBackend, "Failed to list products", docstore.Code(err))
	}

	products := make([]dto.ProductResponse, 0, len(snaps))
	for _, snap := range snaps {
		record := domain.ProductFromDocument(snap.ID, snap.Data)
		products = append(products, dto.NewProductResponse(record, s.downloadURL(ctx, record.ImageAssetID)))
	}
	return products, nil
}

func (s *productServiceImpl) GetProduct(ctx context.Context, id string) (*dto.ProductResponse, error) {
	record, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewProductResponse(record, s.downloadURL(ctx, record.ImageAssetID))
	return &resp, nil
}

func (s *productServiceImpl) ImageURL(ctx context.Context, id string) (string, error) {
	record, err := s.load(ctx, id)
	if err != nil {
		return "", err
	}
	if record.ImageAssetID == "" {
		return "", response.NewNotFoundError("Product has no image", id)
	}
	key, err := s.uploader.ObjectKey(record.ImageAssetID)
	if err != nil {
		return "", response.NewAppError(response.ErrCodeInternal, "Invalid image reference", err.Error())
	}
	url, err := s.objects.GenerateDownloadURL(ctx, key)
	if err != nil {
		return "", response.NewAppError(response.ErrCodeUploadFailed, "Failed to sign image URL", err.Error())
	}
	return url, nil
}

func (s *productServiceImpl) CreateProduct(ctx context.Context, meta SubmitMeta, req dto.ProductRequest, image *storage.AssetUploadTask) (*SubmissionResult, error) {
	f := form.NewProductForm()
	applyProductRequest(f, req, image)

	var written domain.ProductRecord
	sub := s.productSubmission(f)
	sub.Write = func(ctx context.Context) error {
		f.Set(func(v *form.ProductValues) {
			v.CreatedAt = s.now().UTC()
			v.CreatedBy = meta.DisplayName
		})
		record := f.ToRecord()
		id, err := s.writer.CreateUnconditional(ctx, domain.CollectionProducts, record.Document())
		if err != nil {
			return err
		}
		record.ID = id
		written = record
		return nil
	}
	sub.ResetOnSuccess = true
	sub.SuccessMessage = MsgProductCreated
	sub.UpdateData = func() { s.changed(ctx, domain.CollectionProducts, written.ID) }

	return s.finish(ctx, meta, sub, &written)
}

func (s *productServiceImpl) UpdateProduct(ctx context.Context, meta SubmitMeta, id string, req dto.ProductRequest, image *storage.AssetUploadTask) (*SubmissionResult, error) {
	existing, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	f := form.EditProductForm(existing)
	applyProductRequest(f, req, image)

	var written domain.ProductRecord
	sub := s.productSubmission(f)
	sub.Write = func(ctx context.Context) error {
		if err := s.writer.UpdateByID(ctx, domain.CollectionProducts, id, f.UpdateDocument()); err != nil {
			return err
		}
		written = f.ToRecord()
		return nil
	}
	if existing.ImageAssetID != "" {
		if key, err := s.uploader.ObjectKey(existing.ImageAssetID); err == nil {
			sub.Supersedes = key
		}
	}
	sub.CloseOnSuccess = true
	sub.SetShowModal = func(bool) {}
	sub.SuccessMessage = MsgProductUpdated
	sub.UpdateData = func() { s.changed(ctx, domain.CollectionProducts, id) }

	return s.finish(ctx, meta, sub, &written)
}

// productSubmission holds the steps shared by create and update
func (s *productServiceImpl) productSubmission(f *form.ProductForm) workflow.Submission {
	return workflow.Submission{
		Name:     "product",
		Form:     f,
		Validate: f.Validate,
		Precheck: func() string {
			if f.PendingAsset() == nil {
				return form.MsgMissingImage
			}
			return ""
		},
		Upload: func(ctx context.Context) (string, error) {
			task := f.PendingAsset()
			key, err := s.uploader.Upload(ctx, task)
			if err != nil {
				return "", err
			}
			f.Set(func(v *form.ProductValues) { v.ImageAssetID = task.GeneratedID })
			return key, nil
		},
	}
}

func (s *productServiceImpl) finish(ctx context.Context, meta SubmitMeta, sub workflow.Submission, written *domain.ProductRecord) (*SubmissionResult, error) {
	result, err := s.run(ctx, meta, sub)
	if err != nil {
		return nil, err
	}
	if result.Outcome.State == workflow.Succeeded {
		result.Data = dto.NewProductResponse(*written, "")
	}
	return result, nil
}

func (s *productServiceImpl) load(ctx context.Context, id string) (domain.ProductRecord, error) {
	snap, err := s.store.Collection(domain.CollectionProducts).Doc(id).Get(ctx)
	if err != nil {
		if docstore.Code(err) == docstore.CodeInvalidArgument {
			return domain.ProductRecord{}, response.NewValidationError("Invalid product id", id)
		}
		return domain.ProductRecord{}, response.NewAppError(response.ErrCodeBackend, "Failed to load product", docstore.Code(err))
	}
	if !snap.Exists {
		return domain.ProductRecord{}, response.NewNotFoundError("Product not found", id)
	}
	return domain.ProductFromDocument(snap.ID, snap.Data), nil
}

func (s *productServiceImpl) downloadURL(ctx context.Context, assetID string) string {
	if assetID == "" {
		return ""
	}
	key, err := s.uploader.ObjectKey(assetID)
	if err != nil {
		return ""
	}
	url, err := s.objects.GenerateDownloadURL(ctx, key)
	if err != nil {
		s.logger.Warn("Failed to sign product image URL", zap.String("key", key), zap.Error(err))
		return ""
	}
	return url
}

func applyProductRequest(f *form.ProductForm, req dto.ProductRequest, image *storage.AssetUploadTask) {
	f.Set(func(v *form.ProductValues) {
		v.Name = req.Name
		v.WholesalePrice = req.WholesalePrice
		v.RetailPrice = req.RetailPrice
		v.Unit = req.Unit
	})
	if image != nil {
		f.AttachAsset(image)
	}
}
