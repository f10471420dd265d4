package form

import (
	"sync"
	"time"

	"github.com/Diego-SJ/PaleteriaChuchin/internal/domain"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/storage"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/validation"
)

// MsgMissingImage is shown when a product is submitted without an image
const MsgMissingImage = "Debes agregar una imágen."

// ProductValues are the editable fields of the product form
type ProductValues struct {
	Name           string    `json:"name"`
	WholesalePrice string    `json:"wholesalePrice"`
	RetailPrice    string    `json:"retailPrice"`
	Unit           string    `json:"unit"`
	ImageAssetID   string    `json:"imageAssetId"`
	CreatedAt      time.Time `json:"createdAt"`
	CreatedBy      string    `json:"createdBy"`
}

var productRules = []validation.Rule{
	{Field: "name", Kind: validation.Required},
	{Field: "wholesalePrice", Kind: validation.Required},
	{Field: "retailPrice", Kind: validation.Required},
	{Field: "unit", Kind: validation.Selection},
}

// Record returns the fields checked by the validator
func (v ProductValues) Record() validation.Record {
	return validation.Record{
		"name":           v.Name,
		"wholesalePrice": v.WholesalePrice,
		"retailPrice":    v.RetailPrice,
		"unit":           v.Unit,
	}
}

// ProductForm is the product create/edit form
type ProductForm struct {
	*State[ProductValues]
	existingID string

	assetMu sync.Mutex
	asset   *storage.AssetUploadTask
}

// NewProductForm creates an empty form for a new product
func NewProductForm() *ProductForm {
	return &ProductForm{State: NewState(ProductValues{})}
}

// EditProductForm creates a form seeded from an existing product.
// The stored image is not carried over; a new one must be attached.
func EditProductForm(existing domain.ProductRecord) *ProductForm {
	f := NewProductForm()
	f.existingID = existing.ID
	f.Seed(ProductValues{
		Name:           existing.Name,
		WholesalePrice: existing.WholesalePrice,
		RetailPrice:    existing.RetailPrice,
		Unit:           existing.Unit,
		CreatedAt:      existing.CreatedAt,
		CreatedBy:      existing.CreatedBy,
	})
	return f
}

// ExistingID is the id of the product being edited, empty for creation
func (f *ProductForm) ExistingID() string {
	return f.existingID
}

// AttachAsset sets the pending image
func (f *ProductForm) AttachAsset(task *storage.AssetUploadTask) {
	f.assetMu.Lock()
	defer f.assetMu.Unlock()
	f.asset = task
}

// PendingAsset returns the attached image, or nil
func (f *ProductForm) PendingAsset() *storage.AssetUploadTask {
	f.assetMu.Lock()
	defer f.assetMu.Unlock()
	return f.asset
}

// Reset clears values, errors and the pending image
func (f *ProductForm) Reset() {
	f.State.Reset()
	f.AttachAsset(nil)
}

// Validate checks the current values
func (f *ProductForm) Validate() validation.Result {
	return validation.Validate(f.Values().Record(), productRules)
}

// ToRecord builds the record to persist from the current values
func (f *ProductForm) ToRecord() domain.ProductRecord {
	v := f.Values()
	return domain.ProductRecord{
		ID:             f.existingID,
		Name:           v.Name,
		WholesalePrice: v.WholesalePrice,
		RetailPrice:    v.RetailPrice,
		Unit:           v.Unit,
		ImageAssetID:   v.ImageAssetID,
		CreatedAt:      v.CreatedAt,
		CreatedBy:      v.CreatedBy,
	}
}

// UpdateDocument returns the fields an edit overwrites.
// Creation metadata is left as stored.
func (f *ProductForm) UpdateDocument() map[string]any {
	doc := f.ToRecord().Document()
	delete(doc, "createdAt")
	delete(doc, "createdBy")
	return doc
}

// UnitOptions lists the selectable units
func UnitOptions() []domain.Option {
	return append([]domain.Option(nil), domain.UnitOptions...)
}
