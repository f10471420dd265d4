package dto

import (
	"time"

	"github.com/Diego-SJ/PaleteriaChuchin/internal/domain"
)

// ProductRequest is the multipart form of a product submission
// @Description Product fields; the image travels in the "image" file part.
// @Description Empty fields are reported in fieldErrors rather than rejected here.
type ProductRequest struct {
	Name           string `form:"name" example:"Paleta de mango"`
	WholesalePrice string `form:"wholesalePrice" example:"12.50"`
	RetailPrice    string `form:"retailPrice" example:"18"`
	Unit           string `form:"unit" binding:"omitempty,oneof=u pzs cjs bts m cm kg g l ml" example:"pzs"`
}

// ProductResponse is a stored product
type ProductResponse struct {
	ID             string    `json:"id" example:"Yd8fQ2"`
	Name           string    `json:"name" example:"Paleta de mango"`
	WholesalePrice string    `json:"wholesalePrice" example:"12.50"`
	RetailPrice    string    `json:"retailPrice" example:"18"`
	Unit           string    `json:"unit" example:"pzs"`
	ImageAssetID   string    `json:"imageAssetId" example:"3f0c2b9e-6a7d-4b1e-9d7e-0c1a2b3c4d5e"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	CreatedBy      string    `json:"createdBy" example:"admin@chuchin.mx"`
}

// NewProductResponse converts a record; imageURL may be empty
func NewProductResponse(p domain.ProductRecord, imageURL string) ProductResponse {
	return ProductResponse{
		ID:             p.ID,
		Name:           p.Name,
		WholesalePrice: p.WholesalePrice,
		RetailPrice:    p.RetailPrice,
		Unit:           p.Unit,
		ImageAssetID:   p.ImageAssetID,
		ImageURL:       imageURL,
		CreatedAt:      p.CreatedAt,
		CreatedBy:      p.CreatedBy,
	}
}
