package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Diego-SJ/PaleteriaChuchin/internal/dto"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/middleware"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/response"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/service"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/storage"
)

// FormInstanceHeader identifies the client-side form a submission comes from
const FormInstanceHeader = "X-Form-Instance"

// allowedImageTypes are the sniffed content types accepted for product images
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

type ProductHandler struct {
	productService service.ProductService
	maxUploadSize  int64
	logger         *zap.Logger
}

func NewProductHandler(productService service.ProductService, maxUploadSize int64, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		maxUploadSize:  maxUploadSize,
		logger:         logger,
	}
}

// ListProducts godoc
// @Summary      List products
// @Description  Every product with a short-lived image URL
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.SuccessResponse{data=[]dto.ProductResponse}
// @Failure      403 {object} response.ErrorResponse "Missing products permission"
// @Failure      502 {object} response.ErrorResponse "Document store unavailable"
// @Router       /products [get]
func (h *ProductHandler) ListProducts(c *gin.Context) {
	products, err := h.productService.ListProducts(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, products)
}

// GetProduct godoc
// @Summary      Get a product
// @Tags         products
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product ID"
// @Success      200 {object} response.SuccessResponse{data=dto.ProductResponse}
// @Failure      404 {object} response.ErrorResponse
// @Router       /products/{id} [get]
func (h *ProductHandler) GetProduct(c *gin.Context) {
	product, err := h.productService.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, product)
}

// GetProductImage godoc
// @Summary      Redirect to the product image
// @Tags         products
// @Security     BearerAuth
// @Param        id path string true "Product ID"
// @Success      307
// @Failure      404 {object} response.ErrorResponse
// @Router       /products/{id}/image [get]
func (h *ProductHandler) GetProductImage(c *gin.Context) {
	url, err := h.productService.ImageURL(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.Redirect(http.StatusTemporaryRedirect, url)
}

// CreateProduct godoc
// @Summary      Create a product
// @Description  Validates the fields, uploads the image, then stores the product.
// @Description  Missing fields are reported in fieldErrors with status 422.
// @Tags         products
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        X-Form-Instance header string false "Client form instance"
// @Param        name formData string false "Name"
// @Param        wholesalePrice formData string false "Wholesale price"
// @Param        retailPrice formData string false "Retail price"
// @Param        unit formData string false "Unit"
// @Param        image formData file false "Product image"
// @Success      201 {object} response.SuccessResponse{data=dto.SubmissionResponse}
// @Failure      409 {object} response.ErrorResponse "Submission already in flight"
// @Failure      413 {object} response.ErrorResponse "Image too large"
// @Failure      422 {object} response.ErrorResponse "Invalid fields or missing image"
// @Failure      502 {object} response.ErrorResponse "Upload or store failure"
// @Router       /products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	req, image, ok := h.bindProduct(c)
	if !ok {
		return
	}

	result, err := h.productService.CreateProduct(c.Request.Context(), submitMeta(c), req, image)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	sendSubmission(c, result, http.StatusCreated)
}

// UpdateProduct godoc
// @Summary      Update a product
// @Description  Same flow as creation; a new image is required.
// @Tags         products
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Product ID"
// @Param        X-Form-Instance header string false "Client form instance"
// @Param        name formData string false "Name"
// @Param        wholesalePrice formData string false "Wholesale price"
// @Param        retailPrice formData string false "Retail price"
// @Param        unit formData string false "Unit"
// @Param        image formData file false "Product image"
// @Success      200 {object} response.SuccessResponse{data=dto.SubmissionResponse}
// @Failure      404 {object} response.ErrorResponse
// @Failure      422 {object} response.ErrorResponse
// @Failure      502 {object} response.ErrorResponse
// @Router       /products/{id} [put]
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	req, image, ok := h.bindProduct(c)
	if !ok {
		return
	}

	result, err := h.productService.UpdateProduct(c.Request.Context(), submitMeta(c), c.Param("id"), req, image)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	sendSubmission(c, result, http.StatusOK)
}

// bindProduct reads the multipart fields and the optional image
func (h *ProductHandler) bindProduct(c *gin.Context) (dto.ProductRequest, *storage.AssetUploadTask, bool) {
	var req dto.ProductRequest
	if h.maxUploadSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadSize)
	}

	if err := c.ShouldBind(&req); err != nil {
		if isTooLarge(err) {
			response.SendError(c, http.StatusRequestEntityTooLarge, response.ErrCodePayloadTooLarge, "Request body too large")
			return req, nil, false
		}
		response.SendErrorWithDetails(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body", err.Error())
		return req, nil, false
	}

	header, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return req, nil, true
		}
		if isTooLarge(err) {
			response.SendError(c, http.StatusRequestEntityTooLarge, response.ErrCodePayloadTooLarge, "Image too large")
			return req, nil, false
		}
		response.SendErrorWithDetails(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid image", err.Error())
		return req, nil, false
	}

	file, err := header.Open()
	if err != nil {
		response.SendErrorWithDetails(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid image", err.Error())
		return req, nil, false
	}
	defer file.Close()

	payload, err := io.ReadAll(file)
	if err != nil {
		response.SendErrorWithDetails(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid image", err.Error())
		return req, nil, false
	}
	if len(payload) == 0 {
		return req, nil, true
	}

	task := storage.NewAssetUploadTask(payload, "")
	if !allowedImageTypes[task.ContentType] {
		response.SendErrorWithDetails(c, http.StatusBadRequest, response.ErrCodeValidation, "File is not an image", task.ContentType)
		return req, nil, false
	}
	return req, task, true
}

func isTooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr)
}

// submitMeta collects the submitter identity set by the auth middleware
func submitMeta(c *gin.Context) service.SubmitMeta {
	return service.SubmitMeta{
		UserID:      c.GetString(middleware.UserIDKey),
		Email:       c.GetString(middleware.EmailKey),
		DisplayName: c.GetString(middleware.NameKey),
		InstanceID:  c.GetHeader(FormInstanceHeader),
	}
}
