package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Diego-SJ/PaleteriaChuchin/internal/domain"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/dto"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/response"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/service"
)

type EmployeeHandler struct {
	employeeService service.EmployeeService
	logger          *zap.Logger
}

func NewEmployeeHandler(employeeService service.EmployeeService, logger *zap.Logger) *EmployeeHandler {
	return &EmployeeHandler{employeeService: employeeService, logger: logger}
}

// ListEmployees godoc
// @Summary      List employees
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} response.SuccessResponse{data=[]dto.EmployeeResponse}
// @Failure      403 {object} response.ErrorResponse "Admins only"
// @Router       /employees [get]
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	employees, err := h.employeeService.ListEmployees(c.Request.Context())
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, employees)
}

// GetEmployee godoc
// @Summary      Get an employee
// @Tags         employees
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Employee ID (email)"
// @Success      200 {object} response.SuccessResponse{data=dto.EmployeeResponse}
// @Failure      404 {object} response.ErrorResponse
// @Router       /employees/{id} [get]
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	employee, err := h.employeeService.GetEmployee(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, employee)
}

// CreateEmployee godoc
// @Summary      Create an employee
// @Description  The email is the employee key; an existing email is rejected with 409.
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        X-Form-Instance header string false "Client form instance"
// @Param        request body dto.EmployeeRequest true "Employee"
// @Success      201 {object} response.SuccessResponse{data=dto.SubmissionResponse}
// @Failure      400 {object} response.ErrorResponse "Malformed body or unknown role"
// @Failure      409 {object} response.ErrorResponse "Employee exists or submission in flight"
// @Failure      422 {object} response.ErrorResponse "Invalid fields"
// @Router       /employees [post]
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	req, ok := bindEmployee(c)
	if !ok {
		return
	}

	result, err := h.employeeService.CreateEmployee(c.Request.Context(), submitMeta(c), req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	sendSubmission(c, result, http.StatusCreated)
}

// UpdateEmployee godoc
// @Summary      Update an employee
// @Tags         employees
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Employee ID (email)"
// @Param        X-Form-Instance header string false "Client form instance"
// @Param        request body dto.EmployeeRequest true "Employee"
// @Success      200 {object} response.SuccessResponse{data=dto.SubmissionResponse}
// @Failure      404 {object} response.ErrorResponse
// @Failure      422 {object} response.ErrorResponse
// @Router       /employees/{id} [put]
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	req, ok := bindEmployee(c)
	if !ok {
		return
	}

	result, err := h.employeeService.UpdateEmployee(c.Request.Context(), submitMeta(c), c.Param("id"), req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	sendSubmission(c, result, http.StatusOK)
}

// bindEmployee decodes the body. An empty role is left for the form to flag.
func bindEmployee(c *gin.Context) (dto.EmployeeRequest, bool) {
	var req dto.EmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.SendErrorWithDetails(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid request body", err.Error())
		return req, false
	}
	if req.Role != "" {
		if _, err := domain.ParseRole(req.Role); err != nil {
			response.SendErrorWithDetails(c, http.StatusBadRequest, response.ErrCodeValidation, "Invalid role", err.Error())
			return req, false
		}
	}
	return req, true
}
