// Package response writes the JSON envelopes returned by every endpoint.
package response

import (
	"fmt"

	"github.com/gin-gonic/gin"
)

// Error codes
const (
	ErrCodeValidation         = "VALIDATION_ERROR"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeAlreadyExists      = "ALREADY_EXISTS"
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInternal           = "INTERNAL_ERROR"
	ErrCodeSubmissionInFlight = "SUBMISSION_IN_FLIGHT"
	ErrCodeUploadFailed       = "UPLOAD_FAILED"
	ErrCodeBackend            = "BACKEND_ERROR"
	ErrCodePayloadTooLarge    = "PAYLOAD_TOO_LARGE"
)

// RequestIDKey is the gin context key holding the request ID
const RequestIDKey = "requestId"

// SuccessResponse is the envelope of successful responses
type SuccessResponse struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data"`
	RequestID string      `json:"requestId,omitempty"`
}

// ErrorResponse is the envelope of failed responses
type ErrorResponse struct {
	Success   bool        `json:"success"`
	Error     interface{} `json:"error"`
	RequestID string      `json:"requestId,omitempty"`
}

// ErrorDetail is the body of ErrorResponse.Error
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// AppError is an error carrying an API error code
type AppError struct {
	Code    string
	Message string
	Details string
}

func (e *AppError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewAppError creates a new AppError
func NewAppError(code, message, details string) *AppError {
	return &AppError{Code: code, Message: message, Details: details}
}

// NewValidationError creates a VALIDATION_ERROR AppError
func NewValidationError(message, details string) *AppError {
	return NewAppError(ErrCodeValidation, message, details)
}

// NewNotFoundError creates a NOT_FOUND AppError
func NewNotFoundError(message, details string) *AppError {
	return NewAppError(ErrCodeNotFound, message, details)
}

// NewForbiddenError creates a FORBIDDEN AppError
func NewForbiddenError(message, details string) *AppError {
	return NewAppError(ErrCodeForbidden, message, details)
}

// NewUnauthorizedError creates an UNAUTHORIZED AppError
func NewUnauthorizedError(message, details string) *AppError {
	return NewAppError(ErrCodeUnauthorized, message, details)
}

// SendSuccess writes a SuccessResponse
func SendSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, SuccessResponse{
		Success:   true,
		Data:      data,
		RequestID: c.GetString(RequestIDKey),
	})
}

// SendError writes an ErrorResponse
func SendError(c *gin.Context, status int, code, message string) {
	SendErrorWithDetails(c, status, code, message, "")
}

// SendErrorWithDetails writes an ErrorResponse with details
func SendErrorWithDetails(c *gin.Context, status int, code, message, details string) {
	c.JSON(status, ErrorResponse{
		Success:   false,
		Error:     ErrorDetail{Code: code, Message: message, Details: details},
		RequestID: c.GetString(RequestIDKey),
	})
}

// AbortWithError writes an ErrorResponse and stops the handler chain
func AbortWithError(c *gin.Context, status int, code, message string) {
	SendError(c, status, code, message)
	c.Abort()
}
