package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Diego-SJ/PaleteriaChuchin/internal/auth"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/dto"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/notify"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/repository"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/response"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/service"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/storage"
	"github.com/Diego-SJ/PaleteriaChuchin/internal/workflow"
)

// handleServiceError maps service layer errors to appropriate HTTP responses
func handleServiceError(c *gin.Context, logger *zap.Logger, err error) {
	var appErr *response.AppError
	switch {
	case errors.As(err, &appErr):
		status := mapErrorCodeToHTTPStatus(appErr.Code)
		if status >= http.StatusInternalServerError {
			logger.Error("Service error", zap.String("code", appErr.Code), zap.String("details", appErr.Details))
		}
		response.SendErrorWithDetails(c, status, appErr.Code, appErr.Message, appErr.Details)
	case errors.Is(err, workflow.ErrSubmissionInFlight):
		response.SendError(c, http.StatusConflict, response.ErrCodeSubmissionInFlight, "A submission of this form is already in progress")
	case errors.Is(err, auth.ErrInvalidCredentials):
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid email or password")
	case errors.Is(err, auth.ErrInvalidToken):
		response.SendError(c, http.StatusUnauthorized, response.ErrCodeUnauthorized, "Invalid or expired token")
	case errors.Is(err, auth.ErrUserNotFound):
		response.SendError(c, http.StatusNotFound, response.ErrCodeNotFound, "User not found")
	case errors.Is(err, auth.ErrInvalidEmail), errors.Is(err, auth.ErrWeakPassword):
		response.SendError(c, http.StatusBadRequest, response.ErrCodeValidation, err.Error())
	default:
		logger.Error("Unhandled service error", zap.Error(err))
		response.SendError(c, http.StatusInternalServerError, response.ErrCodeInternal, "Internal server error")
	}
}

// mapErrorCodeToHTTPStatus maps error codes to HTTP status codes
func mapErrorCodeToHTTPStatus(code string) int {
	switch code {
	case response.ErrCodeNotFound:
		return http.StatusNotFound
	case response.ErrCodeAlreadyExists, response.ErrCodeSubmissionInFlight:
		return http.StatusConflict
	case response.ErrCodeValidation:
		return http.StatusBadRequest
	case response.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case response.ErrCodeForbidden:
		return http.StatusForbidden
	case response.ErrCodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case response.ErrCodeUploadFailed, response.ErrCodeBackend:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// submissionFailure is the error body of a submission that did not succeed
type submissionFailure struct {
	response.ErrorDetail
	Submission dto.SubmissionResponse `json:"submission"`
}

// sendSubmission writes the outcome of a submission; successStatus is used when it succeeded
func sendSubmission(c *gin.Context, result *service.SubmissionResult, successStatus int) {
	out := result.Outcome
	body := dto.SubmissionResponse{
		State:         out.State.String(),
		FieldErrors:   out.Errors,
		Notifications: result.Notifications,
		CloseModal:    out.Closed,
		Data:          result.Data,
	}
	if body.Notifications == nil {
		body.Notifications = []notify.Notification{}
	}

	if out.State == workflow.Succeeded {
		response.SendSuccess(c, successStatus, body)
		return
	}

	status, code := submissionStatus(out)
	message := out.Message
	if message == "" {
		message = "Submission did not complete"
	}
	c.JSON(status, response.ErrorResponse{
		Success:   false,
		Error:     submissionFailure{ErrorDetail: response.ErrorDetail{Code: code, Message: message}, Submission: body},
		RequestID: c.GetString(response.RequestIDKey),
	})
}

// submissionStatus picks the HTTP status and error code of an unsuccessful outcome
func submissionStatus(out workflow.Outcome) (int, string) {
	if out.State == workflow.Rejected {
		return http.StatusUnprocessableEntity, response.ErrCodeValidation
	}

	var uploadErr *storage.UploadError
	switch {
	case repository.IsWriteErrorKind(out.Err, repository.WriteErrDuplicateKey):
		return http.StatusConflict, response.ErrCodeAlreadyExists
	case repository.IsWriteErrorKind(out.Err, repository.WriteErrNotFound):
		return http.StatusNotFound, response.ErrCodeNotFound
	case errors.As(out.Err, &uploadErr):
		return http.StatusBadGateway, response.ErrCodeUploadFailed
	case repository.IsWriteErrorKind(out.Err, repository.WriteErrBackend):
		return http.StatusBadGateway, response.ErrCodeBackend
	case errors.Is(out.Err, context.Canceled), errors.Is(out.Err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, response.ErrCodeBackend
	default:
		return http.StatusInternalServerError, response.ErrCodeInternal
	}
}
