// Package respond writes JSON success and error bodies for the progress API.
package respond

import (
	"net/http"

	apperrors "carecase-workers/internal/common/errors"

	"github.com/gin-gonic/gin"
)

// ErrorBody defines the standardized error object.
type ErrorBody struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// ErrorResponse wraps the error body.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// OK writes a 200 OK JSON response.
func OK(c *gin.Context, payload interface{}) {
	c.JSON(http.StatusOK, payload)
}

// Error aborts the request with a standardized error body.
func Error(c *gin.Context, status int, code, message string, details interface{}) {
	c.AbortWithStatusJSON(status, ErrorResponse{
		Error: ErrorBody{
			Code:    code,
			Message: message,
			Details: details,
		},
	})
}

// FromError writes err using the HTTP status of its error code.
func FromError(c *gin.Context, err error) {
	stdErr := apperrors.Normalize(err)
	_ = c.Error(err)
	var details interface{}
	if stdErr.Details != "" {
		details = stdErr.Details
	}
	Error(c, StatusFor(stdErr.Code), string(stdErr.Code), stdErr.Message, details)
}

// StatusFor maps an error code to an HTTP status.
func StatusFor(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrCodeInputValidationFailed, apperrors.ErrCodeInvalidStatusTransition:
		return http.StatusBadRequest
	case apperrors.ErrCodeUnknownDomain, apperrors.ErrCodeApplicationNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeRecordFetchFailed, apperrors.ErrCodeSearchQueryFailed, apperrors.ErrCodeExternalService:
		return http.StatusBadGateway
	case apperrors.ErrCodeStatusConflict:
		return http.StatusConflict
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	case apperrors.ErrCodeRecordSourceRO:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
