package handlers

import (
	"errors"
	"net/http"

	"journeycompass/internal/domain"
	"journeycompass/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

// ErrorResponse standardizes error payloads.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string, details any) {
	if code == "" {
		code = http.StatusText(status)
	}
	c.JSON(status, ErrorResponse{
		Error:     message,
		Code:      code,
		Details:   details,
		RequestID: middleware.GetRequestID(c),
	})
}

// RespondDomainError maps domain errors to HTTP responses.
func RespondDomainError(c *gin.Context, err error) {
	var conflict domain.ConflictError
	switch {
	case domain.IsValidation(err):
		respondError(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
	case domain.IsNotFound(err):
		respondError(c, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.As(err, &conflict):
		var details any
		if len(conflict.Seats) > 0 {
			details = gin.H{"seats": conflict.Seats}
		}
		respondError(c, http.StatusConflict, "conflict", err.Error(), details)
	case domain.IsAlreadyCancelled(err):
		respondError(c, http.StatusConflict, "already_cancelled", err.Error(), nil)
	case domain.IsInternal(err):
		_ = c.Error(err)
		respondError(c, http.StatusServiceUnavailable, "busy", err.Error(), nil)
	case domain.IsStorage(err):
		_ = c.Error(err)
		respondError(c, http.StatusServiceUnavailable, "storage_unavailable", "bookings are temporarily unavailable, try again", nil)
	default:
		_ = c.Error(err)
		respondError(c, http.StatusInternalServerError, "internal_error", "something went wrong", nil)
	}
}
