package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"billaudit/internal/domain"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
// An advisor failure is a 502: the request died on the external collaborator,
// not in this service.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrEmptyExtraction):
		return http.StatusBadGateway, "EMPTY_EXTRACTION", "no billable line items could be extracted from the bill"
	case errors.Is(err, domain.ErrUpstream):
		return http.StatusBadGateway, "UPSTREAM_ERROR", "the analysis service's language-model collaborator failed"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, log zerolog.Logger, err error) {
	status, code, msg := MapDomainError(err)
	log.Error().
		Str("request_id", c.GetString("request_id")).
		Int("status", status).
		Err(err).
		Msg("request failed")
	RespondError(c, status, code, msg)
}
