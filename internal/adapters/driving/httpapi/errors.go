// Package httpapi exposes Docley's document, ingestion, retrieval and
// rewrite services as a JSON REST API built on gin.
package httpapi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/docley/internal/core/domain"
	"github.com/custodia-labs/docley/internal/logger"
)

// AppError is an error with the HTTP status code it should be reported as.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// MapError maps a domain error to an AppError with an appropriate status code.
func MapError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return NewAppError(http.StatusBadRequest, "Invalid request", err)
	case errors.Is(err, domain.ErrNotFound):
		return NewAppError(http.StatusNotFound, "Resource not found", err)
	case errors.Is(err, domain.ErrUnsupportedSource):
		return NewAppError(http.StatusUnprocessableEntity, "Unsupported document source", err)
	case errors.Is(err, domain.ErrRateLimited):
		return NewAppError(http.StatusTooManyRequests, "Rate limited, try again later", err)
	case errors.Is(err, domain.ErrQueueFull), errors.Is(err, domain.ErrDispatcherClosed):
		return NewAppError(http.StatusServiceUnavailable, "Ingestion queue unavailable", err)
	case errors.Is(err, domain.ErrLLMUnavailable), errors.Is(err, domain.ErrEmbeddingUnavailable):
		return NewAppError(http.StatusServiceUnavailable, "AI backend not configured", err)
	}

	return NewAppError(http.StatusInternalServerError, "Internal server error", err)
}

// handleError writes err as a JSON error body. Server errors are logged.
func handleError(c *gin.Context, err error) {
	appErr := MapError(err)
	if appErr.Code >= http.StatusInternalServerError {
		logger.Error("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.AbortWithStatusJSON(appErr.Code, gin.H{"error": appErr.Message})
}
