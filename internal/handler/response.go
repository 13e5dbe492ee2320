package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/hmorten/spendtrack/spendtrack-backend/internal/domain"
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrorResponse is the body returned for failed validation:
// the full list of violations, not just the first
type ValidationErrorResponse struct {
	Errors []ValidationError `json:"errors"`
}

// MessageResponse is the body returned for not-found and server errors
type MessageResponse struct {
	Message string `json:"message"`
}

// NewValidationError creates a validation error response
func NewValidationError(c echo.Context, errors []ValidationError) error {
	return c.JSON(http.StatusBadRequest, ValidationErrorResponse{Errors: errors})
}

// NewNotFoundError creates a not found error response
func NewNotFoundError(c echo.Context, message string) error {
	return c.JSON(http.StatusNotFound, MessageResponse{Message: message})
}

// NewInternalError creates an internal error response
func NewInternalError(c echo.Context, message string) error {
	return c.JSON(http.StatusInternalServerError, MessageResponse{Message: message})
}

// toValidationErrors converts domain violations to their response form
func toValidationErrors(violations domain.ValidationErrors) []ValidationError {
	errors := make([]ValidationError, len(violations))
	for i, v := range violations {
		errors[i] = ValidationError{Field: v.Field, Message: v.Message}
	}
	return errors
}
