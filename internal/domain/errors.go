package domain

import (
	"errors"
	"strings"
)

// Domain errors
var (
	ErrExpenseNotFound = errors.New("expense not found")
	ErrInternalError   = errors.New("internal error")
)

// FieldError is a single validation violation tagged with the offending field
type FieldError struct {
	Field   string
	Message string
}

// ValidationErrors carries every violation found in a request, not just the
// first one.
type ValidationErrors []FieldError

func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, fe := range v {
		msgs[i] = fe.Field + ": " + fe.Message
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Validation messages
const (
	MsgAmountInvalid      = "Amount must be a positive number"
	MsgDescriptionMissing = "Description is required"
	MsgDescriptionTooLong = "Description must not exceed 500 characters"
	MsgDateInvalid        = "Date must be in ISO 8601 format"
	MsgCategoryInvalid    = "Invalid category"
	MsgInvalidValue       = "Invalid value"
)
