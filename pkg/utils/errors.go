package utils

import (
	"fmt"
	"net/http"
)

// CustomError pairs an HTTP status with the machine-readable code and
// message sent to clients
type CustomError struct {
	Code     int    `json:"code"`
	Kind     string `json:"kind"`
	Message  string `json:"message"`
	Detail   string `json:"detail,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

func (e *CustomError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s", e.Message, e.Detail)
	}
	return e.Message
}

func NewBadRequestError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Kind:    "BAD_REQUEST",
		Message: message,
	}
}

func NewInternalServerError(message string) *CustomError {
	return &CustomError{
		Code:    http.StatusInternalServerError,
		Kind:    "INTERNAL_ERROR",
		Message: message,
	}
}

func NewValidationError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadRequest,
		Kind:    "VALIDATION_ERROR",
		Message: "Validation failed",
		Detail:  detail,
	}
}

func NewNotFoundError(kind, message string) *CustomError {
	return &CustomError{
		Code:    http.StatusNotFound,
		Kind:    kind,
		Message: message,
	}
}

// NewMissingSessionError sends the client back to role selection
func NewMissingSessionError() *CustomError {
	return &CustomError{
		Code:     http.StatusNotFound,
		Kind:     "MISSING_SESSION",
		Message:  "No resume data found. Please start by selecting a role.",
		Redirect: "/",
	}
}

func NewPersistenceError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusInsufficientStorage,
		Kind:    "PERSISTENCE_ERROR",
		Message: "Failed to save resume data",
		Detail:  detail,
	}
}

func NewIndexOutOfRangeError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusUnprocessableEntity,
		Kind:    "INDEX_OUT_OF_RANGE",
		Message: "Entry does not exist",
		Detail:  detail,
	}
}

func NewExportError(message, detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadGateway,
		Kind:    "EXPORT_ERROR",
		Message: message,
		Detail:  detail,
	}
}

func NewRenderError(detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusInternalServerError,
		Kind:    "RENDER_ERROR",
		Message: "Failed to render resume",
		Detail:  detail,
	}
}

func NewUpstreamError(message, detail string) *CustomError {
	return &CustomError{
		Code:    http.StatusBadGateway,
		Kind:    "UPSTREAM_ERROR",
		Message: message,
		Detail:  detail,
	}
}
