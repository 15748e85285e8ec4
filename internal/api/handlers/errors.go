package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"resume-builder/internal/background"
	"resume-builder/internal/contact"
	"resume-builder/internal/exporter"
	"resume-builder/internal/form"
	"resume-builder/internal/logging"
	"resume-builder/internal/session"
	"resume-builder/pkg/models"
	"resume-builder/pkg/utils"
)

var errBadBody = errors.New("invalid_request_body")

type validationError struct {
	errs validator.ValidationErrors
}

func (e *validationError) Error() string {
	if len(e.errs) == 0 {
		return "request validation failed"
	}
	parts := make([]string, 0, len(e.errs))
	for _, fe := range e.errs {
		parts = append(parts, fmt.Sprintf("%s failed on '%s'", fe.Field(), fe.Tag()))
	}
	return strings.Join(parts, "; ")
}

// mapError translates domain errors into client-facing errors
func mapError(err error) *utils.CustomError {
	var custom *utils.CustomError
	var verr *validationError
	switch {
	case errors.As(err, &custom):
		return custom
	case errors.As(err, &verr):
		return utils.NewValidationError(verr.Error())
	case errors.Is(err, errBadBody):
		return utils.NewBadRequestError("Invalid request format")
	case errors.Is(err, session.ErrMissingSession):
		return utils.NewMissingSessionError()
	case errors.Is(err, session.ErrPersistence):
		return utils.NewPersistenceError(err.Error())
	case errors.Is(err, form.ErrIndexOutOfRange):
		return utils.NewIndexOutOfRangeError(err.Error())
	case errors.Is(err, form.ErrUnknownField), errors.Is(err, form.ErrUnknownSection):
		return utils.NewValidationError(err.Error())
	case errors.Is(err, exporter.ErrRender):
		return utils.NewRenderError(err.Error())
	case errors.Is(err, exporter.ErrStorageConfig), errors.Is(err, exporter.ErrUpload):
		return utils.NewUpstreamError("Export storage unavailable", err.Error())
	case errors.Is(err, exporter.ErrExport):
		return utils.NewExportError(exporter.FailureMessage, err.Error())
	case errors.Is(err, background.ErrTaskNotFound):
		return utils.NewNotFoundError("TASK_NOT_FOUND", "Export not found")
	case errors.Is(err, background.ErrNoArtifact):
		return &utils.CustomError{Code: http.StatusConflict, Kind: "EXPORT_NOT_READY", Message: "Export has not produced a file"}
	case errors.Is(err, background.ErrTaskFinished):
		return &utils.CustomError{Code: http.StatusConflict, Kind: "EXPORT_FINISHED", Message: "Export already finished"}
	case errors.Is(err, background.ErrQueueFull), errors.Is(err, background.ErrNotRunning):
		return &utils.CustomError{Code: http.StatusServiceUnavailable, Kind: "SERVICE_UNAVAILABLE", Message: "Export service is busy, please try again later"}
	case errors.Is(err, contact.ErrRateLimited):
		return &utils.CustomError{Code: http.StatusTooManyRequests, Kind: "RATE_LIMITED", Message: "Too many messages, please try again later"}
	case errors.Is(err, contact.ErrNotConfigured):
		return &utils.CustomError{Code: http.StatusServiceUnavailable, Kind: "CONTACT_NOT_CONFIGURED", Message: "Contact form is not configured"}
	case errors.Is(err, contact.ErrInvalid):
		return utils.NewValidationError(err.Error())
	case errors.Is(err, contact.ErrDelivery):
		return utils.NewUpstreamError("Failed to send message. Please try again.", err.Error())
	default:
		return utils.NewInternalServerError("Internal server error")
	}
}

// respondError logs err and writes the FAILURE envelope
func respondError(c echo.Context, err error) error {
	custom := mapError(err)
	logger := logging.GetGlobalLogger().WithContext(c.Request().Context())

	fields := map[string]interface{}{
		"path":   c.Path(),
		"kind":   custom.Kind,
		"status": custom.Code,
		"error":  err.Error(),
	}
	if custom.Code >= http.StatusInternalServerError {
		logger.Error("Request failed", fields)
	} else {
		logger.Warn("Request rejected", fields)
	}

	response := models.NewFailure(custom.Kind, custom.Message)
	response.Redirect = custom.Redirect
	return c.JSON(custom.Code, response)
}
