package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"resume-builder/internal/background"
	"resume-builder/internal/contact"
	"resume-builder/internal/exporter"
	"resume-builder/internal/form"
	"resume-builder/internal/session"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		kind string
	}{
		{"missing session", fmt.Errorf("%w: no data", session.ErrMissingSession), http.StatusNotFound, "MISSING_SESSION"},
		{"persistence", fmt.Errorf("%w: quota", session.ErrPersistence), http.StatusInsufficientStorage, "PERSISTENCE_ERROR"},
		{"index", fmt.Errorf("%w: 4", form.ErrIndexOutOfRange), http.StatusUnprocessableEntity, "INDEX_OUT_OF_RANGE"},
		{"unknown field", form.ErrUnknownField, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"render", exporter.ErrRender, http.StatusInternalServerError, "RENDER_ERROR"},
		{"export", exporter.ErrExport, http.StatusBadGateway, "EXPORT_ERROR"},
		{"upload", exporter.ErrUpload, http.StatusBadGateway, "UPSTREAM_ERROR"},
		{"task", background.ErrTaskNotFound, http.StatusNotFound, "TASK_NOT_FOUND"},
		{"queue", background.ErrQueueFull, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"rate", contact.ErrRateLimited, http.StatusTooManyRequests, "RATE_LIMITED"},
		{"bad body", errBadBody, http.StatusBadRequest, "BAD_REQUEST"},
		{"unexpected", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := mapError(tt.err)
			assert.Equal(t, tt.code, got.Code)
			assert.Equal(t, tt.kind, got.Kind)
		})
	}
}

func TestMissingSessionCarriesRedirect(t *testing.T) {
	assert.Equal(t, "/", mapError(session.ErrMissingSession).Redirect)
}
