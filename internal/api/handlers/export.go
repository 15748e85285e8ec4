package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"resume-builder/internal/catalog"
	"resume-builder/internal/logging"
	"resume-builder/internal/render"
	"resume-builder/pkg/models"
	"resume-builder/pkg/utils"
)

// ExportHandler queues a PDF export of the submitted resume. The template
// comes from the body, then the stored selection, then the default.
func ExportHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		ctx := c.Request().Context()
		logger := logging.GetGlobalLogger().WithContext(ctx)

		sess, doc, err := d.submitted(c)
		if err != nil {
			return respondError(c, err)
		}

		var req models.ExportResumeRequest
		if err := bindAndValidate(c, &req); err != nil {
			return respondError(c, err)
		}

		requested := req.Template
		if requested == "" {
			if requested, err = sess.LoadTemplate(ctx); err != nil {
				return respondError(c, err)
			}
		}
		templateID := string(catalog.ResolveTemplate(requested).ID)

		processID := utils.GenerateProcessID()
		if err := d.Exports.SubmitExport(ctx, processID, sess.ID, doc, templateID); err != nil {
			return respondError(c, err)
		}

		logger.Info("Export queued", map[string]interface{}{
			"process_id": processID,
			"session_id": sess.ID,
			"template":   templateID,
		})
		return c.JSON(http.StatusAccepted, models.CreateAsyncExportResponse(processID))
	}
}

// ExportStatusHandler reports the state of a queued export
func ExportStatusHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		result, err := d.Exports.GetTaskResult(c.Request().Context(), c.Param("processId"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, result.ToResponse())
	}
}

// ExportDownloadHandler serves the PDF of a finished export
func ExportDownloadHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		result, err := d.Exports.Artifact(c.Request().Context(), c.Param("processId"))
		if err != nil {
			return respondError(c, err)
		}

		filename := render.Filename("")
		if data, ok := result.Data.(*models.AsyncExportCompletionData); ok && data.Filename != "" {
			filename = data.Filename
		}

		c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
		return c.Blob(http.StatusOK, "application/pdf", result.Artifact)
	}
}

// CancelExportHandler stops a queued or running export
func CancelExportHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		processID := c.Param("processId")
		if err := d.Exports.Cancel(c.Request().Context(), processID); err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusAccepted, models.MessageResponse{
			Status:  "CANCELLING",
			Message: "Export cancellation requested",
		})
	}
}

// ListSessionExportsHandler lists the exports started for a session, oldest
// first
func ListSessionExportsHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		id, err := sessionID(c)
		if err != nil {
			return respondError(c, err)
		}

		tasks, err := d.Exports.ListTasks(c.Request().Context())
		if err != nil {
			return respondError(c, err)
		}

		exports := make([]*models.AsyncTaskStatusResponse, 0)
		for _, task := range tasks {
			if owner, _ := task.Metadata["session_id"].(string); owner == id {
				exports = append(exports, task.ToResponse())
			}
		}
		return c.JSON(http.StatusOK, exports)
	}
}
