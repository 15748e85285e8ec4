package handlers

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"resume-builder/internal/catalog"
	"resume-builder/internal/exporter"
	"resume-builder/internal/logging"
	"resume-builder/internal/render"
	"resume-builder/pkg/models"
)

// SelectTemplateHandler stores the template chosen for a submitted resume
func SelectTemplateHandler(d *Deps) echo.HandlerFunc {
	return func(c echo.Context) error {
		sess, _, err := d.submitted(c)
		if err != nil {
			return respondError(c, err)
		}

		var req models.SelectTemplateRequest
		if err := bindAndValidate(c, &req); err != nil {
			return respondError(c, err)
		}
		descriptor := catalog.ResolveTemplate(req.Template)
		if err := sess.SaveTemplate(c.Request().Context(), string(descriptor.ID)); err != nil {
			return respondError(c, err)
		}
		return c.JSON(http.StatusOK, descriptor)
	}
}

// PreviewHandler renders the on-screen preview of a template
func PreviewHandler(d *Deps) echo.HandlerFunc {
	return renderHandler(d, render.TargetPreview)
}

// PrintHandler renders the print layout of a template
func PrintHandler(d *Deps) echo.HandlerFunc {
	return renderHandler(d, render.TargetPrint)
}

func renderHandler(d *Deps, target render.Target) echo.HandlerFunc {
	return func(c echo.Context) error {
		_, doc, err := d.submitted(c)
		if err != nil {
			return respondError(c, err)
		}

		templateID := string(catalog.ResolveTemplate(c.Param("template")).ID)
		html, err := d.Renderer.Render(doc, templateID, target)
		if err != nil {
			return respondError(c, fmt.Errorf("%w: %v", exporter.ErrRender, err))
		}

		logging.GetGlobalLogger().WithContext(c.Request().Context()).Debug("Resume rendered", map[string]interface{}{
			"session_id": c.Param("id"),
			"template":   templateID,
			"target":     target.String(),
			"bytes":      len(html),
		})
		return c.HTML(http.StatusOK, html)
	}
}
