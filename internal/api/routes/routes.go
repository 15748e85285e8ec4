package routes

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"

	"resume-builder/internal/api/handlers"
	"resume-builder/internal/api/middleware"
)

// SetupRoutes configures all API routes
func SetupRoutes(e *echo.Echo, d *handlers.Deps) {
	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestValidation())
	e.Use(middleware.RequestLogger())
	e.Use(middleware.CORSConfig())
	// Contact delivery and PDF downloads get longer than the read timeout
	e.Use(middleware.SelectiveTimeoutConfig(d.Config.Server.ReadTimeout, 2*time.Minute))

	// Health check routes
	health := e.Group("/health")
	{
		health.GET("", handlers.HealthHandler)
		health.GET("/ready", handlers.ReadinessHandler(d))
		health.GET("/live", handlers.LivenessHandler)
	}

	// API v1 routes
	v1 := e.Group("/api/v1")
	{
		v1.GET("/roles", handlers.ListRolesHandler)
		v1.GET("/roles/:role", handlers.GetRoleHandler)
		v1.GET("/templates", handlers.ListTemplatesHandler)

		sessions := v1.Group("/sessions")
		{
			sessions.POST("", handlers.CreateSessionHandler(d))
			sessions.DELETE("/:id", handlers.DeleteSessionHandler(d))

			sessions.PUT("/:id/template", handlers.SelectTemplateHandler(d))
			sessions.GET("/:id/preview/:template", handlers.PreviewHandler(d))
			sessions.GET("/:id/print/:template", handlers.PrintHandler(d))
			sessions.POST("/:id/export", handlers.ExportHandler(d))
			sessions.GET("/:id/exports", handlers.ListSessionExportsHandler(d))
		}

		form := sessions.Group("/:id/form")
		{
			form.GET("", handlers.GetFormHandler(d))
			form.PUT("/fields", handlers.SetFieldHandler(d))
			form.PUT("/lists/:section/input", handlers.SetListInputHandler(d))
			form.POST("/lists/:section", handlers.AddListItemHandler(d))
			form.DELETE("/lists/:section/:index", handlers.RemoveListItemHandler(d))
			form.POST("/entries/:section", handlers.AddEntryHandler(d))
			form.PUT("/entries/:section/:index", handlers.EditEntryHandler(d))
			form.POST("/step", handlers.StepHandler(d))
			form.POST("/submit", handlers.SubmitHandler(d))
		}

		exports := v1.Group("/exports")
		{
			exports.GET("/:processId", handlers.ExportStatusHandler(d))
			exports.GET("/:processId/download", handlers.ExportDownloadHandler(d))
			exports.DELETE("/:processId", handlers.CancelExportHandler(d))
		}

		v1.POST("/contact", handlers.ContactHandler(d))
	}

	// Root route
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"service": "Resume Builder",
			"version": handlers.Version,
			"status":  "running",
		})
	})
}
