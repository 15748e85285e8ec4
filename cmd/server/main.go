package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"

	"resume-builder/internal/api/handlers"
	"resume-builder/internal/api/routes"
	"resume-builder/internal/background"
	"resume-builder/internal/config"
	"resume-builder/internal/contact"
	"resume-builder/internal/exporter"
	"resume-builder/internal/form"
	"resume-builder/internal/logging"
	"resume-builder/internal/render"
	"resume-builder/internal/session"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig("configs/config.yaml")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := logging.InitializeLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseLogging()

	logger := logging.GetGlobalLogger()
	logger.Info("Starting Resume Builder", map[string]interface{}{
		"session_backend": cfg.Session.Backend,
		"export_workers":  cfg.Export.Workers,
	})

	store, err := session.NewStore(cfg)
	if err != nil {
		logger.Error("Failed to create session store", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	renderer := render.NewRenderer()
	surface := exporter.NewRodSurface(cfg)
	exp, err := exporter.New(cfg, renderer, surface)
	if err != nil {
		logger.Error("Failed to create exporter", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	// Initialize background task manager
	taskManager := background.NewTaskManager(cfg, background.NewInMemoryTaskStore(), exp)
	if err := taskManager.Start(context.Background()); err != nil {
		logger.Error("Failed to start task manager", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}

	deps := &handlers.Deps{
		Config:   cfg,
		Store:    store,
		Engines:  form.NewRegistryWithIdle(cfg.Session.TTL),
		Renderer: renderer,
		Exports:  taskManager,
		Contact:  contact.NewClient(cfg),
		Limiter:  contact.NewLimiter(cfg.Contact.RateLimit),
	}

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = cfg.Server.ReadTimeout
	e.Server.WriteTimeout = cfg.Server.WriteTimeout
	e.Server.IdleTimeout = cfg.Server.IdleTimeout

	routes.SetupRoutes(e, deps)

	address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	go func() {
		logger.Info("Server starting", map[string]interface{}{"address": address})
		if err := e.Start(address); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to start", map[string]interface{}{"error": err.Error()})
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Stop accepting requests before draining exports
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error shutting down server", map[string]interface{}{"error": err.Error()})
	}

	if err := taskManager.Stop(shutdownCtx); err != nil {
		logger.Error("Error stopping task manager", map[string]interface{}{"error": err.Error()})
	}

	if err := surface.Close(); err != nil {
		logger.Error("Error closing browser", map[string]interface{}{"error": err.Error()})
	}

	if closer, ok := store.(interface{ Close() error }); ok {
		_ = closer.Close()
	}

	logger.Info("Server shutdown complete")
}
