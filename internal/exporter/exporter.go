package exporter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"resume-builder/internal/config"
	"resume-builder/internal/logging"
	"resume-builder/internal/logging/types"
	"resume-builder/internal/render"
	"resume-builder/pkg/models"
	"resume-builder/pkg/utils"
)

// Sentinel errors to allow precise mapping in handlers
var (
	ErrExport        = errors.New("export_failed")
	ErrCancelled     = errors.New("export_cancelled")
	ErrRender        = errors.New("render_error")
	ErrStorageConfig = errors.New("storage_configuration")
	ErrUpload        = errors.New("upload_failed")
)

// Uploader stores a finished export and returns where it can be fetched
type Uploader interface {
	UploadResumePDF(ctx context.Context, sessionID, filename string, pdf []byte) (string, error)
}

// Outcome is a completed export together with its optional upload location
type Outcome struct {
	Result
	URL string
}

// Exporter renders resumes for print and drives them through a surface
type Exporter struct {
	renderer *render.Renderer
	surface  PrintSurface
	uploader Uploader
	timeout  time.Duration
	logger   types.Logger
}

// NewExporter wires the parts explicitly. uploader may be nil.
func NewExporter(renderer *render.Renderer, surface PrintSurface, uploader Uploader, timeout time.Duration) *Exporter {
	return &Exporter{
		renderer: renderer,
		surface:  surface,
		uploader: uploader,
		timeout:  timeout,
		logger:   logging.GetGlobalLogger(),
	}
}

// New builds an Exporter from configuration. Uploading is enabled only when
// configured; a broken storage configuration is reported as ErrStorageConfig.
func New(cfg *config.Config, renderer *render.Renderer, surface PrintSurface) (*Exporter, error) {
	var uploader Uploader
	if cfg.Export.Upload {
		spaces, err := utils.NewSpacesClient(cfg)
		if err != nil {
			logging.GetGlobalLogger().Error("Storage not configured for export", map[string]interface{}{
				"error": err.Error(),
			})
			return nil, fmt.Errorf("%w: %v", ErrStorageConfig, err)
		}
		uploader = spaces
	}
	return NewExporter(renderer, surface, uploader, cfg.Export.Timeout), nil
}

// Begin renders the print layout of doc and starts an Export. The export is
// bounded by the configured timeout.
func (x *Exporter) Begin(ctx context.Context, doc *models.ResumeDocument, templateID string) (*Export, error) {
	html, err := x.renderer.Render(doc, templateID, render.TargetPrint)
	if err != nil {
		x.logger.Error("Failed to render resume for export", map[string]interface{}{
			"template": templateID,
			"error":    err.Error(),
		})
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}

	cancel := context.CancelFunc(func() {})
	if x.timeout > 0 {
		ctx, cancel = context.WithTimeout(ctx, x.timeout)
	}

	exp := NewExport(x.surface, html, render.Filename(doc.PersonalInfo.FullName))
	exp.Start(ctx)
	go func() {
		<-exp.Done()
		cancel()
	}()
	return exp, nil
}

// ExportResume prints doc with the given template and waits for the export
// to settle. Completed exports are uploaded when an uploader is configured.
// The document itself is never modified, so a failed export can be retried.
func (x *Exporter) ExportResume(ctx context.Context, sessionID string, doc *models.ResumeDocument, templateID string) (*Outcome, error) {
	start := time.Now()

	exp, err := x.Begin(ctx, doc, templateID)
	if err != nil {
		return nil, err
	}
	<-exp.Done()
	res := exp.Result()

	fields := map[string]interface{}{
		"session_id": sessionID,
		"template":   templateID,
		"state":      res.State.String(),
		"duration":   utils.FormatDuration(time.Since(start)),
	}

	switch res.State {
	case StateFailed:
		fields["error"] = res.Err.Error()
		x.logger.Error("Resume export failed", fields)
		return &Outcome{Result: res}, res.Err
	case StateCancelled:
		fields["reason"] = string(res.Reason)
		x.logger.Warn("Resume export cancelled", fields)
		return &Outcome{Result: res}, fmt.Errorf("%w: %s", ErrCancelled, res.Reason)
	}

	out := &Outcome{Result: res}
	if x.uploader != nil {
		url, err := x.uploader.UploadResumePDF(ctx, sessionID, res.Filename, res.PDF)
		if err != nil {
			fields["error"] = err.Error()
			x.logger.Error("Failed to upload resume export", fields)
			return out, fmt.Errorf("%w: %v", ErrUpload, err)
		}
		out.URL = url
	}

	fields["size_bytes"] = len(res.PDF)
	x.logger.Info("Resume export completed", fields)
	return out, nil
}
