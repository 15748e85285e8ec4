// Command render turns a saved resume document into HTML or PDF without
// running the HTTP server.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"resume-builder/internal/catalog"
	"resume-builder/internal/config"
	"resume-builder/internal/exporter"
	"resume-builder/internal/logging"
	"resume-builder/internal/render"
	"resume-builder/internal/session"
	"resume-builder/pkg/models"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "path to the configuration file")
	input := flag.String("in", "", "resume document JSON (required)")
	templateID := flag.String("template", string(catalog.DefaultTemplate), "template id")
	target := flag.String("target", "print", "html target: print or preview")
	output := flag.String("out", "", "output file; .pdf exports through the browser, anything else writes HTML")
	flag.Parse()

	if *input == "" {
		flag.Usage()
		os.Exit(2)
	}

	if err := run(*configPath, *input, *templateID, *target, *output); err != nil {
		fmt.Fprintf(os.Stderr, "render: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, input, templateID, target, output string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if err := logging.InitializeLogging(cfg); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}
	defer logging.CloseLogging()

	data, err := os.ReadFile(input)
	if err != nil {
		return err
	}
	doc, err := session.Decode(data)
	if err != nil {
		return err
	}

	tmpl := string(catalog.ResolveTemplate(templateID).ID)
	renderer := render.NewRenderer()

	if strings.EqualFold(filepath.Ext(output), ".pdf") {
		return exportPDF(cfg, renderer, doc, tmpl, output)
	}

	t := render.TargetPrint
	if target == render.TargetPreview.String() {
		t = render.TargetPreview
	}
	html, err := renderer.Render(doc, tmpl, t)
	if err != nil {
		return err
	}
	if output == "" {
		_, err = fmt.Fprint(os.Stdout, html)
		return err
	}
	return os.WriteFile(output, []byte(html), 0o644)
}

func exportPDF(cfg *config.Config, renderer *render.Renderer, doc *models.ResumeDocument, templateID, output string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	surface := exporter.NewRodSurface(cfg)
	defer surface.Close()

	outcome, err := exporter.NewExporter(renderer, surface, nil, cfg.Export.Timeout).ExportResume(ctx, "cli", doc, templateID)
	if err != nil {
		return err
	}

	logging.GetGlobalLogger().Info(outcome.Message, map[string]interface{}{
		"file":     output,
		"filename": outcome.Filename,
		"bytes":    len(outcome.PDF),
	})
	return os.WriteFile(output, outcome.PDF, 0o644)
}
