package exporter

import (
	"context"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"

	"resume-builder/internal/config"
	"resume-builder/internal/logging"
	"resume-builder/internal/logging/types"
)

// A4 in inches
const (
	a4Width  = 8.27
	a4Height = 11.69
)

// RodSurface prints pages with a shared headless Chromium
type RodSurface struct {
	chromePath string
	headless   bool
	logger     types.Logger

	mu       sync.Mutex
	launcher *launcher.Launcher
	browser  *rod.Browser
}

// NewRodSurface creates a surface; the browser starts on first use
func NewRodSurface(cfg *config.Config) *RodSurface {
	return &RodSurface{
		chromePath: cfg.Export.ChromePath,
		headless:   cfg.Export.Headless,
		logger:     logging.GetGlobalLogger(),
	}
}

func (s *RodSurface) ensureBrowser() (*rod.Browser, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser != nil {
		return s.browser, nil
	}

	l := launcher.New().
		Headless(s.headless).
		NoSandbox(true).
		Set("disable-gpu").
		Set("disable-dev-shm-usage")

	if path := s.resolveChromePath(); path != "" {
		l = l.Bin(path)
		s.logger.Info("Using system Chrome browser", map[string]interface{}{
			"chrome_path": path,
		})
	} else {
		s.logger.Warn("System Chrome not found, Rod will download browser", map[string]interface{}{})
	}

	url, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("failed to launch browser: %w", err)
	}

	browser := rod.New().ControlURL(url)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}

	s.launcher = l
	s.browser = browser
	s.logger.Info("Print browser started", map[string]interface{}{})
	return browser, nil
}

func (s *RodSurface) resolveChromePath() string {
	if s.chromePath != "" {
		if _, err := os.Stat(s.chromePath); err == nil {
			return s.chromePath
		}
	}
	if path, ok := launcher.LookPath(); ok {
		return path
	}
	return ""
}

// Print loads html into a fresh tab and prints it to PDF
func (s *RodSurface) Print(ctx context.Context, html string) ([]byte, error) {
	browser, err := s.ensureBrowser()
	if err != nil {
		return nil, err
	}

	page, err := browser.Context(ctx).Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, fmt.Errorf("failed to open print page: %w", err)
	}
	defer func() {
		if cerr := page.Close(); cerr != nil {
			s.logger.Debug("Failed to close print page", map[string]interface{}{
				"error": cerr.Error(),
			})
		}
	}()

	if err := page.SetDocumentContent(html); err != nil {
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	if err := page.WaitLoad(); err != nil {
		return nil, fmt.Errorf("failed waiting for document: %w", err)
	}

	width, height := a4Width, a4Height
	stream, err := page.PDF(&proto.PagePrintToPDF{
		PrintBackground:   true,
		PaperWidth:        &width,
		PaperHeight:       &height,
		PreferCSSPageSize: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to print document: %w", err)
	}

	pdf, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("failed to read printed document: %w", err)
	}
	return pdf, nil
}

// Close shuts the shared browser down
func (s *RodSurface) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.browser == nil {
		return nil
	}
	err := s.browser.Close()
	if s.launcher != nil {
		s.launcher.Kill()
	}
	s.browser = nil
	s.launcher = nil
	return err
}
