package adapters

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"

	"resume-builder/internal/logging/types"
)

// LogrusConfig configures the logrus-backed adapter
type LogrusConfig struct {
	Output string    `yaml:"output"` // "stdout", "stderr" or a file path
	Level  string    `yaml:"level"`
	Writer io.Writer `yaml:"-"` // overrides Output when set
}

// LogrusAdapter hands entries to a logrus logger with a JSON formatter
type LogrusAdapter struct {
	name   string
	logger *logrus.Logger
	closer io.Closer
}

// NewLogrusAdapter creates the adapter, opening the output file if needed
func NewLogrusAdapter(name string, config LogrusConfig) (*LogrusAdapter, error) {
	l := logrus.New()
	l.SetFormatter(&logrus.JSONFormatter{})

	level, err := logrus.ParseLevel(config.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	adapter := &LogrusAdapter{name: name, logger: l}

	switch {
	case config.Writer != nil:
		l.SetOutput(config.Writer)
	case config.Output == "" || config.Output == "stdout":
		l.SetOutput(os.Stdout)
	case config.Output == "stderr":
		l.SetOutput(os.Stderr)
	default:
		if err := os.MkdirAll(filepath.Dir(config.Output), 0o755); err != nil {
			return nil, fmt.Errorf("create log directory: %w", err)
		}
		f, err := os.OpenFile(config.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		l.SetOutput(f)
		adapter.closer = f
	}

	return adapter, nil
}

// Write forwards the entry to logrus
func (a *LogrusAdapter) Write(entry *types.LogEntry) error {
	fields := make(logrus.Fields, len(entry.Fields))
	for k, v := range entry.Fields {
		fields[k] = v
	}

	e := a.logger.WithFields(fields).WithTime(entry.Timestamp)
	if entry.Context != nil {
		e = e.WithContext(entry.Context)
	}

	// Fatal is downgraded so the adapter never exits the process itself
	switch entry.Level {
	case types.DebugLevel:
		e.Debug(entry.Message)
	case types.InfoLevel:
		e.Info(entry.Message)
	case types.WarnLevel:
		e.Warn(entry.Message)
	default:
		e.Error(entry.Message)
	}
	return nil
}

func (a *LogrusAdapter) Close() error {
	if a.closer != nil {
		return a.closer.Close()
	}
	return nil
}

func (a *LogrusAdapter) Health() error { return nil }
func (a *LogrusAdapter) Name() string  { return a.name }
