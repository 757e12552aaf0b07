package logger

import (
	"io"
	"os"
	"path/filepath"
	"sync"

	"rentalhub/pkg/config"

	"github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu     sync.RWMutex
	Logger *logrus.Logger
)

// New builds a logger from cfg. When FilePath is set, output goes to stdout
// and a size-rotated file.
func New(cfg *config.LogConfig) (*logrus.Logger, error) {
	l := logrus.New()

	level, err := logrus.ParseLevel(cfg.Level)
	if err != nil {
		level = logrus.InfoLevel
	}
	l.SetLevel(level)

	switch cfg.Format {
	case "json":
		l.SetFormatter(&logrus.JSONFormatter{TimestampFormat: "2006-01-02T15:04:05.000Z07:00"})
	default:
		l.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}

	if cfg.FilePath == "" {
		l.SetOutput(os.Stdout)
		return l, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.FilePath), 0755); err != nil {
		return nil, err
	}
	l.SetOutput(io.MultiWriter(os.Stdout, &lumberjack.Logger{
		Filename:   cfg.FilePath,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
	}))
	return l, nil
}

// Initialize installs the process-wide logger.
func Initialize(cfg *config.Config) error {
	l, err := New(&cfg.Log)
	if err != nil {
		return err
	}
	mu.Lock()
	Logger = l
	mu.Unlock()
	return nil
}

// GetLogger returns the process logger, or a default stderr logger when
// Initialize has not run (tests, CLI tools).
func GetLogger() *logrus.Logger {
	mu.RLock()
	l := Logger
	mu.RUnlock()
	if l != nil {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if Logger == nil {
		Logger = logrus.New()
	}
	return Logger
}

// WithModule tags entries with the emitting component.
func WithModule(module string) *logrus.Entry {
	return GetLogger().WithField("module", module)
}
