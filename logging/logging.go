// Package logging builds the process logger. The terminal UI owns stdout, so
// logs go to a file under the profile directory.
package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Path returns the log file location for a profile directory.
func Path(profileDir string) string {
	return filepath.Join(profileDir, "logs", "blogterm.log")
}

// New returns a JSON logger appending to Path(profileDir). Debug entries are
// kept only when verbose is set.
func New(profileDir string, verbose bool) (*zap.Logger, error) {
	path := Path(profileDir)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	config.OutputPaths = []string{path}
	config.ErrorOutputPaths = []string{path}
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return logger, nil
}
