package logger

import (
	"go.uber.org/zap"
)

// New creates a JSON logger for long-running processes
func New(verbosity string) (*zap.Logger, error) {
	return build(zap.NewProductionConfig(), verbosity)
}

// NewDevelopment creates a human-readable console logger for the command-line tools
func NewDevelopment(verbosity string) (*zap.Logger, error) {
	return build(zap.NewDevelopmentConfig(), verbosity)
}

func build(config zap.Config, verbosity string) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(verbosity)
	if err != nil {
		return nil, err
	}
	config.Level = level
	return config.Build()
}
