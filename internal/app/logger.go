package app

import (
	"fmt"

	"go.uber.org/zap"
)

// initLogger создает и настраивает логгер.
// "production" включает JSON логгер, иначе development логгер с заданным уровнем.
func initLogger(logLevel string) (*zap.Logger, error) {
	if logLevel == "production" {
		logger, err := zap.NewProduction()
		if err != nil {
			return nil, fmt.Errorf("failed to init logger: %w", err)
		}
		return logger, nil
	}

	cfg := zap.NewDevelopmentConfig()
	if logLevel != "" {
		level, err := zap.ParseAtomicLevel(logLevel)
		if err != nil {
			return nil, fmt.Errorf("failed to init logger: %w", err)
		}
		cfg.Level = level
	}

	logger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to init logger: %w", err)
	}

	return logger, nil
}
