package cli

import (
	"fmt"

	"go.uber.org/zap"
)

func createLogger(debug bool, logLevel string) (*zap.Logger, error) {
	level, err := zap.ParseAtomicLevel(logLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %s: %w", logLevel, err)
	}

	var loggerCfg zap.Config
	if debug {
		loggerCfg = zap.NewDevelopmentConfig()
	} else {
		loggerCfg = zap.NewProductionConfig()
	}
	loggerCfg.Level = level

	logger, err := loggerCfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return logger.Named("extractr"), nil
}
