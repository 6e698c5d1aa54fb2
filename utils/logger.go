package utils

import (
	"os"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewLogger builds the process logger from ENV and LOG_LEVEL and installs it
// as the zap global logger.
func NewLogger() (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if os.Getenv(ENV) != ENV_RELEASE {
		config = zap.NewDevelopmentConfig()
	}

	if lvl := os.Getenv(LOG_LEVEL); lvl != "" {
		level, err := zapcore.ParseLevel(lvl)
		if err != nil {
			return nil, eris.Wrapf(ErrConfiguration, "invalid LOG_LEVEL %q", lvl)
		}
		config.Level = zap.NewAtomicLevelAt(level)
	}

	logger, err := config.Build()
	if err != nil {
		return nil, eris.Wrap(err, "build logger")
	}
	zap.ReplaceGlobals(logger)
	return logger, nil
}
