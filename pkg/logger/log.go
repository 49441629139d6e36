package logger

import (
	"os"

	"go.uber.org/zap"
)

const logDir = "./logs"

// NewLogger writes human-readable entries to stdout and ./logs/app.log.
func NewLogger() *zap.Logger {
	outputs := []string{"stdout"}
	if err := os.MkdirAll(logDir, 0o755); err == nil {
		outputs = append(outputs, logDir+"/app.log")
	}

	cfg := zap.Config{
		Encoding:         "console",
		Level:            zap.NewAtomicLevelAt(zap.DebugLevel),
		OutputPaths:      outputs,
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig:    zap.NewProductionEncoderConfig(),
	}

	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
