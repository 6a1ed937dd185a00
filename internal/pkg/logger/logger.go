package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// New создает zap логгер сервиса. Неизвестный level - info.
// format пустой: console для debug, иначе json.
func New(level, format string) (*zap.Logger, error) {
	var zapLevel zapcore.Level
	if err := zapLevel.UnmarshalText([]byte(level)); err != nil {
		zapLevel = zapcore.InfoLevel
	}

	if format == "" {
		format = FormatJSON
		if zapLevel == zapcore.DebugLevel {
			format = FormatConsole
		}
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	cfg.Encoding = format
	cfg.Sampling = nil
	cfg.InitialFields = map[string]interface{}{"service": "stop-registry"}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	if format == FormatConsole {
		cfg.Development = true
		cfg.EncoderConfig = zap.NewDevelopmentEncoderConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}

	return cfg.Build()
}
