package internallogger

import (
	"github.com/joeydtaylor/jcamp/pkg/internal/types"
	"go.uber.org/zap/zapcore"
)

// zapLevels is indexed by types.LogLevel.
var zapLevels = [...]zapcore.Level{
	types.DebugLevel:  zapcore.DebugLevel,
	types.InfoLevel:   zapcore.InfoLevel,
	types.WarnLevel:   zapcore.WarnLevel,
	types.ErrorLevel:  zapcore.ErrorLevel,
	types.DPanicLevel: zapcore.DPanicLevel,
	types.PanicLevel:  zapcore.PanicLevel,
	types.FatalLevel:  zapcore.FatalLevel,
}

func parseLogLevel(levelStr string) types.LogLevel {
	return types.ParseLogLevel(levelStr)
}

// ConvertLevel maps a types.LogLevel to zap; unknown levels become info.
func ConvertLevel(level types.LogLevel) zapcore.Level {
	if level < 0 || int(level) >= len(zapLevels) {
		return zapcore.InfoLevel
	}
	return zapLevels[level]
}

func convertZapLevel(level zapcore.Level) types.LogLevel {
	for l, zl := range zapLevels {
		if zl == level {
			return types.LogLevel(l)
		}
	}
	return types.InfoLevel
}
