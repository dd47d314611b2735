package builder

import (
	internalLogger "github.com/joeydtaylor/jcamp/pkg/internal/internallogger"
	"github.com/joeydtaylor/jcamp/pkg/internal/types"
	"github.com/joeydtaylor/jcamp/pkg/logschema"
)

type (
	Logger       = types.Logger
	LoggerOption = internalLogger.LoggerOption
	SinkConfig   = types.SinkConfig
	SinkType     = types.SinkType
	LogLevel     = types.LogLevel
)

const (
	FileSink   SinkType = types.FileSink
	StdoutSink SinkType = types.StdoutSink
	StderrSink SinkType = types.StderrSink
)

const (
	DebugLevel = types.DebugLevel
	InfoLevel  = types.InfoLevel
	WarnLevel  = types.WarnLevel
	ErrorLevel = types.ErrorLevel
)

// NewLogger returns a zap logger writing jcamp.log.v1 JSON lines to stderr.
func NewLogger(options ...LoggerOption) Logger {
	return internalLogger.NewLogger(options...)
}

// LoggerWithLevel sets the minimum level by name.
func LoggerWithLevel(level string) LoggerOption { return internalLogger.LoggerWithLevel(level) }

// LoggerWithDevelopment makes DPanic records panic.
func LoggerWithDevelopment(dev bool) LoggerOption { return internalLogger.LoggerWithDevelopment(dev) }

// LoggerWithFields attaches fields to every record.
func LoggerWithFields(fields map[string]interface{}) LoggerOption {
	return internalLogger.LoggerWithFields(fields)
}

// LoggerWithoutCaller drops the caller field.
func LoggerWithoutCaller() LoggerOption { return internalLogger.LoggerWithoutCaller() }

// NewLoggerFromConfig builds the logger described by cfg. When cfg.File is set the records are
// also appended to that file; a sink that cannot be opened is reported on stderr and skipped.
func NewLoggerFromConfig(cfg LogConfig) Logger {
	level := cfg.Level
	if level == "" {
		level = "info"
	}
	logger := NewLogger(LoggerWithLevel(level), LoggerWithDevelopment(cfg.Development))
	if cfg.File != "" {
		sink := SinkConfig{Type: string(FileSink), Config: map[string]interface{}{"path": cfg.File}}
		if err := logger.AddSink("file", sink); err != nil {
			logger.Warn("log file sink disabled",
				logschema.FieldEvent, "config",
				logschema.FieldError, err,
			)
		}
	}
	return logger
}
