package types

import "strings"

// LogLevel orders log severities from Debug to Fatal.
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
	DPanicLevel
	PanicLevel
	FatalLevel
)

func (l LogLevel) String() string {
	switch l {
	case DebugLevel:
		return "debug"
	case InfoLevel:
		return "info"
	case WarnLevel:
		return "warn"
	case ErrorLevel:
		return "error"
	case DPanicLevel:
		return "dpanic"
	case PanicLevel:
		return "panic"
	case FatalLevel:
		return "fatal"
	default:
		return "info"
	}
}

// ParseLogLevel maps a level name to a LogLevel; unknown names map to InfoLevel.
func ParseLogLevel(s string) LogLevel {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return DebugLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	case "dpanic":
		return DPanicLevel
	case "panic":
		return PanicLevel
	case "fatal":
		return FatalLevel
	default:
		return InfoLevel
	}
}

// SinkType names a log destination.
type SinkType string

const (
	FileSink   SinkType = "file"
	StdoutSink SinkType = "stdout"
	StderrSink SinkType = "stderr"
)

// SinkConfig describes an extra log destination. File sinks read Config["path"].
type SinkConfig struct {
	Type   string
	Config map[string]interface{}
}

// Logger is the structured logger every component reports through.
type Logger interface {
	GetLevel() LogLevel
	SetLevel(LogLevel)
	Debug(msg string, keysAndValues ...interface{})
	Info(msg string, keysAndValues ...interface{})
	Warn(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
	DPanic(msg string, keysAndValues ...interface{})
	Panic(msg string, keysAndValues ...interface{})
	Fatal(msg string, keysAndValues ...interface{})
	Flush() error
	AddSink(identifier string, config SinkConfig) error
	RemoveSink(identifier string) error
	ListSinks() ([]string, error)
}

// Notify dispatches msg to every logger whose level admits it.
func Notify(loggers []Logger, level LogLevel, msg string, keysAndValues ...interface{}) {
	for _, logger := range loggers {
		if logger == nil || logger.GetLevel() > level {
			continue
		}
		switch level {
		case DebugLevel:
			logger.Debug(msg, keysAndValues...)
		case InfoLevel:
			logger.Info(msg, keysAndValues...)
		case WarnLevel:
			logger.Warn(msg, keysAndValues...)
		case ErrorLevel:
			logger.Error(msg, keysAndValues...)
		case DPanicLevel:
			logger.DPanic(msg, keysAndValues...)
		case PanicLevel:
			logger.Panic(msg, keysAndValues...)
		case FatalLevel:
			logger.Fatal(msg, keysAndValues...)
		}
	}
}
