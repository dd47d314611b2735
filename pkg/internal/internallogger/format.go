package internallogger

import (
	"time"

	"github.com/joeydtaylor/jcamp/pkg/internal/types"
	"github.com/joeydtaylor/jcamp/pkg/logschema"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// encoderConfig is the jcamp.log.v1 line layout. Loggers are never named, so there is no name key.
func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:        logschema.FieldTimestamp,
		LevelKey:       logschema.FieldLevel,
		CallerKey:      logschema.FieldCaller,
		MessageKey:     logschema.FieldMessage,
		StacktraceKey:  logschema.FieldStack,
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     func(t time.Time, enc zapcore.PrimitiveArrayEncoder) { enc.AppendString(t.UTC().Format(time.RFC3339Nano)) },
		EncodeDuration: zapcore.MillisDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// field converts one key/value pair. Diagnostics and components become nested objects.
func field(key string, value interface{}) zap.Field {
	switch v := value.(type) {
	case types.Diagnostic:
		return zap.Object(key, diagnosticObject(v))
	case types.ComponentMetadata:
		return zap.Object(key, componentObject(v))
	case *types.ComponentMetadata:
		if v == nil {
			return zap.Skip()
		}
		return zap.Object(key, componentObject(*v))
	case error:
		return zap.NamedError(key, v)
	default:
		return zap.Any(key, v)
	}
}

func diagnosticObject(d types.Diagnostic) zapcore.ObjectMarshalerFunc {
	return func(enc zapcore.ObjectEncoder) error {
		enc.AddString(logschema.FieldLabel, d.Label)
		enc.AddString(logschema.FieldEntry, d.Entry)
		enc.AddInt(logschema.FieldLine, d.Line)
		enc.AddString(logschema.FieldMessage, d.Msg)
		return nil
	}
}

func componentObject(m types.ComponentMetadata) zapcore.ObjectMarshalerFunc {
	return func(enc zapcore.ObjectEncoder) error {
		enc.AddString("id", m.ID)
		enc.AddString("type", m.Type)
		if m.Name != "" {
			enc.AddString("name", m.Name)
		}
		return nil
	}
}
