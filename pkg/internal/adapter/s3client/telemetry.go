package s3client

import (
	"github.com/joeydtaylor/jcamp/pkg/internal/types"
	"github.com/joeydtaylor/jcamp/pkg/logschema"
)

// ConnectLogger attaches loggers for adapter events.
func (a *S3Client) ConnectLogger(loggers ...types.Logger) {
	if len(loggers) == 0 {
		return
	}

	n := 0
	for _, l := range loggers {
		if l != nil {
			loggers[n] = l
			n++
		}
	}
	if n == 0 {
		return
	}
	loggers = loggers[:n]

	a.loggersLock.Lock()
	a.loggers = append(a.loggers, loggers...)
	a.loggersLock.Unlock()
}

// NotifyLoggers sends msg to all attached loggers with the component and bucket attached.
func (a *S3Client) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	loggers := a.snapshotLoggers()
	if len(loggers) == 0 {
		return
	}
	kv := make([]interface{}, 0, len(keysAndValues)+4)
	kv = append(kv, logschema.FieldComponent, a.componentMetadata, logschema.FieldBucket, a.bucket)
	kv = append(kv, keysAndValues...)
	types.Notify(loggers, level, msg, kv...)
}

func (a *S3Client) snapshotLoggers() []types.Logger {
	a.loggersLock.Lock()
	defer a.loggersLock.Unlock()

	if len(a.loggers) == 0 {
		return nil
	}

	loggers := make([]types.Logger, len(a.loggers))
	copy(loggers, a.loggers)
	return loggers
}
