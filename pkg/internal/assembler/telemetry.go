package assembler

import (
	"github.com/joeydtaylor/jcamp/pkg/internal/types"
	"github.com/joeydtaylor/jcamp/pkg/logschema"
)

// ConnectLogger registers loggers. Nil loggers are ignored.
func (a *Assembler) ConnectLogger(loggers ...types.Logger) {
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

	a.loggersLock.Lock()
	a.loggers = append(a.loggers, loggers[:n]...)
	a.loggersLock.Unlock()
}

// NotifyLoggers sends msg to every logger whose level admits it. The component metadata is
// always attached.
func (a *Assembler) NotifyLoggers(level types.LogLevel, msg string, keysAndValues ...interface{}) {
	loggers := a.snapshotLoggers()
	if len(loggers) == 0 {
		return
	}
	kv := make([]interface{}, 0, len(keysAndValues)+2)
	kv = append(kv, logschema.FieldComponent, a.componentMetadata)
	kv = append(kv, keysAndValues...)
	types.Notify(loggers, level, msg, kv...)
}

func (a *Assembler) snapshotLoggers() []types.Logger {
	a.loggersLock.Lock()
	loggers := append([]types.Logger(nil), a.loggers...)
	a.loggersLock.Unlock()
	return loggers
}
