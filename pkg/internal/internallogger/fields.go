package internallogger

import (
	"sort"

	"go.uber.org/zap"
)

// fieldsFromMap sorts keys so base fields render in a stable order.
func fieldsFromMap(fields map[string]interface{}) []zap.Field {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		if key == "" {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	out := make([]zap.Field, 0, len(keys))
	for _, key := range keys {
		out = append(out, field(key, fields[key]))
	}
	return out
}
