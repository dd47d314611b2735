// Package logschema names the fields of the structured log lines emitted by the codec.
package logschema

const (
	SchemaID    = "jcamp.log.v1"
	FieldSchema = "log_schema"

	FieldTimestamp = "ts"
	FieldLevel     = "level"
	FieldMessage   = "msg"
	FieldLogger    = "logger"
	FieldCaller    = "caller"
	FieldStack     = "stack"

	FieldComponent = "component"
	FieldEvent     = "event"
	FieldError     = "error"

	FieldLabel    = "label"
	FieldEntry    = "entry"
	FieldSpectrum = "spectrum"
	FieldPoints   = "points"
	FieldLine     = "line"

	FieldBucket      = "bucket"
	FieldKey         = "key"
	FieldBytes       = "bytes"
	FieldRecords     = "records"
	FieldCompression = "compression"
)
