package types

import "io"

// Decoder deserializes one value from r.
type Decoder[T any] interface {
	Decode(io.Reader) (T, error)
}

// Encoder serializes one value to w.
type Encoder[T any] interface {
	Encode(io.Writer, T) error
}

// ExportOptions carries per-format knobs for columnar and compressed outputs.
type ExportOptions struct {
	// Compression names the codec: "snappy" (default), "zstd", "gzip" for parquet;
	// "gzip", "zstd", "snappy", "brotli", "lz4" or "none" for text documents.
	Compression string
	// Extra holds free-form format options such as {"row_group_rows":"50000"}.
	Extra map[string]string
}
