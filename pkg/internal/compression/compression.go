// Package compression wraps the stream codecs used for stored JCAMP documents.
package compression

import (
	"bytes"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4"
)

// Algorithm names a supported stream codec.
type Algorithm string

const (
	None   Algorithm = ""
	Gzip   Algorithm = "gzip"
	Zstd   Algorithm = "zstd"
	Snappy Algorithm = "snappy"
	Brotli Algorithm = "brotli"
	LZ4    Algorithm = "lz4"
)

var extensions = map[string]Algorithm{
	".gz":   Gzip,
	".gzip": Gzip,
	".zst":  Zstd,
	".zstd": Zstd,
	".sz":   Snappy,
	".br":   Brotli,
	".lz4":  LZ4,
}

// Parse maps a user supplied name ("gzip", "ZSTD", "none") to an Algorithm.
func Parse(name string) (Algorithm, error) {
	switch a := Algorithm(strings.ToLower(strings.TrimSpace(name))); a {
	case None, Gzip, Zstd, Snappy, Brotli, LZ4:
		return a, nil
	case "none":
		return None, nil
	default:
		return None, fmt.Errorf("compression: unknown algorithm %q", name)
	}
}

// FromPath detects the algorithm from the file extension of p.
func FromPath(p string) Algorithm {
	return extensions[strings.ToLower(path.Ext(p))]
}

// Extension returns the file suffix written for a, or "" for None.
func Extension(a Algorithm) string {
	switch a {
	case Gzip:
		return ".gz"
	case Zstd:
		return ".zst"
	case Snappy:
		return ".sz"
	case Brotli:
		return ".br"
	case LZ4:
		return ".lz4"
	}
	return ""
}

// TrimExtension strips a recognised compression suffix from p.
func TrimExtension(p string) string {
	if FromPath(p) == None {
		return p
	}
	return strings.TrimSuffix(p, path.Ext(p))
}

// Compress encodes data with algorithm. None returns data unchanged.
func Compress(data []byte, algorithm Algorithm) ([]byte, error) {
	var b bytes.Buffer
	var w io.WriteCloser

	switch algorithm {
	case None:
		return data, nil
	case Gzip:
		w = gzip.NewWriter(&b)
	case Snappy:
		w = snappy.NewBufferedWriter(&b)
	case Zstd:
		var err error
		w, err = zstd.NewWriter(&b)
		if err != nil {
			return nil, err
		}
	case Brotli:
		w = brotli.NewWriterLevel(&b, brotli.BestCompression)
	case LZ4:
		w = lz4.NewWriter(&b)
	default:
		return nil, fmt.Errorf("compression: unknown algorithm %q", algorithm)
	}

	if _, err := w.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return b.Bytes(), nil
}

// Decompress decodes data produced by Compress with the same algorithm.
func Decompress(data []byte, algorithm Algorithm) ([]byte, error) {
	var r io.Reader

	switch algorithm {
	case None:
		return data, nil
	case Gzip:
		gr, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer gr.Close()
		r = gr
	case Snappy:
		r = snappy.NewReader(bytes.NewReader(data))
	case Zstd:
		zr, err := zstd.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer zr.Close()
		r = zr
	case Brotli:
		r = brotli.NewReader(bytes.NewReader(data))
	case LZ4:
		r = lz4.NewReader(bytes.NewReader(data))
	default:
		return nil, fmt.Errorf("compression: unknown algorithm %q", algorithm)
	}

	var b bytes.Buffer
	if _, err := io.Copy(&b, r); err != nil {
		return nil, fmt.Errorf("compression: %s: %w", algorithm, err)
	}
	return b.Bytes(), nil
}

// DecompressPath decompresses data according to the extension of p.
func DecompressPath(p string, data []byte) ([]byte, error) {
	return Decompress(data, FromPath(p))
}
