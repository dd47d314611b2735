// Package export writes decoded spectra as columnar parquet files, one row per point.
package export

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	parquet "github.com/parquet-go/parquet-go"

	"github.com/joeydtaylor/jcamp/pkg/internal/types"
)

// Point is one exported row.
type Point struct {
	Entry    int32   `parquet:"entry"`
	Title    string  `parquet:"title,dict"`
	Spectrum int32   `parquet:"spectrum"`
	Page     float64 `parquet:"page"`
	X        float64 `parquet:"x"`
	Y        float64 `parquet:"y"`
}

const defaultRowGroupRows = 50_000

// Rows flattens every spectrum of doc into points, in document order. Entry indexes refer to
// the document arena.
func Rows(doc *types.Document) []Point {
	var out []Point
	for ei, e := range doc.Entries {
		for si, s := range e.Spectra {
			n := s.Data.Len()
			for i := 0; i < n; i++ {
				out = append(out, Point{
					Entry:    int32(ei),
					Title:    e.Title,
					Spectrum: int32(si),
					Page:     s.PageValue,
					X:        s.Data.X[i],
					Y:        s.Data.Y[i],
				})
			}
		}
	}
	return out
}

// WriteParquet writes the points of doc to w and returns the number of rows written.
// opts.Compression selects snappy (default), zstd or gzip; opts.Extra["row_group_rows"]
// bounds the rows per row group.
func WriteParquet(w io.Writer, doc *types.Document, opts types.ExportOptions) (int, error) {
	rows := Rows(doc)

	per := defaultRowGroupRows
	if s, ok := opts.Extra["row_group_rows"]; ok {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			per = n
		}
	}

	pw := parquet.NewGenericWriter[Point](w, compressionOption(opts.Compression))
	for start := 0; start < len(rows); start += per {
		end := start + per
		if end > len(rows) {
			end = len(rows)
		}
		if _, err := pw.Write(rows[start:end]); err != nil {
			return 0, fmt.Errorf("export: write rows: %w", err)
		}
		if err := pw.Flush(); err != nil {
			return 0, fmt.Errorf("export: flush row group: %w", err)
		}
	}
	if err := pw.Close(); err != nil {
		return 0, fmt.Errorf("export: close: %w", err)
	}
	return len(rows), nil
}

// MarshalParquet returns the parquet encoding of doc.
func MarshalParquet(doc *types.Document, opts types.ExportOptions) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := WriteParquet(&buf, doc, opts); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ReadParquet reads back every row written by WriteParquet.
func ReadParquet(ra io.ReaderAt) ([]Point, error) {
	gr := parquet.NewGenericReader[Point](ra)
	defer gr.Close()

	out := make([]Point, 0, 1024)
	batch := make([]Point, 1024)
	for {
		n, err := gr.Read(batch)
		if n > 0 {
			out = append(out, batch[:n]...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("export: read rows: %w", err)
		}
	}
	return out, nil
}

// Document regroups points into a flat document: one entry per distinct entry index and one
// spectrum per distinct spectrum index, both in ascending order.
func Document(points []Point) *types.Document {
	type key struct{ entry, spectrum int32 }
	titles := make(map[int32]string)
	spectra := make(map[key]*types.Spectrum)
	var keys []key

	for _, p := range points {
		k := key{p.Entry, p.Spectrum}
		s, ok := spectra[k]
		if !ok {
			s = types.NewSpectrum()
			s.PageValue = p.Page
			spectra[k] = s
			keys = append(keys, k)
			titles[p.Entry] = p.Title
		}
		s.Data.X = append(s.Data.X, p.X)
		s.Data.Y = append(s.Data.Y, p.Y)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].entry != keys[j].entry {
			return keys[i].entry < keys[j].entry
		}
		return keys[i].spectrum < keys[j].spectrum
	})

	doc := &types.Document{}
	last := int32(-1)
	var e *types.Entry
	for _, k := range keys {
		if e == nil || k.entry != last {
			e = types.NewEntry(titles[k.entry])
			doc.Roots = append(doc.Roots, len(doc.Entries))
			doc.Entries = append(doc.Entries, e)
			last = k.entry
		}
		s := spectra[k]
		s.Kind = types.KindExternal
		s.NbPoints = len(s.Data.X)
		s.FirstX, s.LastX = s.Data.X[0], s.Data.X[s.NbPoints-1]
		s.FirstY, s.LastY = s.Data.Y[0], s.Data.Y[s.NbPoints-1]
		s.SetVariable("x", &types.Variable{Symbol: "X", Type: "INDEPENDENT", Data: s.Data.X})
		s.SetVariable("y", &types.Variable{Symbol: "Y", Type: "DEPENDENT", Data: s.Data.Y})
		e.Spectra = append(e.Spectra, s)
	}
	return doc
}

func compressionOption(name string) parquet.WriterOption {
	switch strings.ToLower(name) {
	case "zstd":
		return parquet.Compression(&parquet.Zstd)
	case "gzip", "gz":
		return parquet.Compression(&parquet.Gzip)
	default:
		return parquet.Compression(&parquet.Snappy)
	}
}

// CompressionName normalises the parquet codec name reported in logs.
func CompressionName(name string) string {
	switch n := strings.ToLower(name); n {
	case "zstd":
		return n
	case "gzip", "gz":
		return "gzip"
	default:
		return "snappy"
	}
}
