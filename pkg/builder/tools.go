package builder

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/joeydtaylor/jcamp/pkg/internal/archive"
	"github.com/joeydtaylor/jcamp/pkg/internal/compression"
	"github.com/joeydtaylor/jcamp/pkg/internal/crystal"
	"github.com/joeydtaylor/jcamp/pkg/internal/export"
	"github.com/joeydtaylor/jcamp/pkg/internal/postprocess"
	"github.com/joeydtaylor/jcamp/pkg/internal/smoothing"
	"github.com/joeydtaylor/jcamp/pkg/internal/types"
)

type (
	CompressionAlgorithm = compression.Algorithm
	ParquetPoint         = export.Point
	ExportOptions        = types.ExportOptions
	SmoothOptions        = smoothing.Options
	PredictRequest       = crystal.PredictRequest
	DiffractionPoint     = crystal.Point
	Predictor            = crystal.Predictor
)

const (
	CompressNone   = compression.None
	CompressGzip   = compression.Gzip
	CompressZstd   = compression.Zstd
	CompressSnappy = compression.Snappy
	CompressBrotli = compression.Brotli
	CompressLZ4    = compression.LZ4
)

// ParseCompression maps a name such as "zstd" to an algorithm.
func ParseCompression(name string) (CompressionAlgorithm, error) {
	return compression.Parse(name)
}

// CompressionFromPath detects the algorithm from a file extension.
func CompressionFromPath(path string) CompressionAlgorithm {
	return compression.FromPath(path)
}

// ExportOptionsFromConfig translates cfg into exporter options.
func ExportOptionsFromConfig(cfg ExportConfig) ExportOptions {
	opts := types.ExportOptions{Compression: cfg.Compression}
	if cfg.RowGroupRows > 0 {
		opts.Extra = map[string]string{"row_group_rows": strconv.Itoa(cfg.RowGroupRows)}
	}
	return opts
}

// WriteParquet exports one row per decoded point of doc.
func WriteParquet(w io.Writer, doc *Document, cfg ExportConfig) (int, error) {
	return export.WriteParquet(w, doc, ExportOptionsFromConfig(cfg))
}

// ReadParquet reads the rows written by WriteParquet.
func ReadParquet(ra io.ReaderAt) ([]ParquetPoint, error) {
	return export.ReadParquet(ra)
}

// ReadInstrumentContainer reads the spectrum stored in a zip instrument container.
func ReadInstrumentContainer(archiveBytes []byte) (*Entry, error) {
	return archive.ReadRawData(archiveBytes)
}

// ExtractMember returns the text of one zip member.
func ExtractMember(archiveBytes []byte, memberPath string) (string, error) {
	return archive.ExtractMember(archiveBytes, memberPath)
}

// Smooth applies Savitzky-Golay smoothing described by cfg to y.
func Smooth(y []float64, cfg SmoothConfig) ([]float64, error) {
	return smoothing.SavitzkyGolay(y, SmoothOptionsFromConfig(cfg))
}

// SmoothOptionsFromConfig fills the unset fields of cfg from smoothing.DefaultOptions.
func SmoothOptionsFromConfig(cfg SmoothConfig) SmoothOptions {
	opts := smoothing.DefaultOptions
	if cfg.Window > 0 {
		opts.WindowSize = cfg.Window
	}
	if cfg.Polynomial > 0 {
		opts.Polynomial = cfg.Polynomial
	}
	opts.Derivative = cfg.Derivative
	return opts
}

// SmoothSpectrum returns a copy of s whose y values are smoothed. Derivatives are scaled by
// the x spacing of s.
func SmoothSpectrum(s *Spectrum, cfg SmoothConfig) (*Spectrum, error) {
	opts := SmoothOptionsFromConfig(cfg)
	if n := len(s.Data.X); n > 1 {
		opts.H = (s.Data.X[n-1] - s.Data.X[0]) / float64(n-1)
	}
	y, err := smoothing.SavitzkyGolay(s.Data.Y, opts)
	if err != nil {
		return nil, err
	}
	cp := *s
	cp.Data = types.XY{X: append([]float64(nil), s.Data.X...), Y: y}
	cp.FirstY, cp.LastY = y[0], y[len(y)-1]
	cp.Variables = nil
	cp.Order = nil
	cp.SetVariable("x", &types.Variable{Symbol: "X", Label: s.XLabel, Units: s.XUnits, Type: "INDEPENDENT", Data: cp.Data.X})
	cp.SetVariable("y", &types.Variable{Symbol: "Y", Label: s.YLabel, Units: s.YUnits, Type: "DEPENDENT", Data: y})
	return &cp, nil
}

// ChromatogramOf reduces e to its time-resolved series.
func ChromatogramOf(e *Entry) *Chromatogram {
	return postprocess.Chromatogram(e)
}

// Matrix2DOf builds the z matrix of a two dimensional entry.
func Matrix2DOf(e *Entry) (*Matrix2D, error) {
	return postprocess.Matrix2D(e)
}

// FIDSpectrum transforms the real and imaginary pages of an NMR FID entry.
func FIDSpectrum(e *Entry) (*Spectrum, error) {
	return postprocess.FIDSpectrum(e)
}

// NewCommandPredictor runs the diffraction engine configured in cfg.
func NewCommandPredictor(cfg CrystalConfig) (*crystal.CommandPredictor, error) {
	if cfg.Command == "" {
		return nil, fmt.Errorf("crystal command is required")
	}
	return &crystal.CommandPredictor{Path: cfg.Command, Args: cfg.Args}, nil
}

// SimulateDiffraction predicts a powder pattern and shapes it into an entry.
func SimulateDiffraction(ctx context.Context, p Predictor, req PredictRequest) (*Entry, error) {
	return crystal.Simulate(ctx, p, req)
}
