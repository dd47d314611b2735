package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/joeydtaylor/jcamp/pkg/builder"
	"github.com/joeydtaylor/jcamp/pkg/logschema"
)

// load decodes the document at path. "-" reads stdin; zip files are read as instrument
// containers; other paths are decompressed by extension.
func (e *env) load(ctx context.Context, path string) (*builder.Result, error) {
	asm, err := builder.NewAssemblerFromConfig(e.cfg.Parse, e.logger)
	if err != nil {
		return nil, err
	}
	if path == "-" {
		b, err := io.ReadAll(e.stdin)
		if err != nil {
			return nil, err
		}
		return asm.ParseBytesContext(ctx, b)
	}
	if strings.EqualFold(filepath.Ext(path), ".zip") {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		entry, err := builder.ReadInstrumentContainer(b)
		if err != nil {
			return nil, err
		}
		return &builder.Result{Document: builder.NewDocument(entry)}, nil
	}
	return builder.ParseFile(ctx, asm, path)
}

// create opens path for writing; "" and "-" mean stdout.
func (e *env) create(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return e.stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, f.Close, nil
}

// writeJCAMP serializes doc to path, compressed by its extension, or to stdout compressed with
// the configured algorithm.
func (e *env) writeJCAMP(doc *builder.Document, path string) error {
	z := builder.NewSerializerFromConfig(e.cfg.Serialize, e.logger)
	if path != "" && path != "-" {
		return builder.WriteFile(z, path, doc)
	}
	alg, err := builder.ParseCompression(e.cfg.Serialize.Compression)
	if err != nil {
		return err
	}
	return builder.NewJCAMPEncoder(z, alg).Encode(e.stdout, doc)
}

func (e *env) writeJSON(v interface{}, path string, compact bool) error {
	w, closeFn, err := e.create(path)
	if err != nil {
		return err
	}
	indent := "  "
	if compact {
		indent = ""
	}
	if err := builder.NewJSONEncoder[interface{}](indent).Encode(w, v); err != nil {
		closeFn()
		return err
	}
	return closeFn()
}

// oneInput checks that exactly one positional argument remains.
func oneInput(fs *flag.FlagSet) (string, error) {
	if fs.NArg() != 1 {
		fs.Usage()
		return "", errUsage
	}
	return fs.Arg(0), nil
}

func runJSON(ctx context.Context, e *env, args []string) error {
	fs := newFlags(e, "json", "<input>")
	out := fs.String("o", "", "output file (default stdout)")
	compact := fs.Bool("compact", false, "do not indent")
	withoutXY := fs.Bool("no-data", e.cfg.Parse.WithoutXY, "skip data blocks, metadata only")
	if err := fs.Parse(args); err != nil {
		return err
	}
	in, err := oneInput(fs)
	if err != nil {
		return err
	}
	e.cfg.Parse.WithoutXY = *withoutXY

	res, err := e.load(ctx, in)
	if err != nil {
		return err
	}
	return e.writeJSON(res, *out, *compact)
}

func runJCAMP(ctx context.Context, e *env, args []string) error {
	fs := newFlags(e, "jcamp", "<input>")
	out := fs.String("o", "", "output file, compressed by extension (default stdout)")
	owner := fs.String("owner", e.cfg.Serialize.Owner, "##OWNER written in each entry")
	if err := fs.Parse(args); err != nil {
		return err
	}
	in, err := oneInput(fs)
	if err != nil {
		return err
	}
	e.cfg.Serialize.Owner = *owner

	res, err := e.load(ctx, in)
	if err != nil {
		return err
	}
	return e.writeJCAMP(res.Document, *out)
}

func runParquet(ctx context.Context, e *env, args []string) error {
	fs := newFlags(e, "parquet", "<input>")
	out := fs.String("o", "", "output file (default stdout)")
	codec := fs.String("compression", e.cfg.Export.Compression, "snappy, zstd or gzip")
	rows := fs.Int("row-group-rows", e.cfg.Export.RowGroupRows, "rows per row group")
	if err := fs.Parse(args); err != nil {
		return err
	}
	in, err := oneInput(fs)
	if err != nil {
		return err
	}

	res, err := e.load(ctx, in)
	if err != nil {
		return err
	}
	w, closeFn, err := e.create(*out)
	if err != nil {
		return err
	}
	n, err := builder.WriteParquet(w, res.Document, builder.ExportConfig{Compression: *codec, RowGroupRows: *rows})
	if err != nil {
		closeFn()
		return err
	}
	e.logger.Info("parquet written",
		logschema.FieldEvent, "export",
		logschema.FieldRecords, n,
		logschema.FieldCompression, *codec,
	)
	return closeFn()
}

type chromatogramOut struct {
	Title        string                `json:"title"`
	Chromatogram *builder.Chromatogram `json:"chromatogram"`
}

func runChromatogram(ctx context.Context, e *env, args []string) error {
	fs := newFlags(e, "chromatogram", "<input>")
	out := fs.String("o", "", "output file (default stdout)")
	compact := fs.Bool("compact", false, "do not indent")
	if err := fs.Parse(args); err != nil {
		return err
	}
	in, err := oneInput(fs)
	if err != nil {
		return err
	}
	e.cfg.Parse.Chromatogram = true

	res, err := e.load(ctx, in)
	if err != nil {
		return err
	}
	var list []chromatogramOut
	for _, entry := range res.Document.Flatten() {
		c := entry.Chromatogram
		if c == nil {
			c = builder.ChromatogramOf(entry)
		}
		list = append(list, chromatogramOut{Title: entry.Title, Chromatogram: c})
	}
	return e.writeJSON(list, *out, *compact)
}

func runSmooth(ctx context.Context, e *env, args []string) error {
	fs := newFlags(e, "smooth", "<input>")
	out := fs.String("o", "", "output file, compressed by extension (default stdout)")
	window := fs.Int("window", e.cfg.Smooth.Window, "odd window size")
	poly := fs.Int("polynomial", e.cfg.Smooth.Polynomial, "polynomial order")
	deriv := fs.Int("derivative", e.cfg.Smooth.Derivative, "derivative order")
	if err := fs.Parse(args); err != nil {
		return err
	}
	in, err := oneInput(fs)
	if err != nil {
		return err
	}
	cfg := builder.SmoothConfig{Window: *window, Polynomial: *poly, Derivative: *deriv}

	res, err := e.load(ctx, in)
	if err != nil {
		return err
	}
	for _, entry := range res.Document.Flatten() {
		for i, s := range entry.Spectra {
			smoothed, err := builder.SmoothSpectrum(s, cfg)
			if err != nil {
				return fmt.Errorf("entry %q spectrum %d: %w", entry.Title, i, err)
			}
			entry.Spectra[i] = smoothed
		}
	}
	return e.writeJCAMP(res.Document, *out)
}

func runContainer(ctx context.Context, e *env, args []string) error {
	fs := newFlags(e, "container", "<archive.zip>")
	out := fs.String("o", "", "output file, compressed by extension (default stdout)")
	member := fs.String("member", "", "print this member verbatim instead of converting")
	if err := fs.Parse(args); err != nil {
		return err
	}
	in, err := oneInput(fs)
	if err != nil {
		return err
	}
	b, err := os.ReadFile(in)
	if err != nil {
		return err
	}

	if *member != "" {
		text, err := builder.ExtractMember(b, *member)
		if err != nil {
			return err
		}
		w, closeFn, err := e.create(*out)
		if err != nil {
			return err
		}
		if _, err := io.WriteString(w, text); err != nil {
			closeFn()
			return err
		}
		return closeFn()
	}

	entry, err := builder.ReadInstrumentContainer(b)
	if err != nil {
		return err
	}
	return e.writeJCAMP(builder.NewDocument(entry), *out)
}

func runCrystal(ctx context.Context, e *env, args []string) error {
	fs := newFlags(e, "crystal", "<structure.cif>")
	out := fs.String("o", "", "output file, compressed by extension (default stdout)")
	title := fs.String("title", "", "entry title")
	minTheta := fs.Float64("min", 0, "lowest 2theta in degrees")
	maxTheta := fs.Float64("max", 90, "highest 2theta in degrees")
	source := fs.String("source", "CuKa", "ray source")
	smooth := fs.Bool("smooth", false, "ask the engine for a continuous pattern")
	if err := fs.Parse(args); err != nil {
		return err
	}
	in, err := oneInput(fs)
	if err != nil {
		return err
	}
	cif, err := os.ReadFile(in)
	if err != nil {
		return err
	}
	p, err := builder.NewCommandPredictor(e.cfg.Crystal)
	if err != nil {
		return err
	}

	entry, err := builder.SimulateDiffraction(ctx, p, builder.PredictRequest{
		Title:       *title,
		CIF:         string(cif),
		TwoThetaMin: *minTheta,
		TwoThetaMax: *maxTheta,
		RaySource:   *source,
		Smooth:      *smooth,
	})
	if err != nil {
		return err
	}
	return e.writeJCAMP(builder.NewDocument(entry), *out)
}
