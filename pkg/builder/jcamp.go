package builder

import (
	"context"
	"fmt"
	"os"
	"regexp"

	"github.com/joeydtaylor/jcamp/pkg/internal/assembler"
	"github.com/joeydtaylor/jcamp/pkg/internal/compression"
	"github.com/joeydtaylor/jcamp/pkg/internal/serializer"
	"github.com/joeydtaylor/jcamp/pkg/internal/types"
)

type (
	Document     = types.Document
	Entry        = types.Entry
	Spectrum     = types.Spectrum
	Variable     = types.Variable
	XY           = types.XY
	Result       = types.Result
	Diagnostic   = types.Diagnostic
	Metadata     = types.Metadata
	Chromatogram = types.Chromatogram
	Matrix2D     = types.Matrix2D

	StructuralError = types.StructuralError
	DecodeError     = types.DecodeError
	LookupError     = types.LookupError

	Assembler  = assembler.Assembler
	Serializer = serializer.Serializer
)

var (
	ErrStructural = types.ErrStructural
	ErrDecode     = types.ErrDecode
	ErrLookup     = types.ErrLookup
)

// NewAssembler creates a JCAMP-DX parser.
func NewAssembler(options ...types.Option[*Assembler]) *Assembler {
	return assembler.NewAssembler(options...)
}

func AssemblerWithLogger(l ...types.Logger) types.Option[*Assembler] {
	return assembler.WithLogger(l...)
}

func AssemblerWithComponentMetadata(name, id string) types.Option[*Assembler] {
	return assembler.WithComponentMetadata(name, id)
}

func AssemblerWithDynamicTyping(on bool) types.Option[*Assembler] {
	return assembler.WithDynamicTyping(on)
}

func AssemblerWithCanonicLabels(on bool) types.Option[*Assembler] {
	return assembler.WithCanonicLabels(on)
}

func AssemblerWithoutXY() types.Option[*Assembler] {
	return assembler.WithoutXY()
}

func AssemblerWithChromatogram(on bool) types.Option[*Assembler] {
	return assembler.WithChromatogram(on)
}

func AssemblerWithNMRPostProcessing(on bool) types.Option[*Assembler] {
	return assembler.WithNMRPostProcessing(on)
}

func AssemblerWithLatin1(on bool) types.Option[*Assembler] {
	return assembler.WithLatin1(on)
}

func AssemblerWithKeepRecords(re *regexp.Regexp) types.Option[*Assembler] {
	return assembler.WithKeepRecords(re)
}

// NewAssemblerFromConfig translates cfg into assembler options.
func NewAssemblerFromConfig(cfg ParseConfig, loggers ...types.Logger) (*Assembler, error) {
	opts := []types.Option[*Assembler]{
		assembler.WithLogger(loggers...),
		assembler.WithChromatogram(cfg.Chromatogram),
		assembler.WithLatin1(cfg.Latin1),
	}
	if cfg.DynamicTyping != nil {
		opts = append(opts, assembler.WithDynamicTyping(*cfg.DynamicTyping))
	}
	if cfg.CanonicLabels != nil {
		opts = append(opts, assembler.WithCanonicLabels(*cfg.CanonicLabels))
	}
	if cfg.NMR != nil {
		opts = append(opts, assembler.WithNMRPostProcessing(*cfg.NMR))
	}
	if cfg.WithoutXY {
		opts = append(opts, assembler.WithoutXY())
	}
	if cfg.KeepRecords != "" {
		re, err := regexp.Compile(cfg.KeepRecords)
		if err != nil {
			return nil, fmt.Errorf("keepRecords: %w", err)
		}
		opts = append(opts, assembler.WithKeepRecords(re))
	}
	return assembler.NewAssembler(opts...), nil
}

// NewSerializer creates a JCAMP-DX writer.
func NewSerializer(options ...types.Option[*Serializer]) *Serializer {
	return serializer.NewSerializer(options...)
}

func SerializerWithLogger(l ...types.Logger) types.Option[*Serializer] {
	return serializer.WithLogger(l...)
}

func SerializerWithOwner(owner string) types.Option[*Serializer] {
	return serializer.WithOwner(owner)
}

func SerializerWithOrigin(origin string) types.Option[*Serializer] {
	return serializer.WithOrigin(origin)
}

// NewSerializerFromConfig translates cfg into serializer options.
func NewSerializerFromConfig(cfg SerializeConfig, loggers ...types.Logger) *Serializer {
	return serializer.NewSerializer(
		serializer.WithLogger(loggers...),
		serializer.WithOwner(cfg.Owner),
		serializer.WithOrigin(cfg.Origin),
	)
}

// NewDocument wraps entries as the roots of a new document.
func NewDocument(entries ...*Entry) *Document {
	return types.NewDocument(entries...)
}

// Parse decodes text with default options.
func Parse(text string) (*Result, error) {
	return assembler.NewAssembler().Parse(text)
}

// ParseFile reads path, undoing the compression named by its extension, and parses it with asm.
func ParseFile(ctx context.Context, asm *Assembler, path string) (*Result, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	data, err := compression.DecompressPath(path, raw)
	if err != nil {
		return nil, err
	}
	if asm == nil {
		asm = assembler.NewAssembler()
	}
	return asm.ParseBytesContext(ctx, data)
}

// Serialize renders doc with default options.
func Serialize(doc *Document) ([]byte, error) {
	return serializer.NewSerializer().MarshalDocument(doc)
}

// WriteFile serializes doc to path, compressing by the path extension.
func WriteFile(z *Serializer, path string, doc *Document) error {
	if z == nil {
		z = serializer.NewSerializer()
	}
	text, err := z.MarshalDocument(doc)
	if err != nil {
		return err
	}
	data, err := compression.Compress(text, compression.FromPath(path))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
