package assembler

import (
	"regexp"

	"github.com/joeydtaylor/jcamp/pkg/internal/types"
)

// WithLogger registers loggers.
func WithLogger(l ...types.Logger) types.Option[*Assembler] {
	return func(a *Assembler) {
		a.ConnectLogger(l...)
	}
}

// WithComponentMetadata names the assembler in log output.
func WithComponentMetadata(name string, id string) types.Option[*Assembler] {
	return func(a *Assembler) {
		a.SetComponentMetadata(name, id)
	}
}

// WithDynamicTyping stores numeric and TRUE/FALSE info values as float64 and bool.
func WithDynamicTyping(on bool) types.Option[*Assembler] {
	return func(a *Assembler) {
		a.dynamicTyping = on
	}
}

// WithCanonicLabels keys info and meta by canonical label instead of the label as written.
func WithCanonicLabels(on bool) types.Option[*Assembler] {
	return func(a *Assembler) {
		a.canonicLabels = on
	}
}

// WithoutXY skips decoding of every data block; spectra are finalized without points.
func WithoutXY() types.Option[*Assembler] {
	return func(a *Assembler) {
		a.withoutXY = true
	}
}

// WithChromatogram attaches a chromatogram to every entry holding spectra.
func WithChromatogram(on bool) types.Option[*Assembler] {
	return func(a *Assembler) {
		a.chromatogram = on
	}
}

// WithNMRPostProcessing toggles Hz to ppm conversion, $OFFSET shifting and page rescaling.
func WithNMRPostProcessing(on bool) types.Option[*Assembler] {
	return func(a *Assembler) {
		a.nmr = on
	}
}

// WithLatin1 decodes byte input as ISO-8859-1 instead of UTF-8.
func WithLatin1(on bool) types.Option[*Assembler] {
	return func(a *Assembler) {
		a.latin1 = on
	}
}

// WithKeepRecords restricts info and meta to the canonical labels re matches.
func WithKeepRecords(re *regexp.Regexp) types.Option[*Assembler] {
	return func(a *Assembler) {
		a.keepRecords = re
	}
}
