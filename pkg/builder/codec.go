package builder

import (
	"github.com/joeydtaylor/jcamp/pkg/internal/assembler"
	"github.com/joeydtaylor/jcamp/pkg/internal/codec"
	"github.com/joeydtaylor/jcamp/pkg/internal/compression"
	"github.com/joeydtaylor/jcamp/pkg/internal/serializer"
)

// NewJSONEncoder creates a new JSONEncoder; a non-empty indent pretty-prints.
func NewJSONEncoder[T any](indent string) *codec.JSONEncoder[T] {
	return codec.NewJSONEncoder[T](indent)
}

// NewJSONDecoder creates a new JSONDecoder.
func NewJSONDecoder[T any]() *codec.JSONDecoder[T] {
	return codec.NewJSONDecoder[T]()
}

// NewJCAMPDecoder decodes JCAMP-DX streams compressed with alg ("" for plain text).
func NewJCAMPDecoder(asm *assembler.Assembler, alg compression.Algorithm) *codec.JCAMPDecoder {
	return codec.NewJCAMPDecoder(asm, alg)
}

// NewJCAMPEncoder encodes documents as JCAMP-DX compressed with alg ("" for plain text).
func NewJCAMPEncoder(z *serializer.Serializer, alg compression.Algorithm) *codec.JCAMPEncoder {
	return codec.NewJCAMPEncoder(z, alg)
}
