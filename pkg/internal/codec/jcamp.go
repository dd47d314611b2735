package codec

import (
	"context"
	"fmt"
	"io"

	"github.com/joeydtaylor/jcamp/pkg/internal/assembler"
	"github.com/joeydtaylor/jcamp/pkg/internal/compression"
	"github.com/joeydtaylor/jcamp/pkg/internal/serializer"
	"github.com/joeydtaylor/jcamp/pkg/internal/types"
)

// JCAMPDecoder parses a JCAMP-DX stream, optionally compressed.
type JCAMPDecoder struct {
	assembler   *assembler.Assembler
	compression compression.Algorithm
	ctx         context.Context
}

// NewJCAMPDecoder returns a decoder over asm; a nil asm gets default options.
func NewJCAMPDecoder(asm *assembler.Assembler, alg compression.Algorithm) *JCAMPDecoder {
	if asm == nil {
		asm = assembler.NewAssembler()
	}
	return &JCAMPDecoder{assembler: asm, compression: alg, ctx: context.Background()}
}

// WithContext returns a copy of d whose Decode honours ctx.
func (d *JCAMPDecoder) WithContext(ctx context.Context) *JCAMPDecoder {
	cp := *d
	cp.ctx = ctx
	return &cp
}

// Decode reads r to the end and parses it. The partial result is returned alongside any
// parse error.
func (d *JCAMPDecoder) Decode(r io.Reader) (*types.Result, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("codec: read: %w", err)
	}
	data, err := compression.Decompress(raw, d.compression)
	if err != nil {
		return nil, err
	}
	return d.assembler.ParseBytesContext(d.ctx, data)
}

// JCAMPEncoder writes documents as JCAMP-DX text, optionally compressed.
type JCAMPEncoder struct {
	serializer  *serializer.Serializer
	compression compression.Algorithm
}

// NewJCAMPEncoder returns an encoder over z; a nil z gets default options.
func NewJCAMPEncoder(z *serializer.Serializer, alg compression.Algorithm) *JCAMPEncoder {
	if z == nil {
		z = serializer.NewSerializer()
	}
	return &JCAMPEncoder{serializer: z, compression: alg}
}

// Encode serializes doc to w.
func (e *JCAMPEncoder) Encode(w io.Writer, doc *types.Document) error {
	if e.compression == compression.None {
		return e.serializer.Document(w, doc)
	}
	text, err := e.serializer.MarshalDocument(doc)
	if err != nil {
		return err
	}
	packed, err := compression.Compress(text, e.compression)
	if err != nil {
		return err
	}
	_, err = w.Write(packed)
	return err
}
