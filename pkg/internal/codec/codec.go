// Package codec adapts the JCAMP-DX parser and serializer, and JSON, to the generic
// Decoder and Encoder interfaces.
package codec

import "github.com/joeydtaylor/jcamp/pkg/internal/types"

var (
	_ types.Decoder[*types.Result]   = (*JCAMPDecoder)(nil)
	_ types.Encoder[*types.Document] = (*JCAMPEncoder)(nil)
	_ types.Encoder[*types.Document] = (*JSONEncoder[*types.Document])(nil)
	_ types.Decoder[*types.Document] = (*JSONDecoder[*types.Document])(nil)
)
