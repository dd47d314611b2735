package s3client

import (
	"strings"

	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/joeydtaylor/jcamp/pkg/internal/assembler"
	"github.com/joeydtaylor/jcamp/pkg/internal/compression"
	"github.com/joeydtaylor/jcamp/pkg/internal/serializer"
	"github.com/joeydtaylor/jcamp/pkg/internal/types"
)

// WithClientAndBucket injects the AWS client and the bucket every key refers to.
func WithClientAndBucket(cli *s3.Client, bucket string) types.Option[*S3Client] {
	return func(a *S3Client) {
		a.cli = cli
		a.bucket = strings.TrimSpace(bucket)
	}
}

// WithPrefix roots every key under prefix.
func WithPrefix(prefix string) types.Option[*S3Client] {
	return func(a *S3Client) {
		a.prefix = strings.Trim(prefix, "/")
	}
}

// WithCompression compresses documents written by PutDocument.
func WithCompression(alg compression.Algorithm) types.Option[*S3Client] {
	return func(a *S3Client) {
		a.compression = alg
	}
}

// WithSSE configures server-side encryption for writes.
func WithSSE(mode, kmsKey string) types.Option[*S3Client] {
	return func(a *S3Client) {
		a.sseMode, a.kmsKey = mode, kmsKey
	}
}

// WithMaxObjectBytes bounds the size of fetched objects.
func WithMaxObjectBytes(n int64) types.Option[*S3Client] {
	return func(a *S3Client) {
		if n > 0 {
			a.maxObjectBytes = n
		}
	}
}

// WithPageSize sets the ListObjectsV2 page size.
func WithPageSize(n int32) types.Option[*S3Client] {
	return func(a *S3Client) {
		if n > 0 {
			a.pageSize = n
		}
	}
}

// WithAssembler replaces the parser used by FetchDocument.
func WithAssembler(asm *assembler.Assembler) types.Option[*S3Client] {
	return func(a *S3Client) {
		a.assembler = asm
	}
}

// WithSerializer replaces the writer used by PutDocument.
func WithSerializer(z *serializer.Serializer) types.Option[*S3Client] {
	return func(a *S3Client) {
		a.serializer = z
	}
}

// WithLogger attaches loggers to the adapter.
func WithLogger(l ...types.Logger) types.Option[*S3Client] {
	return func(a *S3Client) {
		a.ConnectLogger(l...)
	}
}

// WithComponentMetadata names the adapter in log output.
func WithComponentMetadata(name, id string) types.Option[*S3Client] {
	return func(a *S3Client) {
		a.SetComponentMetadata(name, id)
	}
}
